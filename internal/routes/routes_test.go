package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/apps"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/apps/echo"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/config"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/models"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/services"
)

type server struct {
	app    *fiber.App
	plugin *echo.EchoPlugin
}

func setupServer(t *testing.T) *server {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &journal.Entry{}))

	cfg := &config.Config{
		JWTSecret:             "routes-test-secret",
		JWTAccessExpiry:       15 * time.Minute,
		JWTRefreshExpiry:      time.Hour,
		ConsistencyWindowDays: 30,
		Timezone:              "UTC",
	}

	authService := services.NewAuthService(db, cfg)
	plugin := echo.New(authService)

	app := fiber.New()
	Setup(app, cfg, db,
		handlers.NewAuthHandler(authService),
		handlers.NewHealthHandler(func() error { return nil }, 1),
		[]apps.Plugin{plugin},
	)
	return &server{app: app, plugin: plugin}
}

func (s *server) call(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestHealth(t *testing.T) {
	s := setupServer(t)

	status, raw := s.call(t, "GET", "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, status)

	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(raw, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Plugins)
}

func TestJournalRequiresToken(t *testing.T) {
	s := setupServer(t)

	status, _ := s.call(t, "GET", "/api/p/journal/session", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = s.call(t, "GET", "/api/p/journal/session", "garbage", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRegisterJournalLogout(t *testing.T) {
	s := setupServer(t)

	status, raw := s.call(t, "POST", "/api/auth/register", "", dto.RegisterRequest{
		Email: "ada@example.com", Password: "correct horse",
	})
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var auth dto.AuthResponse
	require.NoError(t, json.Unmarshal(raw, &auth))

	status, _ = s.call(t, "POST", "/api/auth/register", "", dto.RegisterRequest{
		Email: "ada@example.com", Password: "correct horse",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = s.call(t, "POST", "/api/p/journal/session/emotions/toggle", auth.AccessToken,
		echo.ToggleEmotionRequest{Emotion: "Serenity"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, s.plugin.Sessions().Len())

	status, _ = s.call(t, "POST", "/api/auth/logout", auth.AccessToken, dto.LogoutRequest{RefreshToken: auth.RefreshToken})
	require.Equal(t, fiber.StatusOK, status)
	assert.Zero(t, s.plugin.Sessions().Len(), "logout discards the draft")

	status, _ = s.call(t, "POST", "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: auth.RefreshToken})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = s.call(t, "POST", "/api/auth/login", "", dto.LoginRequest{Email: "ada@example.com", Password: "nope-nope"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
