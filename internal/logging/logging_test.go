package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	return db
}

func TestDBHandlerPersistsErrorsOnly(t *testing.T) {
	db := setupTestDB(t)
	h := NewDBHandler(db)

	log := slog.New(h).With("user_id", "u-1")
	log.Info("ignored")
	log.Error("save entry failed",
		"error", errors.New("connection reset"),
		"action", "submit",
		"latency_ms", 12.6,
		"entry_kind", "final",
	)
	h.Stop()
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	got := logs[0]
	assert.Equal(t, "save entry failed", got.Message)
	assert.Equal(t, "ERROR", got.Level)
	assert.Equal(t, "connection reset", got.Error)
	assert.Equal(t, "submit", got.Action)
	assert.Equal(t, 13, got.LatencyMs)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "u-1", *got.UserID)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(got.Extra, &extra))
	assert.Equal(t, "final", extra["entry_kind"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errs bytes.Buffer
	m := NewMultiHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(m).WithGroup("echo").With("k", "v")

	assert.True(t, m.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, m.Enabled(context.Background(), slog.LevelDebug))

	log.Info("hello")
	log.Error("boom")

	assert.Contains(t, info.String(), "hello")
	assert.Contains(t, info.String(), "echo.k=v")
	assert.NotContains(t, errs.String(), "hello")
	assert.Contains(t, errs.String(), "boom")
}

func TestPurgeSystemLogs(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 10, 15, 3, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&[]models.SystemLog{
		{Timestamp: now.AddDate(0, 0, -31), Level: "ERROR", Message: "old"},
		{Timestamp: now.AddDate(0, 0, -29), Level: "ERROR", Message: "recent"},
	}).Error)

	deleted, err := PurgeSystemLogs(context.Background(), db, 30, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var left []models.SystemLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "recent", left[0].Message)

	deleted, err = PurgeSystemLogs(context.Background(), db, 0, now)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
