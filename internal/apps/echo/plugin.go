package echo

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/config"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/scheduler"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/services"
)

// AuthNotifier is the part of the auth service the plugin listens to.
type AuthNotifier interface {
	OnAuthChange(fn func(services.AuthEvent)) (unsubscribe func())
}

type EchoPlugin struct {
	auth     AuthNotifier
	repo     journal.Repository
	now      func() time.Time
	sessions *SessionStore
}

type Option func(*EchoPlugin)

// WithRepository replaces the GORM-backed repository built in RegisterRoutes.
func WithRepository(repo journal.Repository) Option {
	return func(p *EchoPlugin) { p.repo = repo }
}

func WithClock(now func() time.Time) Option {
	return func(p *EchoPlugin) { p.now = now }
}

func New(auth AuthNotifier, opts ...Option) *EchoPlugin {
	p := &EchoPlugin{auth: auth, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *EchoPlugin) ID() string { return "echo" }

func (p *EchoPlugin) Models() []interface{} {
	return []interface{}{
		&journal.Entry{},
	}
}

// Sessions is nil until RegisterRoutes has run.
func (p *EchoPlugin) Sessions() *SessionStore { return p.sessions }

func (p *EchoPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	if p.repo == nil {
		p.repo = journal.NewGormRepository(db)
	}
	p.sessions = NewSessionStore(p.repo, p.now)
	if p.auth != nil {
		p.auth.OnAuthChange(p.handleAuthEvent)
	}

	insights := NewInsightsService(p.repo, cfg.ConsistencyWindowDays, cfg.Location(), p.now)
	handler := NewJournalHandler(p.sessions, insights)

	router.Get("/journal/taxonomy", handler.Taxonomy)
	router.Get("/journal/taxonomy/:category", handler.CategoryEmotions)
	router.Get("/journal/prompt", handler.Prompt)

	// Capture flow
	router.Post("/journal/session", handler.EnterSession)
	router.Get("/journal/session", handler.GetSession)
	router.Delete("/journal/session", handler.LeaveSession)
	router.Post("/journal/session/emotions/toggle", handler.ToggleEmotion)
	router.Put("/journal/session/intensities", handler.SetIntensities)
	router.Put("/journal/session/text", handler.SetText)
	router.Post("/journal/session/next", handler.Next)
	router.Post("/journal/session/back", handler.Back)
	router.Post("/journal/session/draft", handler.SaveDraft)
	router.Post("/journal/session/submit", handler.Submit)

	// History and analytics
	router.Get("/journal/entries", handler.ListEntries)
	router.Get("/journal/drafts", handler.ListDrafts)
	router.Get("/journal/insights", handler.Insights)
	router.Get("/journal/calendar", handler.Calendar)
	router.Put("/journal/entries/:id/insights", handler.AttachInsights)
}

func (p *EchoPlugin) Jobs(cfg *config.Config) []scheduler.Job {
	return []scheduler.Job{{
		Name: "echo.sweep-idle-sessions",
		Spec: "*/15 * * * *",
		Run: func(context.Context) error {
			if p.sessions == nil {
				return nil
			}
			if n := p.sessions.SweepIdle(cfg.SessionIdleTimeout); n > 0 {
				slog.Info("idle journal sessions evicted", "count", n)
			}
			return nil
		},
	}}
}

func (p *EchoPlugin) handleAuthEvent(ev services.AuthEvent) {
	switch ev.Type {
	case services.AuthEventSignedOut, services.AuthEventDeleted:
		p.discardSession(ev.UserID)
	}
}

func (p *EchoPlugin) discardSession(userID uuid.UUID) {
	if p.sessions != nil && p.sessions.Leave(userID) {
		slog.Info("journal session discarded", "user_id", userID.String())
	}
}
