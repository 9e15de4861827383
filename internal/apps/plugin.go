package apps

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/config"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/scheduler"
)

// Plugin defines the interface every app must implement.
type Plugin interface {
	// ID returns the unique app identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts app-specific routes on the given Fiber group.
	// The group is already prefixed with /api/p and has JWT middleware applied.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// ScheduledPlugin extends Plugin with periodic background jobs.
// Jobs is called after RegisterRoutes.
type ScheduledPlugin interface {
	Plugin

	Jobs(cfg *config.Config) []scheduler.Job
}
