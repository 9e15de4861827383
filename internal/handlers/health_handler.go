package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/dto"
)

type HealthHandler struct {
	ping    func() error
	plugins int
}

func NewHealthHandler(ping func() error, plugins int) *HealthHandler {
	return &HealthHandler{ping: ping, plugins: plugins}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := h.ping(); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Plugins:   h.plugins,
	})
}
