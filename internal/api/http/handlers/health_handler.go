package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/persistence"
)

// HealthHandler reports liveness and readiness.
type HealthHandler struct {
	redis *persistence.Redis
}

// NewHealthHandler constructs handler.
func NewHealthHandler(redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{redis: redis}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready. Readiness requires the token store.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if err := h.redis.Ping(c.UserContext()); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"redis":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
