package handlers

import (
	"context"

	"payvault/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	cache Pinger
}

func NewHealthHandler(cache Pinger) *HealthHandler {
	return &HealthHandler{cache: cache}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if h.cache != nil {
		if err := h.cache.HealthCheck(c.Context()); err != nil {
			return utils.Respond(c, fiber.StatusServiceUnavailable, fiber.Map{
				"status": "degraded",
				"redis":  err.Error(),
			})
		}
	}
	return utils.Success(c, fiber.Map{"status": "ok"})
}
