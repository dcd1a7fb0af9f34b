package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/cache"
	"github.com/jstyp/storefront-backend/internal/dto"
)

type HealthHandler struct {
	pingDB func() error
	cache  cache.Cache
}

func NewHealthHandler(pingDB func() error, c cache.Cache) *HealthHandler {
	return &HealthHandler{pingDB: pingDB, cache: c}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
		Cache:     "ok",
	}
	if err := h.pingDB(); err != nil {
		resp.Status = "degraded"
		resp.DB = "unhealthy: " + err.Error()
	}
	if err := h.cache.Ping(c.UserContext()); err != nil {
		resp.Cache = "unhealthy: " + err.Error()
	}

	if resp.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
