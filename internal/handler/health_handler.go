package handler

import (
	"context"
	"storybuddy/internal/domain"
	"storybuddy/internal/dto"
	"storybuddy/internal/logger"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports process liveness and response cache reachability
type HealthHandler struct {
	cache domain.Cache
}

// NewHealthHandler creates a HealthHandler. cache may be nil when caching is disabled.
func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Health godoc
// @Summary Health check
// @Description Returns ok, or 503 when the configured response cache is unreachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.cache == nil {
		return c.JSON(dto.HealthResponse{Status: "ok", Cache: "disabled"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	if err := h.cache.Ping(ctx); err != nil {
		logger.Get().Warn("Health check: cache unreachable", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded", Cache: "unreachable"})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Cache: "up"})
}
