package middleware

import (
	"storybuddy/internal/config"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/helmet/v2"
)

// SecureHeaders sets the usual browser hardening headers.
func SecureHeaders() fiber.Handler {
	return helmet.New(helmet.Config{
		// Swagger UI loads inline scripts.
		Filter: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/swagger")
		},
	})
}

// CORS allows the configured origins. The mobile and web clients call from anywhere by default.
func CORS(cfg config.CORSConfig) fiber.Handler {
	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
		MaxAge:       300,
	})
}

// RateLimit limits requests per client IP. It returns nil when limiting is disabled.
func RateLimit(cfg config.RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		return nil
	}
	expiration := cfg.Expiration
	if expiration <= 0 {
		expiration = time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: expiration,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests")
		},
	})
}
