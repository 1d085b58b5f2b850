package middleware

import (
	"storybuddy/internal/logger"
	"storybuddy/internal/util"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// RequestIDKey is the fiber.Ctx locals key holding the request id.
const RequestIDKey = "requestid"

// RequestID tags every request with a ULID, echoed in the X-Request-ID header.
// A client-supplied X-Request-ID is kept.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  util.NewULID,
		ContextKey: RequestIDKey,
	})
}

// RequestLogger is a middleware that logs HTTP requests
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		// Process request
		err := c.Next()

		// The status is only final after the error handler ran.
		if err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get(fiber.HeaderUserAgent)),
			zap.Any("request_id", c.Locals(RequestIDKey)),
		)

		return err
	}
}
