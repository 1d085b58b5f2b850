package middleware

import (
	"errors"
	"net/http"
	"storybuddy/internal/domain"
	"storybuddy/internal/dto"
	"storybuddy/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is a centralized error handler. Every error body is a dto.ErrorResponse.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		logger := logger.Get()

		// Handle domain errors
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)

			fields := []zap.Field{
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.String("path", c.Path()),
				zap.Any("request_id", c.Locals(RequestIDKey)),
				zap.Error(domainErr.Err),
			}
			if statusCode >= http.StatusInternalServerError {
				logger.Error("Domain error occurred", fields...)
			} else {
				logger.Warn("Domain error occurred", fields...)
			}

			return c.Status(statusCode).JSON(dto.ErrorResponse{Error: domainErr.Message})
		}

		// Handle fiber errors
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			logger.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
				zap.String("path", c.Path()),
			)
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{Error: fiberErr.Message})
		}

		// Handle unknown errors
		logger.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals(RequestIDKey)),
			zap.Error(err),
		)

		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Internal server error",
		})
	}
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrInvalidInput, domain.ErrInvalidImage:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
