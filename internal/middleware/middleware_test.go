package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"storybuddy/internal/config"
	"storybuddy/internal/domain"
	"storybuddy/internal/dto"
	"storybuddy/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func decodeError(t *testing.T, body io.Reader) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{"invalid input", domain.NewInvalidInputError(domain.MsgNoValidInput), fiber.StatusBadRequest, "No valid input provided"},
		{"invalid body", domain.NewInvalidInputError(domain.MsgInvalidBody), fiber.StatusBadRequest, "Invalid request body"},
		{"invalid image", domain.NewInvalidImageError(errors.New("bad base64")), fiber.StatusBadRequest, "Invalid image data"},
		{"llm failure hides cause", domain.NewLLMServiceError(errors.New("api key leaked here")), fiber.StatusInternalServerError, "Failed to generate response"},
		{"internal", domain.NewInternalError("boom", nil), fiber.StatusInternalServerError, "boom"},
		{"fiber error keeps status", fiber.NewError(fiber.StatusRequestEntityTooLarge, "Request Entity Too Large"), fiber.StatusRequestEntityTooLarge, "Request Entity Too Large"},
		{"unknown error", errors.New("something odd"), fiber.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedError, decodeError(t, resp.Body).Error)
		})
	}
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	app := newTestApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, decodeError(t, resp.Body).Error)
}

func TestRequestID(t *testing.T) {
	app := newTestApp()
	app.Use(middleware.RequestID())
	var seen interface{}
	app.Get("/", func(c *fiber.Ctx) error {
		seen = c.Locals(middleware.RequestIDKey)
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	id := resp.Header.Get(fiber.HeaderXRequestID)
	assert.Len(t, id, 26)
	assert.Equal(t, id, seen)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "client-supplied")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "client-supplied", resp.Header.Get(fiber.HeaderXRequestID))
}

func TestRequestLogger_AppliesErrorStatus(t *testing.T) {
	app := newTestApp()
	app.Use(middleware.RequestLogger())
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.NewInvalidInputError(domain.MsgInvalidBody)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MsgInvalidBody, decodeError(t, resp.Body).Error)
}

func TestSecureHeaders(t *testing.T) {
	app := newTestApp()
	app.Use(middleware.SecureHeaders())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/swagger/index.html", func(c *fiber.Ctx) error { return c.SendString("ui") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, err = app.Test(httptest.NewRequest("GET", "/swagger/index.html", nil))
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("X-Content-Type-Options"))
}

func TestCORS(t *testing.T) {
	app := newTestApp()
	app.Use(middleware.CORS(config.CORSConfig{}))
	app.Post("/StoryTeller", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("POST", "/StoryTeller", nil)
	req.Header.Set("Origin", "http://example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestRateLimit(t *testing.T) {
	assert.Nil(t, middleware.RateLimit(config.RateLimitConfig{Max: 0}))

	app := newTestApp()
	app.Use(middleware.RateLimit(config.RateLimitConfig{Max: 2, Expiration: time.Minute}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many requests", decodeError(t, resp.Body).Error)

	resp, err = app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "health checks are not limited")
}
