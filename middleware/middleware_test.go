package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(StructuredLogger(logger), Security(false))
	app.Get("/api/notes/:id", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"request_id": c.Locals("requestID")})
	})

	t.Run("Generates a request id", func(t *testing.T) {
		buf.Reset()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes/7", nil), -1)
		require.NoError(t, err)

		id := resp.Header.Get(RequestIDHeader)
		_, parseErr := uuid.Parse(id)
		assert.NoError(t, parseErr)
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

		assert.Contains(t, buf.String(), `"level":"WARN"`)
		assert.Contains(t, buf.String(), id)
	})

	t.Run("Keeps a valid incoming request id", func(t *testing.T) {
		incoming := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/api/notes/1", nil)
		req.Header.Set(RequestIDHeader, incoming)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, incoming, resp.Header.Get(RequestIDHeader))
	})

	t.Run("Replaces a malformed incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/notes/1", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.NotEqual(t, "not-a-uuid", resp.Header.Get(RequestIDHeader))
	})
}

func TestSecurity(t *testing.T) {
	tests := []struct {
		name        string
		hsts        bool
		path        string
		expectHSTS  bool
		expectCache string
	}{
		{"API read is not cached", false, "/api/notes", false, "no-store"},
		{"Metrics scrape keeps default caching", false, "/metrics", false, ""},
		{"HSTS only when enabled", true, "/api/notes", true, "no-store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(Security(tt.hsts))
			app.Get(tt.path, func(c *fiber.Ctx) error { return c.SendString("ok") })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)

			assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
			assert.Equal(t, tt.expectCache, resp.Header.Get("Cache-Control"))
			assert.Equal(t, tt.expectHSTS, resp.Header.Get("Strict-Transport-Security") != "")
		})
	}
}
