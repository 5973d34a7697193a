package setup

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"notes-server/config"
	"notes-server/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "notes.log")

	logger := NewLogger(&config.Config{Env: "production", LogLevel: "info", LogFilePath: logPath})
	logger.Info("hello", "note_id", 7)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"note_id":7`)
}

func TestInitDatabaseAndApp(t *testing.T) {
	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		Env:            "test",
		DBDriver:       database.DriverSQLite,
		DBPath:         filepath.Join(tmpDir, "data", "notes.db"),
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
		MirrorDir:      filepath.Join(tmpDir, "notes"),
		CORSOrigins:    "*",
	}

	db, err := InitDatabase(cfg, logger)
	require.NoError(t, err)

	application, err := InitApp(cfg, db, logger)
	require.NoError(t, err)
	require.NotNil(t, application.Notes)
	require.NotNil(t, application.Reconciler)

	info, err := os.Stat(cfg.MirrorDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	Shutdown(application.Reconciler, db, logger)
	assert.Error(t, db.Ping(), "database should be closed after shutdown")
}

func TestCustomErrorHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := NewFiberApp(&config.Config{Env: "test"}, logger)
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApplyMiddleware_RateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Env: "test", CORSOrigins: "*", RateLimitPerMinute: 2}

	app := NewFiberApp(cfg, logger)
	ApplyMiddleware(app, cfg, logger)
	app.Get("/api/notes", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{}) })
	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notes", nil), -1)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "health checks bypass the limiter")
}

func TestNewFiberApp_BodyLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := NewFiberApp(&config.Config{Env: "test", BodyLimit: 16}, logger)
	app.Post("/api/notes", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/api/notes", strings.NewReader(`{"title":"far too long for the limit"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
