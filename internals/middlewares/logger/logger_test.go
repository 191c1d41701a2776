package logger

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setcheck_backend/internals/configs"
)

func newLoggedApp() *fiber.App {
	app := fiber.New()
	app.Use(LoggerMiddleware())
	app.Use(recover.New())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("db down") })
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })
	return app
}

func TestLoggerMiddlewareStatusClass(t *testing.T) {
	hook := test.NewLocal(configs.Log)
	t.Cleanup(func() { configs.Log.ReplaceHooks(make(logrus.LevelHooks)) })
	app := newLoggedApp()

	cases := []struct {
		path   string
		status int
		level  logrus.Level
		msg    string
	}{
		{"/ok", http.StatusOK, logrus.InfoLevel, "request completed"},
		{"/missing", http.StatusNotFound, logrus.WarnLevel, "request rejected"},
		{"/plain", http.StatusInternalServerError, logrus.ErrorLevel, "request failed"},
		{"/boom", http.StatusInternalServerError, logrus.ErrorLevel, "request failed"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			hook.Reset()
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tc.level, entry.Level)
			assert.Equal(t, tc.msg, entry.Message)
			assert.Equal(t, tc.status, entry.Data["status"])
		})
	}
}

func TestLoggerMiddlewareKeepsIncomingRequestID(t *testing.T) {
	hook := test.NewLocal(configs.Log)
	t.Cleanup(func() { configs.Log.ReplaceHooks(make(logrus.LevelHooks)) })
	app := newLoggedApp()

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "req-123", hook.LastEntry().Data["request_id"])
}
