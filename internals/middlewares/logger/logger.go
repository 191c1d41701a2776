package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"setcheck_backend/internals/configs"
)

const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware tags every request with an id and logs it once it completes.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Locals("reqid", id)

		chainErr := c.Next()

		// render the error now so the logged status is the one the client gets
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		entry := configs.Log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Method(),
			"uri":        c.OriginalURL(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.IP(),
		})

		switch {
		case status >= 500:
			if chainErr != nil {
				entry = entry.WithError(chainErr)
			}
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
		return nil
	}
}
