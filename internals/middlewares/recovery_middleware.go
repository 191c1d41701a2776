package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"setcheck_backend/internals/configs"
	helper "setcheck_backend/internals/helpers"
	"setcheck_backend/internals/middlewares/logger"
)

// RecoveryMiddleware turns a panic into a 500 and logs the stack.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			configs.Log.WithFields(logrus.Fields{
				"request_id": c.Locals("reqid"),
				"panic":      e,
				"path":       c.Path(),
			}).Error("recovered from panic")
		},
	})
}

// ErrorHandler renders errors returned by handlers with the JSON envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return helper.FromFiberError(c, err)
}

// SetupMiddlewares installs the app-wide chain, outermost first.
func SetupMiddlewares(app *fiber.App) {
	app.Use(logger.LoggerMiddleware())
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
