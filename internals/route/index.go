// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"setcheck_backend/internals/configs"
	"setcheck_backend/internals/constants"
	authMiddleware "setcheck_backend/internals/middlewares/auth"
	routeDetails "setcheck_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	configs.Log.Info("Setting up BaseRoutes...")
	BaseRoutes(app, db)

	// ===================== PRIVATE (USER) =====================
	configs.Log.Info("Setting up PRIVATE group...")
	private := app.Group("/api/u", authMiddleware.AuthMiddleware())

	// ===================== ADMIN =====================
	configs.Log.Info("Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(),
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("the admin area"), constants.AdminAndAbove),
	)

	// ===================== MOUNT ROUTES =====================
	configs.Log.Info("Mounting Setcheck routes...")
	routeDetails.SetcheckUserRoutes(private, db)
	routeDetails.SetcheckAdminRoutes(admin, db)
}
