package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reconcileRoute "setcheck_backend/internals/features/setcheck/reconcile/route"
	templateRoute "setcheck_backend/internals/features/setcheck/templates/route"
)

// SetcheckUserRoutes mounts under /api/u.
func SetcheckUserRoutes(user fiber.Router, db *gorm.DB) {
	g := user.Group("/setcheck")
	templateRoute.TemplateUserRoutes(g, db)
	reconcileRoute.ReconcileUserRoutes(g, db)
}

// SetcheckAdminRoutes mounts under /api/a.
func SetcheckAdminRoutes(admin fiber.Router, db *gorm.DB) {
	templateRoute.TemplateAdminRoutes(admin.Group("/setcheck"), db)
}
