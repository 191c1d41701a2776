// file: internals/features/setcheck/reconcile/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"setcheck_backend/internals/constants"
	reconcileCtl "setcheck_backend/internals/features/setcheck/reconcile/controller"
	"setcheck_backend/internals/middlewares"
	authMiddleware "setcheck_backend/internals/middlewares/auth"
)

// Base: /api/u/setcheck
func ReconcileUserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := reconcileCtl.NewReconcileController(db, nil)

	r := user.Group("",
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorTeacher("template reconciliation"),
			constants.TeacherAndAbove,
		),
	)
	limit := middlewares.ReconcileRateLimiter()

	r.Post("/templates/:id/apply", limit, ctl.Apply)
	r.Post("/templates/:id/check", ctl.Check)
	r.Post("/templates/:id/amend", limit, ctl.Amend)
	r.Post("/ajax", limit, ctl.Ajax)
}
