// file: internals/features/setcheck/templates/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"setcheck_backend/internals/constants"
	templateCtl "setcheck_backend/internals/features/setcheck/templates/controller"
	authMiddleware "setcheck_backend/internals/middlewares/auth"
)

// Read-only lookups used by the assignment form.
// Base: /api/u/setcheck
func TemplateUserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := templateCtl.NewTemplateController(db, nil)

	r := user.Group("",
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorTeacher("assignment templates"),
			constants.TeacherAndAbove,
		),
	)

	r.Get("/templates/:id", ctl.GetTemplate)
	r.Get("/courses/:course_id/templates", ctl.VisibleForCourse)
	r.Get("/categories/:category_id/templates", ctl.VisibleForCategory)
}
