// file: internals/features/setcheck/templates/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"setcheck_backend/internals/constants"
	templateCtl "setcheck_backend/internals/features/setcheck/templates/controller"
	authMiddleware "setcheck_backend/internals/middlewares/auth"
)

// Base: /api/a/setcheck
func TemplateAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := templateCtl.NewTemplateController(db, nil)

	base := admin.Group("",
		authMiddleware.OnlyRolesSlice(
			constants.RoleErrorAdmin("template management"),
			constants.AdminAndAbove,
		),
	)

	base.Get("/form-fields", ctl.FormFields)

	r := base.Group("/templates")
	r.Get("/", ctl.List)
	r.Get("/manage", ctl.Manage)
	r.Post("/", ctl.Create)
	r.Get("/:id/view", ctl.View)
	r.Patch("/:id", ctl.Patch)
	r.Delete("/:id", ctl.Delete)
}
