// file: internals/features/setcheck/reconcile/controller/reconcile_controller.go
package controller

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"setcheck_backend/internals/configs"
	"setcheck_backend/internals/constants"
	catalogService "setcheck_backend/internals/features/setcheck/catalog/service"
	"setcheck_backend/internals/features/setcheck/reconcile/dto"
	"setcheck_backend/internals/features/setcheck/reconcile/service"
	templateService "setcheck_backend/internals/features/setcheck/templates/service"
)

// ReconcileController answers apply / check / amend. Every answer is HTTP 200
// with a bare result object; failures travel in its error field.
type ReconcileController struct {
	Engine    *service.Engine
	Validator *validator.Validate
}

func NewReconcileController(db *gorm.DB, v *validator.Validate) *ReconcileController {
	if v == nil {
		v = validator.New()
	}
	engine := service.NewEngine(
		templateService.NewTemplateStore(db),
		catalogService.NewAssignmentStore(db),
	)
	return &ReconcileController{Engine: engine, Validator: v}
}

// target reads :id and the assignment_id body field; ok is false when either
// is missing or not a positive integer.
func (ctl *ReconcileController) target(c *fiber.Ctx) (templateID, assignmentID int64, ok bool) {
	templateID, err := strconv.ParseInt(strings.TrimSpace(c.Params("id")), 10, 64)
	if err != nil || templateID <= 0 {
		return 0, 0, false
	}
	var p dto.ReconcileRequest
	if err := c.BodyParser(&p); err != nil {
		debugPayload(c, "body", err)
		return 0, 0, false
	}
	if err := ctl.Validator.Struct(&p); err != nil {
		return 0, 0, false
	}
	return templateID, p.AssignmentID, true
}

func debugPayload(c *fiber.Ctx, source string, err error) {
	configs.Log.WithFields(logrus.Fields{
		"request_id": c.Locals("reqid"),
		"path":       c.Path(),
		"source":     source,
	}).WithError(err).Debug("reconcile payload unreadable")
}

/* ============================================
   POST /api/u/setcheck/templates/:id/apply
============================================ */

func (ctl *ReconcileController) Apply(c *fiber.Ctx) error {
	tid, aid, ok := ctl.target(c)
	if !ok {
		return c.JSON(dto.ActionResult{Error: constants.ErrInvalidTemplateOrAssignment})
	}
	return c.JSON(ctl.Engine.Apply(c.UserContext(), tid, aid))
}

/* ============================================
   POST /api/u/setcheck/templates/:id/check
============================================ */

func (ctl *ReconcileController) Check(c *fiber.Ctx) error {
	tid, aid, ok := ctl.target(c)
	if !ok {
		return c.JSON(dto.CheckResult{Errors: []string{}, Error: constants.ErrInvalidTemplateOrAssignment})
	}
	return c.JSON(ctl.Engine.Check(c.UserContext(), tid, aid))
}

/* ============================================
   POST /api/u/setcheck/templates/:id/amend
============================================ */

func (ctl *ReconcileController) Amend(c *fiber.Ctx) error {
	tid, aid, ok := ctl.target(c)
	if !ok {
		return c.JSON(dto.ActionResult{Error: constants.ErrInvalidTemplateOrAssignment})
	}
	return c.JSON(ctl.Engine.Amend(c.UserContext(), tid, aid))
}

/* ============================================
   POST /api/u/setcheck/ajax
   action=apply|check|amend&template_id=&assignment_id=
============================================ */

func (ctl *ReconcileController) Ajax(c *fiber.Ctx) error {
	var p dto.AjaxRequest
	if err := c.BodyParser(&p); err != nil {
		debugPayload(c, "body", err)
	}
	if p.Action == "" {
		if err := c.QueryParser(&p); err != nil {
			debugPayload(c, "query", err)
		}
	}

	action := strings.ToLower(strings.TrimSpace(p.Action))
	switch action {
	case "apply", "check", "amend":
	default:
		return c.JSON(dto.ActionResult{Error: constants.ErrInvalidAction})
	}

	if err := ctl.Validator.Struct(&p); err != nil {
		if action == "check" {
			return c.JSON(dto.CheckResult{Errors: []string{}, Error: constants.ErrInvalidTemplateOrAssignment})
		}
		return c.JSON(dto.ActionResult{Error: constants.ErrInvalidTemplateOrAssignment})
	}

	ctx := c.UserContext()
	switch action {
	case "apply":
		return c.JSON(ctl.Engine.Apply(ctx, p.TemplateID, p.AssignmentID))
	case "check":
		return c.JSON(ctl.Engine.Check(ctx, p.TemplateID, p.AssignmentID))
	default:
		return c.JSON(ctl.Engine.Amend(ctx, p.TemplateID, p.AssignmentID))
	}
}
