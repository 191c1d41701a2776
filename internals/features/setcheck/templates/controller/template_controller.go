// file: internals/features/setcheck/templates/controller/template_controller.go
package controller

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"setcheck_backend/internals/configs"
	"setcheck_backend/internals/constants"
	catalogService "setcheck_backend/internals/features/setcheck/catalog/service"
	"setcheck_backend/internals/features/setcheck/settings"
	"setcheck_backend/internals/features/setcheck/templates/dto"
	"setcheck_backend/internals/features/setcheck/templates/model"
	"setcheck_backend/internals/features/setcheck/templates/service"
	helper "setcheck_backend/internals/helpers"
)

/* ============================================
   Controller
============================================ */

type TemplateController struct {
	DB          *gorm.DB
	Validator   *validator.Validate
	Store       *service.TemplateStore
	Resolver    *service.ScopeResolver
	Tree        *catalogService.TreeProvider
	Assignments *catalogService.AssignmentStore
}

func NewTemplateController(db *gorm.DB, v *validator.Validate) *TemplateController {
	if v == nil {
		v = validator.New()
	}
	store := service.NewTemplateStore(db)
	tree := catalogService.NewTreeProvider(db)
	return &TemplateController{
		DB:          db,
		Validator:   v,
		Store:       store,
		Resolver:    service.NewScopeResolver(store, tree),
		Tree:        tree,
		Assignments: catalogService.NewAssignmentStore(db),
	}
}

/* ============================================
   RESP/ERR helpers
============================================ */

func httpErr(c *fiber.Ctx, code int, msg string) error {
	return helper.JsonError(c, code, msg)
}

func bindAndValidate[T any](c *fiber.Ctx, v *validator.Validate, dst *T) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
	}
	if v != nil {
		if err := v.Struct(dst); err != nil {
			return err
		}
	}
	return nil
}

func respondBindErr(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return httpErr(c, fe.Code, fe.Message)
	}
	return helper.ValidationError(c, err)
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Params(param)), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+param)
	}
	return id, nil
}

// storeErr maps store errors to HTTP statuses.
func storeErr(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return httpErr(c, fiber.StatusNotFound, "Template not found")
	case errors.Is(err, service.ErrValidation):
		return httpErr(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		configs.Log.WithError(err).Error(action + " failed")
		return httpErr(c, fiber.StatusInternalServerError, "Failed to "+action)
	}
}

func manageURL(level string, id int64) string {
	q := url.Values{}
	q.Set("contextlevel", level)
	q.Set("id", strconv.FormatInt(id, 10))
	return configs.ManageTemplateURL + "?" + q.Encode()
}

/* ============================================
   CREATE
   POST /api/a/setcheck/templates
   -> {redirect} | {error}
============================================ */

func (ctl *TemplateController) Create(c *fiber.Ctx) error {
	var p dto.CreateTemplateDTO
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateTemplateResponse{Error: "Invalid payload"})
	}
	p.Normalize()
	if err := ctl.Validator.Struct(&p); err != nil {
		return helper.ValidationError(c, err)
	}
	if p.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateTemplateResponse{Error: constants.ErrTemplateNameRequired})
	}
	scope, err := p.Scope()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateTemplateResponse{Error: err.Error()})
	}

	creatorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	index, err := catalogService.NewAssignmentFormMirror(ctl.Assignments, 0).Index(c.UserContext())
	if err != nil {
		configs.Log.WithError(err).Error("listing assignment form fields failed")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.CreateTemplateResponse{Error: "Failed to read the settings form"})
	}
	captured, err := settings.Capture(index.NormalizeFormValues(p.Settings), index)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateTemplateResponse{Error: "No template settings submitted."})
	}

	ent, err := ctl.Store.Create(c.UserContext(), p.ToInput(captured, scope, creatorID))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.CreateTemplateResponse{Error: err.Error()})
		}
		configs.Log.WithError(err).Error("create template failed")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.CreateTemplateResponse{Error: "Failed to create template"})
	}

	configs.Log.WithFields(logrus.Fields{
		"template_id": ent.ID,
		"scope":       ent.Scope().Kind(),
		"settings":    captured.Len(),
		"creator_id":  creatorID,
	}).Info("template created")

	var contextID int64
	switch {
	case ent.CategoryID != nil:
		contextID = *ent.CategoryID
	case ent.CourseID != nil:
		contextID = *ent.CourseID
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateTemplateResponse{
		ID:       ent.ID,
		Redirect: manageURL(p.ContextLevel, contextID),
	})
}

/* ============================================
   GET (assignment form)
   GET /api/u/setcheck/templates/:id
   -> {name, description, settings:[{html_id, value}]}
============================================ */

func (ctl *TemplateController) GetTemplate(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ent, err := ctl.Store.Get(c.UserContext(), id)
	if err != nil {
		return storeErr(c, err, "load template")
	}
	return c.JSON(dto.ToGetResponse(*ent))
}

/* ============================================
   VIEW (admin)
   GET /api/a/setcheck/templates/:id/view
============================================ */

func (ctl *TemplateController) View(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	ent, err := ctl.Store.Get(c.UserContext(), id)
	if err != nil {
		return storeErr(c, err, "load template")
	}

	resp := dto.ToViewResponse(*ent, constants.MsgNoSettingsFound)
	resp.ContextName = ctl.contextNames(c, []model.TemplateModel{*ent})[ent.ID]
	return helper.JsonOK(c, "ok", resp)
}

/* ============================================
   LIST (admin, all scopes)
   GET /api/a/setcheck/templates?q=&page=&per_page=
============================================ */

func (ctl *TemplateController) List(c *fiber.Ctx) error {
	all, err := ctl.Store.List(c.UserContext(), service.ScopeFilter{})
	if err != nil {
		return storeErr(c, err, "list templates")
	}

	if q := strings.ToLower(model.NormalizeName(c.Query("q"))); q != "" {
		filtered := all[:0]
		for _, t := range all {
			if strings.Contains(strings.ToLower(t.Name), q) {
				filtered = append(filtered, t)
			}
		}
		all = filtered
	}

	page, pg := helper.PageSlice(all, helper.ResolvePaging(c, 20, 200))
	return helper.JsonList(c, "ok", dto.FromModels(page), pg)
}

/* ============================================
   MANAGE (admin, per context)
   GET /api/a/setcheck/templates/manage?contextlevel=category|course|global&id=
============================================ */

func (ctl *TemplateController) Manage(c *fiber.Ctx) error {
	level := strings.ToLower(strings.TrimSpace(c.Query("contextlevel", dto.ContextGlobal)))
	id := int64(c.QueryInt("id", 0))
	ctx := c.UserContext()

	var (
		list []model.TemplateModel
		err  error
	)
	switch level {
	case dto.ContextCategory:
		if id <= 0 {
			return httpErr(c, fiber.StatusBadRequest, "Invalid id")
		}
		list, err = ctl.Resolver.ManagedUnder(ctx, id)
		if errors.Is(err, service.ErrScopeResolution) {
			return httpErr(c, fiber.StatusNotFound, "Category not found")
		}
	case dto.ContextCourse:
		if id <= 0 {
			return httpErr(c, fiber.StatusBadRequest, "Invalid id")
		}
		list, err = ctl.Store.List(ctx, service.ScopeFilter{CourseIDs: []int64{id}})
	case dto.ContextGlobal:
		list, err = ctl.Store.List(ctx, service.ScopeFilter{})
	default:
		return httpErr(c, fiber.StatusBadRequest, "Invalid contextlevel")
	}
	if err != nil {
		return storeErr(c, err, "list templates")
	}

	names := ctl.contextNames(c, list)
	out := dto.FromModels(list)
	for i := range out {
		out[i].ContextName = names[out[i].ID]
	}
	return helper.JsonOK(c, "ok", out)
}

// contextNames maps template id to the name of its category or course.
// Lookup failures leave the name empty.
func (ctl *TemplateController) contextNames(c *fiber.Ctx, list []model.TemplateModel) map[int64]string {
	var catIDs, courseIDs []int64
	for _, t := range list {
		if t.CategoryID != nil {
			catIDs = append(catIDs, *t.CategoryID)
		}
		if t.CourseID != nil {
			courseIDs = append(courseIDs, *t.CourseID)
		}
	}

	ctx := c.UserContext()
	catNames, err := ctl.Tree.CategoryNames(ctx, catIDs)
	if err != nil {
		configs.Log.WithError(err).Warn("category names lookup failed")
	}
	courseNames, err := ctl.Tree.CourseNames(ctx, courseIDs)
	if err != nil {
		configs.Log.WithError(err).Warn("course names lookup failed")
	}

	out := make(map[int64]string, len(list))
	for _, t := range list {
		switch {
		case t.CategoryID != nil:
			out[t.ID] = catNames[*t.CategoryID]
		case t.CourseID != nil:
			out[t.ID] = courseNames[*t.CourseID]
		default:
			out[t.ID] = "System"
		}
	}
	return out
}

/* ============================================
   PATCH (admin)
   PATCH /api/a/setcheck/templates/:id
============================================ */

func (ctl *TemplateController) Patch(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.UpdateTemplateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return respondBindErr(c, err)
	}
	fields, err := p.ToFields()
	if err != nil {
		return httpErr(c, fiber.StatusBadRequest, err.Error())
	}
	if fields.Settings != nil {
		for _, e := range fields.Settings.Entries() {
			if e.SettingName == "" {
				return httpErr(c, fiber.StatusBadRequest, "Every setting needs a setting_name")
			}
		}
	}

	ent, err := ctl.Store.Update(c.UserContext(), id, fields)
	if err != nil {
		return storeErr(c, err, "update template")
	}
	configs.Log.WithField("template_id", ent.ID).Info("template updated")
	return helper.JsonUpdated(c, "Template updated", dto.FromModel(*ent))
}

/* ============================================
   DELETE (admin)
   DELETE /api/a/setcheck/templates/:id
============================================ */

func (ctl *TemplateController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Store.Delete(c.UserContext(), id); err != nil {
		return storeErr(c, err, "delete template")
	}
	configs.Log.WithField("template_id", id).Info("template deleted")
	return helper.JsonDeleted(c, "Template deleted", fiber.Map{"id": id})
}

/* ============================================
   VISIBLE TEMPLATES (assignment form)
   GET /api/u/setcheck/courses/:course_id/templates
   GET /api/u/setcheck/categories/:category_id/templates
============================================ */

func (ctl *TemplateController) VisibleForCourse(c *fiber.Ctx) error {
	id, err := parseID(c, "course_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToOptions(ctl.Resolver.ForCourse(c.UserContext(), id)))
}

func (ctl *TemplateController) VisibleForCategory(c *fiber.Ctx) error {
	id, err := parseID(c, "category_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToOptions(ctl.Resolver.ForCategory(c.UserContext(), id)))
}

/* ============================================
   FORM FIELDS (authoring form)
   GET /api/a/setcheck/form-fields?assignment_id=
============================================ */

func (ctl *TemplateController) FormFields(c *fiber.Ctx) error {
	ref := int64(c.QueryInt("assignment_id", 0))
	if ref < 0 {
		return httpErr(c, fiber.StatusBadRequest, "Invalid assignment_id")
	}
	fields, err := catalogService.NewAssignmentFormMirror(ctl.Assignments, ref).ListFields(c.UserContext())
	if err != nil {
		if errors.Is(err, catalogService.ErrNotFound) {
			return httpErr(c, fiber.StatusNotFound, "Assignment not found")
		}
		configs.Log.WithError(err).Error("listing form fields failed")
		return httpErr(c, fiber.StatusInternalServerError, "Failed to list form fields")
	}
	return helper.JsonOK(c, "ok", fields)
}
