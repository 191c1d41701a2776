// file: internals/features/setcheck/reconcile/service/engine.go
package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"setcheck_backend/internals/configs"
	"setcheck_backend/internals/constants"
	catalogService "setcheck_backend/internals/features/setcheck/catalog/service"
	"setcheck_backend/internals/features/setcheck/reconcile/dto"
	"setcheck_backend/internals/features/setcheck/settings"
	templateModel "setcheck_backend/internals/features/setcheck/templates/model"
)

type TemplateSource interface {
	Get(ctx context.Context, id int64) (*templateModel.TemplateModel, error)
}

// EntityStore reads and writes the target entity as a flat attribute map.
type EntityStore interface {
	Get(ctx context.Context, id int64) (map[string]any, error)
	Update(ctx context.Context, id int64, partial map[string]string) error
}

// Engine applies stored templates to entities and reports divergence.
// Every failure is returned as a value-level result, never as an error.
type Engine struct {
	Templates TemplateSource
	Entities  EntityStore
	Log       *logrus.Logger
}

func NewEngine(templates TemplateSource, entities EntityStore) *Engine {
	return &Engine{Templates: templates, Entities: entities, Log: configs.Log}
}

type snapshot struct {
	entries []settings.Entry
	entity  map[string]any
}

func (e *Engine) logger(templateID, entityID int64) *logrus.Entry {
	return e.Log.WithFields(logrus.Fields{"template_id": templateID, "assignment_id": entityID})
}

// load returns the template entries and the entity, or the failure message.
func (e *Engine) load(ctx context.Context, templateID, entityID int64) (*snapshot, string) {
	log := e.logger(templateID, entityID)

	tpl, err := e.Templates.Get(ctx, templateID)
	if err != nil {
		log.WithError(err).Info("template lookup failed")
		return nil, constants.ErrInvalidTemplateOrAssignment
	}
	entity, err := e.Entities.Get(ctx, entityID)
	if err != nil {
		log.WithError(err).Info("assignment lookup failed")
		return nil, constants.ErrInvalidTemplateOrAssignment
	}

	sm, err := settings.Deserialize(tpl.Settings)
	if err != nil {
		log.WithError(err).Warn("template settings do not parse")
		return nil, constants.ErrInvalidTemplateSettings
	}
	if sm.Len() == 0 {
		log.Warn("template has no settings")
		return nil, constants.ErrInvalidTemplateSettings
	}
	return &snapshot{entries: sm.Entries(), entity: entity}, ""
}

// carried reports whether the entity has a writable attribute of that name.
func carried(entity map[string]any, name string) bool {
	if name == "id" {
		return false
	}
	_, ok := entity[name]
	return ok
}

// Apply overwrites the entity's attributes with the template values in one
// update. Attributes the template does not mention are left alone. A template
// naming an attribute the entity does not carry is rejected before any write.
func (e *Engine) Apply(ctx context.Context, templateID, entityID int64) dto.ActionResult {
	snap, msg := e.load(ctx, templateID, entityID)
	if msg != "" {
		return dto.ActionResult{Error: msg}
	}
	log := e.logger(templateID, entityID)

	partial := make(map[string]string, len(snap.entries))
	for _, en := range snap.entries {
		if !carried(snap.entity, en.SettingName) {
			log.WithField("setting", en.SettingName).Warn("assignment has no such attribute")
			return dto.ActionResult{Error: constants.ErrInvalidTemplateSettings}
		}
		partial[en.SettingName] = en.Value
	}

	if err := e.Entities.Update(ctx, entityID, partial); err != nil {
		log.WithError(err).Error("persisting applied template failed")
		if errors.Is(err, catalogService.ErrValidation) {
			return dto.ActionResult{Error: constants.ErrInvalidTemplateSettings}
		}
		return dto.ActionResult{Error: constants.ErrInvalidTemplateOrAssignment}
	}

	log.WithField("settings", len(partial)).Info("template applied")
	return dto.ActionResult{Success: constants.MsgTemplateApplied}
}

// Check lists every setting whose entity value differs from the template,
// including settings the entity does not carry. Read-only.
func (e *Engine) Check(ctx context.Context, templateID, entityID int64) dto.CheckResult {
	snap, msg := e.load(ctx, templateID, entityID)
	if msg != "" {
		return dto.CheckResult{Errors: []string{}, Error: msg}
	}

	errs := []string{}
	for _, en := range snap.entries {
		if !carried(snap.entity, en.SettingName) || !settings.Equal(en.Value, snap.entity[en.SettingName]) {
			errs = append(errs, constants.MismatchMessage(en.SettingName))
		}
	}
	return dto.CheckResult{Errors: errs}
}

// Amend applies the template and then re-checks; success is only reported
// when the entity has converged.
func (e *Engine) Amend(ctx context.Context, templateID, entityID int64) dto.ActionResult {
	res := e.Apply(ctx, templateID, entityID)
	if !res.OK() {
		return res
	}

	check := e.Check(ctx, templateID, entityID)
	if check.Error != "" {
		return dto.ActionResult{Error: check.Error}
	}
	if len(check.Errors) > 0 {
		e.logger(templateID, entityID).WithField("remaining", check.Errors).Warn("amend left mismatches")
		return dto.ActionResult{Error: constants.ErrAmendIncomplete, Errors: check.Errors}
	}
	return dto.ActionResult{Success: constants.MsgAllErrorsAmended}
}
