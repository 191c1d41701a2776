// file: internals/features/setcheck/templates/dto/template_dto.go
package dto

import (
	"errors"
	"strings"

	"setcheck_backend/internals/features/setcheck/settings"
	"setcheck_backend/internals/features/setcheck/templates/model"
	"setcheck_backend/internals/features/setcheck/templates/service"
)

const (
	ContextGlobal   = "global"
	ContextCategory = "category"
	ContextCourse   = "course"
)

var ErrContextID = errors.New("context_id is required for a category or course context")

// =======================
// Request DTO
// =======================

// CreateTemplateDTO is the authoring form submission. Settings holds the
// mirrored form fields keyed by html id (id_duedate) or setting name.
type CreateTemplateDTO struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	ContextLevel string         `json:"context_level" validate:"omitempty,oneof=global category course"`
	ContextID    int64          `json:"context_id"    validate:"gte=0"`
	Settings     map[string]any `json:"settings"`
}

func (p *CreateTemplateDTO) Normalize() {
	p.Name = model.NormalizeName(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.ContextLevel = strings.ToLower(strings.TrimSpace(p.ContextLevel))
	if p.ContextLevel == "" {
		p.ContextLevel = ContextGlobal
	}
}

func (p *CreateTemplateDTO) Scope() (model.Scope, error) {
	return scopeFor(p.ContextLevel, p.ContextID)
}

func (p *CreateTemplateDTO) ToInput(sm *settings.SettingMap, scope model.Scope, creatorID int64) service.CreateInput {
	return service.CreateInput{
		Name:        p.Name,
		Description: p.Description,
		Settings:    sm,
		Scope:       scope,
		CreatorID:   creatorID,
	}
}

type EntryDTO struct {
	SettingName string `json:"setting_name" validate:"required"`
	Value       any    `json:"value"`
	HTMLID      string `json:"html_id"`
}

// UpdateTemplateDTO: absent fields stay untouched. A new scope needs
// context_level, and context_id unless the level is global.
type UpdateTemplateDTO struct {
	Name         *string    `json:"name,omitempty"          validate:"omitempty,max=255"`
	Description  *string    `json:"description,omitempty"`
	ContextLevel *string    `json:"context_level,omitempty" validate:"omitempty,oneof=global category course"`
	ContextID    *int64     `json:"context_id,omitempty"    validate:"omitempty,gte=0"`
	Settings     []EntryDTO `json:"settings,omitempty"      validate:"omitempty,min=1,dive"`
}

func (p *UpdateTemplateDTO) ToFields() (service.UpdateFields, error) {
	var f service.UpdateFields
	if p.Name != nil {
		s := model.NormalizeName(*p.Name)
		f.Name = &s
	}
	if p.Description != nil {
		s := strings.TrimSpace(*p.Description)
		f.Description = &s
	}
	if p.ContextLevel != nil {
		var id int64
		if p.ContextID != nil {
			id = *p.ContextID
		}
		scope, err := scopeFor(strings.ToLower(strings.TrimSpace(*p.ContextLevel)), id)
		if err != nil {
			return f, err
		}
		f.Scope = &scope
	}
	if len(p.Settings) > 0 {
		m := settings.New()
		for _, e := range p.Settings {
			name := strings.TrimSpace(e.SettingName)
			ref := strings.TrimSpace(e.HTMLID)
			if ref == "" {
				ref = settings.FieldReferenceFor(name)
			}
			m.Set(settings.Entry{SettingName: name, Value: settings.Stringify(e.Value), FieldReference: ref})
		}
		f.Settings = m
	}
	return f, nil
}

func scopeFor(level string, id int64) (model.Scope, error) {
	switch level {
	case "", ContextGlobal:
		return model.Scope{}, nil
	case ContextCategory:
		if id <= 0 {
			return model.Scope{}, ErrContextID
		}
		return model.CategoryScope(id), nil
	case ContextCourse:
		if id <= 0 {
			return model.Scope{}, ErrContextID
		}
		return model.CourseScope(id), nil
	default:
		return model.Scope{}, errors.New("unknown context_level " + level)
	}
}

// =======================
// Response DTO
// =======================

type CreateTemplateResponse struct {
	ID       int64  `json:"id,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Error    string `json:"error,omitempty"`
}

type FieldValue struct {
	HTMLID string `json:"html_id"`
	Value  string `json:"value"`
}

// GetTemplateResponse is what the assignment form loads before applying.
type GetTemplateResponse struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Settings    []FieldValue `json:"settings"`
}

type TemplateResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ContextLevel string `json:"context_level"`
	CategoryID   *int64 `json:"categoryid,omitempty"`
	CourseID     *int64 `json:"courseid,omitempty"`
	ContextName  string `json:"context_name,omitempty"`
	TimeCreated  int64  `json:"timecreated"`
	TimeModified int64  `json:"timemodified"`
	CreatorID    int64  `json:"creatorid"`
}

// ViewTemplateResponse carries the full setting table; Message is set when
// the stored settings cannot be read.
type ViewTemplateResponse struct {
	TemplateResponse
	Settings []settings.Entry `json:"settings"`
	Message  string           `json:"message,omitempty"`
}

type TemplateOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// =======================
// Mappers
// =======================

func FromModel(m model.TemplateModel) TemplateResponse {
	return TemplateResponse{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		ContextLevel: string(m.Scope().Kind()),
		CategoryID:   m.CategoryID,
		CourseID:     m.CourseID,
		TimeCreated:  m.TimeCreated,
		TimeModified: m.TimeModified,
		CreatorID:    m.CreatorID,
	}
}

func FromModels(list []model.TemplateModel) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}

func ToOptions(list []model.TemplateModel) []TemplateOption {
	out := make([]TemplateOption, 0, len(list))
	for _, m := range list {
		out = append(out, TemplateOption{ID: m.ID, Name: m.Name})
	}
	return out
}

// ToGetResponse lists stored values by html id. Unreadable settings give an
// empty list rather than an error.
func ToGetResponse(m model.TemplateModel) GetTemplateResponse {
	resp := GetTemplateResponse{Name: m.Name, Description: m.Description, Settings: []FieldValue{}}
	sm, err := settings.Deserialize(m.Settings)
	if err != nil {
		return resp
	}
	for _, e := range sm.Entries() {
		ref := e.FieldReference
		if ref == "" {
			ref = settings.FieldReferenceFor(e.SettingName)
		}
		resp.Settings = append(resp.Settings, FieldValue{HTMLID: ref, Value: e.Value})
	}
	return resp
}

func ToViewResponse(m model.TemplateModel, noSettingsMessage string) ViewTemplateResponse {
	resp := ViewTemplateResponse{TemplateResponse: FromModel(m), Settings: []settings.Entry{}}
	sm, err := settings.Deserialize(m.Settings)
	if err != nil || sm.Len() == 0 {
		resp.Message = noSettingsMessage
		return resp
	}
	resp.Settings = sm.Entries()
	return resp
}
