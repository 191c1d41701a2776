// file: internals/features/setcheck/catalog/service/form_mirror.go
package service

import (
	"context"

	"setcheck_backend/internals/features/setcheck/settings"
)

// Elements the template authoring form never captures.
var excludedFormElements = map[string]struct{}{
	"id":                   {},
	"course":               {},
	"name":                 {},
	"intro":                {},
	"timemodified":         {},
	"template_name":        {},
	"template_description": {},
}

// AssignmentFormMirror lists the assignment settings form as fields. When
// ReferenceID is set, current values come from that assignment.
type AssignmentFormMirror struct {
	Store       *AssignmentStore
	ReferenceID int64
}

func NewAssignmentFormMirror(store *AssignmentStore, referenceID int64) *AssignmentFormMirror {
	return &AssignmentFormMirror{Store: store, ReferenceID: referenceID}
}

func (m *AssignmentFormMirror) ListFields(ctx context.Context) ([]settings.Field, error) {
	_, order, err := m.Store.Columns(ctx)
	if err != nil {
		return nil, err
	}

	var current map[string]any
	if m.ReferenceID > 0 {
		if current, err = m.Store.Get(ctx, m.ReferenceID); err != nil {
			return nil, err
		}
	}

	fields := make([]settings.Field, 0, len(order))
	for _, name := range order {
		if _, skip := excludedFormElements[name]; skip {
			continue
		}
		f := settings.Field{
			FieldReference: settings.FieldReferenceFor(name),
			SettingName:    name,
		}
		if current != nil {
			f.CurrentValue = settings.Stringify(current[name])
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Index is a convenience for callers that only need the lookup.
func (m *AssignmentFormMirror) Index(ctx context.Context) (settings.FieldIndex, error) {
	fields, err := m.ListFields(ctx)
	if err != nil {
		return settings.FieldIndex{}, err
	}
	return settings.NewFieldIndex(fields), nil
}
