package settings

import (
	"context"
	"strings"
)

const fieldRefPrefix = "id_"

// Field is one control of the mirrored settings form.
type Field struct {
	FieldReference string `json:"html_id"`
	SettingName    string `json:"setting_name"`
	CurrentValue   string `json:"current_value"`
}

// FieldMirror enumerates the controls of the host settings form.
type FieldMirror interface {
	ListFields(ctx context.Context) ([]Field, error)
}

// FieldReferenceFor returns the html id the form uses for a setting.
func FieldReferenceFor(settingName string) string {
	return fieldRefPrefix + settingName
}

// FieldIndex is an ordered field_reference -> setting_name lookup.
type FieldIndex struct {
	fields []Field
	byRef  map[string]int
	byName map[string]int
}

func NewFieldIndex(fields []Field) FieldIndex {
	idx := FieldIndex{
		byRef:  make(map[string]int, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.FieldReference == "" || f.SettingName == "" {
			continue
		}
		if _, dup := idx.byRef[f.FieldReference]; dup {
			continue
		}
		idx.byRef[f.FieldReference] = len(idx.fields)
		idx.byName[f.SettingName] = len(idx.fields)
		idx.fields = append(idx.fields, f)
	}
	return idx
}

// IndexFromMapping builds an index from a plain field_reference ->
// setting_name mapping. Go maps are unordered, so the caller supplies order.
func IndexFromMapping(order []string, fieldToSetting map[string]string) FieldIndex {
	fields := make([]Field, 0, len(order))
	for _, ref := range order {
		if name, ok := fieldToSetting[ref]; ok {
			fields = append(fields, Field{FieldReference: ref, SettingName: name})
		}
	}
	return NewFieldIndex(fields)
}

func (x FieldIndex) Fields() []Field { return x.fields }

func (x FieldIndex) Len() int { return len(x.fields) }

// SettingFor maps a field reference to its setting name.
func (x FieldIndex) SettingFor(ref string) (string, bool) {
	i, ok := x.byRef[ref]
	if !ok {
		return "", false
	}
	return x.fields[i].SettingName, true
}

// Resolve accepts either a field reference ("id_duedate") or a bare setting
// name ("duedate") and returns the field reference.
func (x FieldIndex) Resolve(key string) (string, bool) {
	key = strings.TrimSpace(key)
	if _, ok := x.byRef[key]; ok {
		return key, true
	}
	if i, ok := x.byName[key]; ok {
		return x.fields[i].FieldReference, true
	}
	return "", false
}

// NormalizeFormValues rekeys submitted values by field reference; unknown keys
// are passed through unchanged so Capture can drop them. When both forms of a
// key are submitted the field reference wins.
func (x FieldIndex) NormalizeFormValues(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if _, isRef := x.byRef[k]; isRef {
			continue
		}
		ref, ok := x.Resolve(k)
		if !ok {
			ref = k
		}
		out[ref] = Stringify(v)
	}
	for k, v := range in {
		if _, isRef := x.byRef[k]; isRef {
			out[k] = Stringify(v)
		}
	}
	return out
}
