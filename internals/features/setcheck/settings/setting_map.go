// Package settings holds the ordered setting list stored inside a template
// and the form-field mirror used to capture it.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCapture           = errors.New("no usable fields submitted")
	ErrMalformedTemplate = errors.New("malformed template settings")
)

// Entry is one captured setting. FieldReference is the html id of the form
// control that produced the value.
type Entry struct {
	SettingName    string `json:"setting_name"`
	Value          string `json:"value"`
	FieldReference string `json:"html_id"`
}

// SettingMap keeps entries in insertion order with unique setting names.
type SettingMap struct {
	entries []Entry
	index   map[string]int
}

func New() *SettingMap {
	return &SettingMap{index: map[string]int{}}
}

// Set appends a new entry or overwrites the value of an existing one in place
// (last write wins, first position kept).
func (m *SettingMap) Set(e Entry) {
	if m.index == nil {
		m.index = map[string]int{}
	}
	if i, ok := m.index[e.SettingName]; ok {
		m.entries[i] = e
		return
	}
	m.index[e.SettingName] = len(m.entries)
	m.entries = append(m.entries, e)
}

func (m *SettingMap) Get(name string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	i, ok := m.index[name]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

func (m *SettingMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns a copy in insertion order.
func (m *SettingMap) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// AsMapping collapses the entries into a plain lookup table.
func (m *SettingMap) AsMapping() map[string]string {
	out := make(map[string]string, m.Len())
	if m == nil {
		return out
	}
	for _, e := range m.entries {
		out[e.SettingName] = e.Value
	}
	return out
}

// FromEntries builds a map from a list, applying last-write-wins.
func FromEntries(list []Entry) *SettingMap {
	m := New()
	for _, e := range list {
		m.Set(e)
	}
	return m
}

// Capture builds a SettingMap from submitted form values. Only fields known to
// the index are kept, in the index's form order; everything else (the
// template's own name/description fields, buttons, ...) is dropped.
func Capture(formValues map[string]string, index FieldIndex) (*SettingMap, error) {
	if len(formValues) == 0 {
		return nil, ErrCapture
	}

	m := New()
	for _, f := range index.Fields() {
		v, ok := formValues[f.FieldReference]
		if !ok {
			continue
		}
		m.Set(Entry{
			SettingName:    f.SettingName,
			Value:          v,
			FieldReference: f.FieldReference,
		})
	}
	if m.Len() == 0 {
		return nil, ErrCapture
	}
	return m, nil
}

// Serialize encodes the entries as a JSON list of
// {setting_name, value, html_id} records.
func (m *SettingMap) Serialize() (string, error) {
	list := m.Entries()
	if list == nil {
		list = []Entry{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type rawEntry struct {
	SettingName *string         `json:"setting_name"`
	Value       json.RawMessage `json:"value"`
	HTMLID      *string         `json:"html_id"`
}

// Deserialize parses text produced by Serialize. Non-string scalar values are
// kept in their text form; objects and arrays are kept as compact JSON.
func Deserialize(text string) (*SettingMap, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a list", ErrMalformedTemplate)
	}

	var raw []rawEntry
	dec := json.NewDecoder(strings.NewReader(trimmed))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedTemplate)
	}

	m := New()
	for i, r := range raw {
		if r.SettingName == nil || strings.TrimSpace(*r.SettingName) == "" {
			return nil, fmt.Errorf("%w: entry %d has no setting_name", ErrMalformedTemplate, i)
		}
		if len(r.Value) == 0 || bytes.Equal(r.Value, []byte("null")) {
			return nil, fmt.Errorf("%w: entry %d (%s) has no value", ErrMalformedTemplate, i, *r.SettingName)
		}
		val, err := rawValueText(r.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedTemplate, i, err)
		}
		ref := ""
		if r.HTMLID != nil {
			ref = *r.HTMLID
		}
		m.Set(Entry{SettingName: *r.SettingName, Value: val, FieldReference: ref})
	}
	return m, nil
}

func rawValueText(raw json.RawMessage) (string, error) {
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't':
		return "1", nil
	case 'f':
		return "0", nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(raw), nil
	}
}
