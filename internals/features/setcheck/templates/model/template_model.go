// file: internals/features/setcheck/templates/model/template_model.go
package model

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	ErrNameRequired   = errors.New("template name is required")
	ErrAmbiguousScope = errors.New("template scope must be a category or a course, not both")
)

type ScopeKind string

const (
	ScopeGlobal   ScopeKind = "global"
	ScopeCategory ScopeKind = "category"
	ScopeCourse   ScopeKind = "course"
)

// Scope: exactly one of CategoryID / CourseID, or neither for global.
type Scope struct {
	CategoryID *int64
	CourseID   *int64
}

func CategoryScope(id int64) Scope { return Scope{CategoryID: &id} }
func CourseScope(id int64) Scope   { return Scope{CourseID: &id} }

func (s Scope) Validate() error {
	if s.CategoryID != nil && s.CourseID != nil {
		return ErrAmbiguousScope
	}
	return nil
}

func (s Scope) Kind() ScopeKind {
	switch {
	case s.CategoryID != nil:
		return ScopeCategory
	case s.CourseID != nil:
		return ScopeCourse
	default:
		return ScopeGlobal
	}
}

type TemplateModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string `gorm:"type:varchar(255);not null;index;column:name" json:"name"`
	Description string `gorm:"type:text;not null;default:'';column:description" json:"description"`
	// Encoded setting list; kept as text so an unparsable value survives
	// round trips and is reported at apply/check time.
	Settings string `gorm:"type:text;not null;column:settings" json:"settings"`

	CategoryID *int64 `gorm:"index;column:categoryid" json:"categoryid,omitempty"`
	CourseID   *int64 `gorm:"index;column:courseid" json:"courseid,omitempty"`

	TimeCreated  int64 `gorm:"autoCreateTime;column:timecreated" json:"timecreated"`
	TimeModified int64 `gorm:"autoUpdateTime;column:timemodified" json:"timemodified"`
	CreatorID    int64 `gorm:"not null;default:0;column:creatorid" json:"creatorid"`
}

func (TemplateModel) TableName() string { return "templates" }

func (m *TemplateModel) Scope() Scope {
	return Scope{CategoryID: m.CategoryID, CourseID: m.CourseID}
}

func (m *TemplateModel) SetScope(s Scope) {
	m.CategoryID = s.CategoryID
	m.CourseID = s.CourseID
}

// NormalizeName trims and NFC-normalizes so visually identical names sort together.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ============ Hooks: validation & light normalization ============
func (m *TemplateModel) BeforeSave(tx *gorm.DB) error {
	m.Name = NormalizeName(m.Name)
	if m.Name == "" {
		return ErrNameRequired
	}
	if err := m.Scope().Validate(); err != nil {
		return err
	}
	m.Description = strings.TrimSpace(m.Description)
	return nil
}
