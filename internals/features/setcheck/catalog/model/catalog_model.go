// file: internals/features/setcheck/catalog/model/catalog_model.go
package model

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// CategoryModel is one node of the course category tree. Parent 0 = root.
type CategoryModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name      string `gorm:"type:varchar(255);not null;column:name" json:"name"`
	Parent    int64  `gorm:"not null;default:0;index;column:parent" json:"parent"`
	SortOrder int    `gorm:"not null;default:0;column:sortorder" json:"sortorder"`
	Visible   bool   `gorm:"not null;default:true;column:visible" json:"visible"`
}

func (CategoryModel) TableName() string { return "course_categories" }

func (m *CategoryModel) BeforeSave(tx *gorm.DB) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return errors.New("category name is required")
	}
	if m.ID != 0 && m.Parent == m.ID {
		return errors.New("category cannot be its own parent")
	}
	return nil
}

type CourseModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Category  int64  `gorm:"not null;index;column:category" json:"category"`
	FullName  string `gorm:"type:varchar(254);not null;column:fullname" json:"fullname"`
	ShortName string `gorm:"type:varchar(255);not null;column:shortname" json:"shortname"`
	Visible   bool   `gorm:"not null;default:true;column:visible" json:"visible"`
}

func (CourseModel) TableName() string { return "courses" }
