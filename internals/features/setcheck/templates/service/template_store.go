// file: internals/features/setcheck/templates/service/template_store.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"setcheck_backend/internals/features/setcheck/settings"
	"setcheck_backend/internals/features/setcheck/templates/model"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("template not found")
	ErrScopeResolution = errors.New("scope resolution failed")
)

type CreateInput struct {
	Name        string
	Description string
	Settings    *settings.SettingMap
	Scope       model.Scope
	CreatorID   int64
}

// UpdateFields: nil pointers leave the column untouched.
type UpdateFields struct {
	Name        *string
	Description *string
	Settings    *settings.SettingMap
	Scope       *model.Scope
}

// ScopeFilter narrows List. The zero value lists every template.
type ScopeFilter struct {
	CategoryIDs   []int64
	CourseIDs     []int64
	IncludeGlobal bool
}

func (f ScopeFilter) empty() bool {
	return len(f.CategoryIDs) == 0 && len(f.CourseIDs) == 0 && !f.IncludeGlobal
}

// TemplateStore is CRUD over the templates table.
type TemplateStore struct {
	DB *gorm.DB
}

func NewTemplateStore(db *gorm.DB) *TemplateStore {
	return &TemplateStore{DB: db}
}

func validate(name string, scope model.Scope) error {
	if model.NormalizeName(name) == "" {
		return fmt.Errorf("%w: %v", ErrValidation, model.ErrNameRequired)
	}
	if err := scope.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (s *TemplateStore) Create(ctx context.Context, in CreateInput) (*model.TemplateModel, error) {
	if err := validate(in.Name, in.Scope); err != nil {
		return nil, err
	}
	if in.Settings == nil {
		return nil, fmt.Errorf("%w: settings are required", ErrValidation)
	}
	encoded, err := in.Settings.Serialize()
	if err != nil {
		return nil, err
	}

	ent := model.TemplateModel{
		Name:        in.Name,
		Description: in.Description,
		Settings:    encoded,
		CreatorID:   in.CreatorID,
	}
	ent.SetScope(in.Scope)

	if err := s.DB.WithContext(ctx).Create(&ent).Error; err != nil {
		return nil, err
	}
	return &ent, nil
}

func (s *TemplateStore) Get(ctx context.Context, id int64) (*model.TemplateModel, error) {
	var ent model.TemplateModel
	if err := s.DB.WithContext(ctx).First(&ent, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &ent, nil
}

func (s *TemplateStore) Update(ctx context.Context, id int64, f UpdateFields) (*model.TemplateModel, error) {
	ent, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if f.Name != nil {
		ent.Name = *f.Name
	}
	if f.Description != nil {
		ent.Description = *f.Description
	}
	if f.Scope != nil {
		ent.SetScope(*f.Scope)
	}
	if err := validate(ent.Name, ent.Scope()); err != nil {
		return nil, err
	}
	if f.Settings != nil {
		encoded, err := f.Settings.Serialize()
		if err != nil {
			return nil, err
		}
		ent.Settings = encoded
	}

	if err := s.DB.WithContext(ctx).Save(ent).Error; err != nil {
		return nil, err
	}
	return ent, nil
}

// Delete is unconditional: applications are not tracked, so nothing references a template.
func (s *TemplateStore) Delete(ctx context.Context, id int64) error {
	res := s.DB.WithContext(ctx).Delete(&model.TemplateModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// List returns matching templates ordered by name ascending.
func (s *TemplateStore) List(ctx context.Context, f ScopeFilter) ([]model.TemplateModel, error) {
	q := s.DB.WithContext(ctx).Model(&model.TemplateModel{})

	if !f.empty() {
		var (
			conds []string
			args  []any
		)
		if len(f.CategoryIDs) > 0 {
			conds = append(conds, "categoryid IN ?")
			args = append(args, f.CategoryIDs)
		}
		if len(f.CourseIDs) > 0 {
			conds = append(conds, "courseid IN ?")
			args = append(args, f.CourseIDs)
		}
		if f.IncludeGlobal {
			conds = append(conds, "(categoryid IS NULL AND courseid IS NULL)")
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	var out []model.TemplateModel
	if err := q.Order("name ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
