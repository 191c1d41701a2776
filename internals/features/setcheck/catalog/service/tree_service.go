// file: internals/features/setcheck/catalog/service/tree_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"setcheck_backend/internals/features/setcheck/catalog/model"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrCycle      = errors.New("category tree contains a cycle")
	ErrValidation = errors.New("invalid value")
)

// TreeProvider answers category/course tree questions from the
// course_categories and courses tables.
type TreeProvider struct {
	DB *gorm.DB
}

func NewTreeProvider(db *gorm.DB) *TreeProvider {
	return &TreeProvider{DB: db}
}

// Ancestors returns the chain root-first, ending with categoryID itself.
func (p *TreeProvider) Ancestors(ctx context.Context, categoryID int64) ([]int64, error) {
	var chain []int64
	seen := map[int64]struct{}{}

	cur := categoryID
	for cur != 0 {
		if _, ok := seen[cur]; ok {
			return nil, fmt.Errorf("%w: at category %d", ErrCycle, cur)
		}
		seen[cur] = struct{}{}

		var cat model.CategoryModel
		if err := p.DB.WithContext(ctx).Select("id", "parent").First(&cat, "id = ?", cur).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: category %d", ErrNotFound, cur)
			}
			return nil, err
		}
		chain = append(chain, cat.ID)
		cur = cat.Parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// CourseCategory returns the category a course lives in.
func (p *TreeProvider) CourseCategory(ctx context.Context, courseID int64) (int64, error) {
	var course model.CourseModel
	if err := p.DB.WithContext(ctx).Select("id", "category").First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
		}
		return 0, err
	}
	return course.Category, nil
}

// Descendants returns categoryID and every category below it, breadth-first.
func (p *TreeProvider) Descendants(ctx context.Context, categoryID int64) ([]int64, error) {
	var exists int64
	if err := p.DB.WithContext(ctx).Model(&model.CategoryModel{}).Where("id = ?", categoryID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
	}

	out := []int64{categoryID}
	seen := map[int64]struct{}{categoryID: {}}
	frontier := []int64{categoryID}

	for len(frontier) > 0 {
		var children []int64
		if err := p.DB.WithContext(ctx).Model(&model.CategoryModel{}).
			Where("parent IN ?", frontier).
			Order("sortorder ASC, id ASC").
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range children {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
			frontier = append(frontier, id)
		}
	}
	return out, nil
}

// CoursesIn lists the ids of courses placed directly in any of the categories.
func (p *TreeProvider) CoursesIn(ctx context.Context, categoryIDs []int64) ([]int64, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := p.DB.WithContext(ctx).Model(&model.CourseModel{}).
		Where("category IN ?", categoryIDs).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// CategoryNames / CourseNames are used to label manage-page rows.
func (p *TreeProvider) CategoryNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := map[int64]string{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.CategoryModel
	if err := p.DB.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r.Name
	}
	return out, nil
}

func (p *TreeProvider) CourseNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := map[int64]string{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.CourseModel
	if err := p.DB.WithContext(ctx).Select("id", "fullname").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r.FullName
	}
	return out, nil
}
