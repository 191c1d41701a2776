// file: internals/features/setcheck/templates/service/scope_resolver.go
package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"setcheck_backend/internals/configs"
	"setcheck_backend/internals/features/setcheck/templates/model"
)

// TreeReader is the category/course tree the resolver walks.
type TreeReader interface {
	Ancestors(ctx context.Context, categoryID int64) ([]int64, error)
	CourseCategory(ctx context.Context, courseID int64) (int64, error)
	Descendants(ctx context.Context, categoryID int64) ([]int64, error)
	CoursesIn(ctx context.Context, categoryIDs []int64) ([]int64, error)
}

// ScopeResolver computes which templates a course or category may use.
// Category templates inherit downward; course templates stay on their course;
// global templates are visible everywhere.
type ScopeResolver struct {
	Store *TemplateStore
	Tree  TreeReader
	Log   *logrus.Logger
}

func NewScopeResolver(store *TemplateStore, tree TreeReader) *ScopeResolver {
	return &ScopeResolver{Store: store, Tree: tree, Log: configs.Log}
}

// ForCourse never fails: lookup problems are logged and yield no templates.
func (r *ScopeResolver) ForCourse(ctx context.Context, courseID int64) []model.TemplateModel {
	out, err := r.ResolveCourse(ctx, courseID)
	if err != nil {
		r.Log.WithFields(logrus.Fields{"course_id": courseID, "error": err.Error()}).
			Warn("template scope resolution failed, showing no templates")
		return []model.TemplateModel{}
	}
	return out
}

func (r *ScopeResolver) ForCategory(ctx context.Context, categoryID int64) []model.TemplateModel {
	out, err := r.ResolveCategory(ctx, categoryID)
	if err != nil {
		r.Log.WithFields(logrus.Fields{"category_id": categoryID, "error": err.Error()}).
			Warn("template scope resolution failed, showing no templates")
		return []model.TemplateModel{}
	}
	return out
}

func (r *ScopeResolver) ResolveCourse(ctx context.Context, courseID int64) ([]model.TemplateModel, error) {
	categoryID, err := r.Tree.CourseCategory(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScopeResolution, err)
	}
	chain, err := r.Tree.Ancestors(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScopeResolution, err)
	}

	inherited, err := r.Store.List(ctx, ScopeFilter{CategoryIDs: chain, IncludeGlobal: true})
	if err != nil {
		return nil, err
	}
	own, err := r.Store.List(ctx, ScopeFilter{CourseIDs: []int64{courseID}})
	if err != nil {
		return nil, err
	}
	return union(inherited, own), nil
}

func (r *ScopeResolver) ResolveCategory(ctx context.Context, categoryID int64) ([]model.TemplateModel, error) {
	chain, err := r.Tree.Ancestors(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScopeResolution, err)
	}
	return r.Store.List(ctx, ScopeFilter{CategoryIDs: chain, IncludeGlobal: true})
}

// ManagedUnder lists the templates an administrator manages from a category:
// those scoped to the category subtree or to courses inside it.
func (r *ScopeResolver) ManagedUnder(ctx context.Context, categoryID int64) ([]model.TemplateModel, error) {
	subtree, err := r.Tree.Descendants(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScopeResolution, err)
	}
	courses, err := r.Tree.CoursesIn(ctx, subtree)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScopeResolution, err)
	}
	return r.Store.List(ctx, ScopeFilter{CategoryIDs: subtree, CourseIDs: courses})
}

// union merges by id; on collision the course-scoped entry wins.
func union(categoryScoped, courseScoped []model.TemplateModel) []model.TemplateModel {
	byID := make(map[int64]model.TemplateModel, len(categoryScoped)+len(courseScoped))
	for _, t := range categoryScoped {
		byID[t.ID] = t
	}
	for _, t := range courseScoped {
		byID[t.ID] = t
	}

	out := make([]model.TemplateModel, 0, len(byID))
	for _, t := range byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
