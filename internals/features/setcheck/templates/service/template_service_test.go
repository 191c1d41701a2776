package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"setcheck_backend/internals/databases/dbtest"
	catalogModel "setcheck_backend/internals/features/setcheck/catalog/model"
	catalogService "setcheck_backend/internals/features/setcheck/catalog/service"
	"setcheck_backend/internals/features/setcheck/settings"
	"setcheck_backend/internals/features/setcheck/templates/model"
)

func sampleSettings(pairs ...string) *settings.SettingMap {
	m := settings.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(settings.Entry{SettingName: pairs[i], Value: pairs[i+1], FieldReference: settings.FieldReferenceFor(pairs[i])})
	}
	return m
}

func TestTemplateStoreCRUD(t *testing.T) {
	db := dbtest.Open(t)
	store := NewTemplateStore(db)
	ctx := context.Background()

	created, err := store.Create(ctx, CreateInput{
		Name:        "  Essay defaults ",
		Description: "<p>Standard essay</p>",
		Settings:    sampleSettings("duedate", "1700000000", "grade", "100"),
		Scope:       model.CategoryScope(2),
		CreatorID:   5,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Essay defaults", created.Name)
	assert.NotZero(t, created.TimeCreated)
	assert.Equal(t, model.ScopeCategory, created.Scope().Kind())

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	m, err := settings.Deserialize(got.Settings)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"duedate": "1700000000", "grade": "100"}, m.AsMapping())

	newName := "Essay v2"
	course := model.CourseScope(40)
	updated, err := store.Update(ctx, created.ID, UpdateFields{Name: &newName, Scope: &course})
	require.NoError(t, err)
	assert.Equal(t, "Essay v2", updated.Name)
	assert.Nil(t, updated.CategoryID)
	require.NotNil(t, updated.CourseID)
	assert.Equal(t, int64(40), *updated.CourseID)

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, created.ID), ErrNotFound)
}

func TestTemplateStoreValidation(t *testing.T) {
	db := dbtest.Open(t)
	store := NewTemplateStore(db)
	ctx := context.Background()

	_, err := store.Create(ctx, CreateInput{Name: "   ", Settings: sampleSettings("grade", "1")})
	assert.ErrorIs(t, err, ErrValidation)

	cat, course := int64(1), int64(2)
	_, err = store.Create(ctx, CreateInput{
		Name:     "both",
		Settings: sampleSettings("grade", "1"),
		Scope:    model.Scope{CategoryID: &cat, CourseID: &course},
	})
	assert.ErrorIs(t, err, ErrValidation)

	created, err := store.Create(ctx, CreateInput{Name: "ok", Settings: sampleSettings("grade", "1")})
	require.NoError(t, err)
	empty := ""
	_, err = store.Update(ctx, created.ID, UpdateFields{Name: &empty})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTemplateStoreListOrdersByName(t *testing.T) {
	db := dbtest.Open(t)
	store := NewTemplateStore(db)
	ctx := context.Background()

	for _, in := range []CreateInput{
		{Name: "Zeta", Scope: model.CategoryScope(1)},
		{Name: "Alpha", Scope: model.CourseScope(9)},
		{Name: "Mid"},
	} {
		in.Settings = sampleSettings("grade", "1")
		_, err := store.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := store.List(ctx, ScopeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, names(all))

	onlyCourse, err := store.List(ctx, ScopeFilter{CourseIDs: []int64{9}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, names(onlyCourse))

	catOrGlobal, err := store.List(ctx, ScopeFilter{CategoryIDs: []int64{1}, IncludeGlobal: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mid", "Zeta"}, names(catOrGlobal))
}

func names(list []model.TemplateModel) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.Name)
	}
	return out
}

// Tree:
//
//	1 Faculty
//	├── 2 Science
//	│   └── 4 Physics   (course 40)
//	└── 3 Arts          (course 30)
func seedResolverFixture(t *testing.T, db *gorm.DB, store *TemplateStore) {
	t.Helper()
	require.NoError(t, db.Create(&[]catalogModel.CategoryModel{
		{ID: 1, Name: "Faculty"},
		{ID: 2, Name: "Science", Parent: 1},
		{ID: 3, Name: "Arts", Parent: 1},
		{ID: 4, Name: "Physics", Parent: 2},
	}).Error)
	require.NoError(t, db.Create(&[]catalogModel.CourseModel{
		{ID: 30, Category: 3, FullName: "Drawing", ShortName: "DRW"},
		{ID: 40, Category: 4, FullName: "Mechanics", ShortName: "MEC"},
	}).Error)

	ctx := context.Background()
	for _, in := range []CreateInput{
		{Name: "Faculty wide", Scope: model.CategoryScope(1)},
		{Name: "Science only", Scope: model.CategoryScope(2)},
		{Name: "Arts only", Scope: model.CategoryScope(3)},
		{Name: "Mechanics own", Scope: model.CourseScope(40)},
		{Name: "Drawing own", Scope: model.CourseScope(30)},
		{Name: "Site wide"},
	} {
		in.Settings = sampleSettings("grade", "100")
		_, err := store.Create(ctx, in)
		require.NoError(t, err)
	}
}

func TestScopeResolver(t *testing.T) {
	db := dbtest.Open(t)
	store := NewTemplateStore(db)
	seedResolverFixture(t, db, store)
	r := NewScopeResolver(store, catalogService.NewTreeProvider(db))
	ctx := context.Background()

	t.Run("course inherits ancestor categories and keeps its own", func(t *testing.T) {
		got := r.ForCourse(ctx, 40)
		assert.Equal(t, []string{"Faculty wide", "Mechanics own", "Science only", "Site wide"}, names(got))
	})

	t.Run("course templates do not leak to other courses", func(t *testing.T) {
		got := r.ForCourse(ctx, 30)
		assert.Equal(t, []string{"Arts only", "Drawing own", "Faculty wide", "Site wide"}, names(got))
	})

	t.Run("descendant category inherits", func(t *testing.T) {
		got := r.ForCategory(ctx, 4)
		assert.Equal(t, []string{"Faculty wide", "Science only", "Site wide"}, names(got))
	})

	t.Run("root category includes itself", func(t *testing.T) {
		got := r.ForCategory(ctx, 1)
		assert.Equal(t, []string{"Faculty wide", "Site wide"}, names(got))
	})

	t.Run("missing course degrades to empty", func(t *testing.T) {
		assert.Empty(t, r.ForCourse(ctx, 999))
		_, err := r.ResolveCourse(ctx, 999)
		assert.ErrorIs(t, err, ErrScopeResolution)
	})

	t.Run("managed under category covers subtree and its courses", func(t *testing.T) {
		got, err := r.ManagedUnder(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Mechanics own", "Science only"}, names(got))
	})
}

type brokenTree struct{}

func (brokenTree) Ancestors(context.Context, int64) ([]int64, error) {
	return nil, errors.New("category 3 missing")
}
func (brokenTree) CourseCategory(context.Context, int64) (int64, error) { return 3, nil }
func (brokenTree) Descendants(context.Context, int64) ([]int64, error) {
	return nil, errors.New("category 3 missing")
}
func (brokenTree) CoursesIn(context.Context, []int64) ([]int64, error) { return nil, nil }

func TestScopeResolverBrokenTree(t *testing.T) {
	db := dbtest.Open(t)
	r := NewScopeResolver(NewTemplateStore(db), brokenTree{})

	assert.Empty(t, r.ForCourse(context.Background(), 1))
	assert.Empty(t, r.ForCategory(context.Background(), 3))
	_, err := r.ManagedUnder(context.Background(), 3)
	assert.ErrorIs(t, err, ErrScopeResolution)
}
