package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setcheck_backend/internals/constants"
	catalogService "setcheck_backend/internals/features/setcheck/catalog/service"
	"setcheck_backend/internals/features/setcheck/settings"
	templateModel "setcheck_backend/internals/features/setcheck/templates/model"
)

type fakeTemplates map[int64]*templateModel.TemplateModel

func (f fakeTemplates) Get(_ context.Context, id int64) (*templateModel.TemplateModel, error) {
	t, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("template %d: not found", id)
	}
	cp := *t
	return &cp, nil
}

type fakeEntities struct {
	rows    map[int64]map[string]any
	updates int
	// drop lists attributes the store silently refuses to change.
	drop    map[string]bool
	failErr error
}

func (f *fakeEntities) Get(_ context.Context, id int64) (map[string]any, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("assignment %d: %w", id, catalogService.ErrNotFound)
	}
	cp := make(map[string]any, len(row))
	for k, v := range row {
		cp[k] = v
	}
	return cp, nil
}

func (f *fakeEntities) Update(_ context.Context, id int64, partial map[string]string) error {
	if f.failErr != nil {
		return f.failErr
	}
	row, ok := f.rows[id]
	if !ok {
		return catalogService.ErrNotFound
	}
	f.updates++
	for k, v := range partial {
		if f.drop[k] {
			continue
		}
		row[k] = v
	}
	return nil
}

func encoded(t *testing.T, pairs ...string) string {
	t.Helper()
	m := settings.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(settings.Entry{SettingName: pairs[i], Value: pairs[i+1], FieldReference: settings.FieldReferenceFor(pairs[i])})
	}
	s, err := m.Serialize()
	require.NoError(t, err)
	return s
}

func newFixture(t *testing.T) (*Engine, fakeTemplates, *fakeEntities) {
	tpls := fakeTemplates{
		1: {ID: 1, Name: "Due date", Settings: encoded(t, "duedate", "1700000000")},
		2: {ID: 2, Name: "Grade", Settings: encoded(t, "grade", "100")},
		3: {ID: 3, Name: "Broken", Settings: "not valid encoded data"},
		4: {ID: 4, Name: "Empty", Settings: "[]"},
		5: {ID: 5, Name: "Mixed", Settings: encoded(t, "duedate", "1700000000", "grade", "100", "unknown_plugin_setting", "1", "id", "99")},
		6: {ID: 6, Name: "Deadline and grade", Settings: encoded(t, "duedate", "1700000000", "grade", "100")},
		8: {ID: 8, Name: "Renumber", Settings: encoded(t, "grade", "100", "id", "99")},
	}
	ents := &fakeEntities{rows: map[int64]map[string]any{
		7: {"id": int64(7), "duedate": "1600000000", "grade": "50", "name": "Essay"},
	}}
	return NewEngine(tpls, ents), tpls, ents
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites template attributes only", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		res := eng.Apply(ctx, 1, 7)
		assert.Equal(t, constants.MsgTemplateApplied, res.Success)
		assert.Empty(t, res.Error)
		assert.Equal(t, map[string]any{"id": int64(7), "duedate": "1700000000", "grade": "50", "name": "Essay"}, ents.rows[7])
	})

	t.Run("missing template", func(t *testing.T) {
		eng, _, _ := newFixture(t)
		res := eng.Apply(ctx, 999, 7)
		assert.Equal(t, constants.ErrInvalidTemplateOrAssignment, res.Error)
	})

	t.Run("missing assignment", func(t *testing.T) {
		eng, _, _ := newFixture(t)
		res := eng.Apply(ctx, 1, 999)
		assert.Equal(t, constants.ErrInvalidTemplateOrAssignment, res.Error)
	})

	t.Run("malformed settings", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		res := eng.Apply(ctx, 3, 7)
		assert.Equal(t, constants.ErrInvalidTemplateSettings, res.Error)
		assert.Zero(t, ents.updates)
	})

	t.Run("empty settings", func(t *testing.T) {
		eng, _, _ := newFixture(t)
		res := eng.Apply(ctx, 4, 7)
		assert.Equal(t, constants.ErrInvalidTemplateSettings, res.Error)
	})

	t.Run("attribute the assignment lacks rejects the template", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		res := eng.Apply(ctx, 5, 7)
		assert.Equal(t, constants.ErrInvalidTemplateSettings, res.Error)
		assert.Zero(t, ents.updates)
		assert.Equal(t, "50", ents.rows[7]["grade"])
		assert.NotContains(t, ents.rows[7], "unknown_plugin_setting")
	})

	t.Run("id is never written", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		res := eng.Apply(ctx, 8, 7)
		assert.Equal(t, constants.ErrInvalidTemplateSettings, res.Error)
		assert.Zero(t, ents.updates)
		assert.Equal(t, int64(7), ents.rows[7]["id"])
	})

	t.Run("rejected value", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		ents.failErr = fmt.Errorf("%w: grade", catalogService.ErrValidation)
		res := eng.Apply(ctx, 2, 7)
		assert.Equal(t, constants.ErrInvalidTemplateSettings, res.Error)
	})

	t.Run("persistence failure", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		ents.failErr = fmt.Errorf("connection reset")
		res := eng.Apply(ctx, 2, 7)
		assert.Equal(t, constants.ErrInvalidTemplateOrAssignment, res.Error)
	})

	t.Run("idempotent", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		require.True(t, eng.Apply(ctx, 6, 7).OK())
		first := fmt.Sprint(ents.rows[7])
		require.True(t, eng.Apply(ctx, 6, 7).OK())
		assert.Equal(t, first, fmt.Sprint(ents.rows[7]))
	})
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("compliant", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		ents.rows[7]["duedate"] = "1700000000"
		res := eng.Check(ctx, 1, 7)
		assert.Equal(t, []string{}, res.Errors)
		assert.Empty(t, res.Error)
	})

	t.Run("mismatch", func(t *testing.T) {
		eng, _, _ := newFixture(t)
		res := eng.Check(ctx, 2, 7)
		assert.Equal(t, []string{"Mismatch in setting 'grade'"}, res.Errors)
	})

	t.Run("typed values compare as text", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		ents.rows[7]["grade"] = int64(100)
		ents.rows[7]["duedate"] = float64(1700000000)
		assert.Empty(t, eng.Check(ctx, 6, 7).Errors)
	})

	t.Run("attributes the assignment lacks are mismatches", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		ents.rows[7]["duedate"] = "1700000000"
		ents.rows[7]["grade"] = "100"
		res := eng.Check(ctx, 5, 7)
		assert.Equal(t, []string{
			"Mismatch in setting 'unknown_plugin_setting'",
			"Mismatch in setting 'id'",
		}, res.Errors)
	})

	t.Run("read only", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		eng.Check(ctx, 6, 7)
		assert.Zero(t, ents.updates)
		assert.Equal(t, "50", ents.rows[7]["grade"])
	})

	t.Run("lookup failures", func(t *testing.T) {
		eng, _, _ := newFixture(t)
		assert.Equal(t, constants.ErrInvalidTemplateOrAssignment, eng.Check(ctx, 999, 7).Error)
		assert.Equal(t, constants.ErrInvalidTemplateSettings, eng.Check(ctx, 3, 7).Error)
	})

	t.Run("check after apply is clean", func(t *testing.T) {
		for _, id := range []int64{1, 2, 6} {
			eng, _, _ := newFixture(t)
			require.True(t, eng.Apply(ctx, id, 7).OK())
			assert.Empty(t, eng.Check(ctx, id, 7).Errors, "template %d", id)
		}
	})
}

func TestAmend(t *testing.T) {
	ctx := context.Background()

	t.Run("converges", func(t *testing.T) {
		eng, _, _ := newFixture(t)
		res := eng.Amend(ctx, 6, 7)
		assert.Equal(t, constants.MsgAllErrorsAmended, res.Success)
	})

	t.Run("passes apply errors through", func(t *testing.T) {
		eng, _, _ := newFixture(t)
		assert.Equal(t, constants.ErrInvalidTemplateOrAssignment, eng.Amend(ctx, 999, 7).Error)
		assert.Equal(t, constants.ErrInvalidTemplateSettings, eng.Amend(ctx, 3, 7).Error)
		assert.Equal(t, constants.ErrInvalidTemplateSettings, eng.Amend(ctx, 5, 7).Error)
	})

	t.Run("reports settings the store refused", func(t *testing.T) {
		eng, _, ents := newFixture(t)
		ents.drop = map[string]bool{"grade": true}
		res := eng.Amend(ctx, 6, 7)
		assert.Equal(t, constants.ErrAmendIncomplete, res.Error)
		assert.Equal(t, []string{"Mismatch in setting 'grade'"}, res.Errors)
	})
}
