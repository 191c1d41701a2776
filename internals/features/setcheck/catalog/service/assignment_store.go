// file: internals/features/setcheck/catalog/service/assignment_store.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"setcheck_backend/internals/configs"
	"setcheck_backend/internals/features/setcheck/catalog/model"
)

// AssignmentStore exposes assignments as flat attribute maps.
type AssignmentStore struct {
	DB *gorm.DB

	mu      sync.Mutex
	columns map[string]string // column name -> upper-cased database type
	order   []string
}

func NewAssignmentStore(db *gorm.DB) *AssignmentStore {
	return &AssignmentStore{DB: db}
}

func (s *AssignmentStore) table() string { return model.AssignmentModel{}.TableName() }

// Get returns every column of the assignment keyed by column name.
func (s *AssignmentStore) Get(ctx context.Context, id int64) (map[string]any, error) {
	row := map[string]any{}
	res := s.DB.WithContext(ctx).Table(s.table()).Where("id = ?", id).Take(&row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: assignment %d", ErrNotFound, id)
		}
		return nil, res.Error
	}
	if len(row) == 0 {
		return nil, fmt.Errorf("%w: assignment %d", ErrNotFound, id)
	}
	return row, nil
}

// Update writes partial in a single UPDATE. Keys that are not columns are
// ignored and id is never written.
func (s *AssignmentStore) Update(ctx context.Context, id int64, partial map[string]string) error {
	cols, _, err := s.Columns(ctx)
	if err != nil {
		return err
	}

	values := make(map[string]any, len(partial)+1)
	for name, raw := range partial {
		dbType, ok := cols[name]
		if !ok || name == "id" {
			continue
		}
		v, err := coerce(raw, dbType)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrValidation, name, raw, err)
		}
		values[name] = v
	}
	if len(values) == 0 {
		return nil
	}
	if _, set := partial["timemodified"]; !set {
		if _, ok := cols["timemodified"]; ok {
			values["timemodified"] = time.Now().Unix()
		}
	}

	res := s.DB.WithContext(ctx).Table(s.table()).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: assignment %d", ErrNotFound, id)
	}
	return nil
}

// Columns returns the column types (upper-cased) and the column order as the
// database reports it. The result is cached after the first call.
func (s *AssignmentStore) Columns(ctx context.Context) (map[string]string, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.columns != nil {
		return s.columns, s.order, nil
	}

	types, err := s.DB.WithContext(ctx).Migrator().ColumnTypes(&model.AssignmentModel{})
	if err != nil {
		return nil, nil, err
	}
	cols := make(map[string]string, len(types))
	order := make([]string, 0, len(types))
	for _, ct := range types {
		cols[ct.Name()] = strings.ToUpper(ct.DatabaseTypeName())
		order = append(order, ct.Name())
	}
	configs.Log.WithField("columns", len(cols)).Debug("assignment columns loaded")

	s.columns = cols
	s.order = order
	return cols, order, nil
}

func coerce(raw, dbType string) (any, error) {
	v := strings.TrimSpace(raw)
	switch {
	case strings.Contains(dbType, "INT"):
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f != float64(int64(f)) {
			return nil, errors.New("not an integer")
		}
		return int64(f), nil
	case strings.Contains(dbType, "BOOL"):
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "on":
			return true, nil
		case "0", "false", "f", "no", "off":
			return false, nil
		}
		return nil, errors.New("not a boolean")
	case strings.Contains(dbType, "REAL"),
		strings.Contains(dbType, "FLOA"),
		strings.Contains(dbType, "DOUB"),
		strings.Contains(dbType, "NUMERIC"),
		strings.Contains(dbType, "DECIMAL"):
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.New("not a number")
		}
		return f, nil
	default:
		return raw, nil
	}
}
