package setcheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"setcheck_backend/internals/configs"
	catalogModel "setcheck_backend/internals/features/setcheck/catalog/model"
	"setcheck_backend/internals/features/setcheck/settings"
	templateModel "setcheck_backend/internals/features/setcheck/templates/model"
)

func readJSON[T any](filePath string) ([]T, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	var data []T
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}
	return data, nil
}

// insertMissing creates each row unless a row with the same id exists.
func insertMissing[T any](db *gorm.DB, rows []T, idOf func(T) int64) (int, error) {
	inserted := 0
	for _, row := range rows {
		id := idOf(row)
		var existing T
		err := db.Select("id").First(&existing, "id = ?", id).Error
		if err == nil {
			configs.Log.WithField("id", id).Debug("seed row exists, skipped")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return inserted, err
		}

		r := row
		if err := db.Create(&r).Error; err != nil {
			return inserted, fmt.Errorf("insert id %d: %w", id, err)
		}
		inserted++
	}
	return inserted, nil
}

func SeedCategoriesFromJSON(db *gorm.DB, filePath string) (int, error) {
	data, err := readJSON[catalogModel.CategoryModel](filePath)
	if err != nil {
		return 0, err
	}
	return insertMissing(db, data, func(m catalogModel.CategoryModel) int64 { return m.ID })
}

func SeedCoursesFromJSON(db *gorm.DB, filePath string) (int, error) {
	data, err := readJSON[catalogModel.CourseModel](filePath)
	if err != nil {
		return 0, err
	}
	return insertMissing(db, data, func(m catalogModel.CourseModel) int64 { return m.ID })
}

func SeedAssignmentsFromJSON(db *gorm.DB, filePath string) (int, error) {
	data, err := readJSON[catalogModel.AssignmentModel](filePath)
	if err != nil {
		return 0, err
	}
	return insertMissing(db, data, func(m catalogModel.AssignmentModel) int64 { return m.ID })
}

type TemplateSeed struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CategoryID  *int64           `json:"categoryid"`
	CourseID    *int64           `json:"courseid"`
	CreatorID   int64            `json:"creatorid"`
	Settings    []settings.Entry `json:"settings"`
}

func SeedTemplatesFromJSON(db *gorm.DB, filePath string) (int, error) {
	data, err := readJSON[TemplateSeed](filePath)
	if err != nil {
		return 0, err
	}

	rows := make([]templateModel.TemplateModel, 0, len(data))
	for _, item := range data {
		m := settings.New()
		for _, e := range item.Settings {
			if e.FieldReference == "" {
				e.FieldReference = settings.FieldReferenceFor(e.SettingName)
			}
			m.Set(e)
		}
		encoded, err := m.Serialize()
		if err != nil {
			return 0, err
		}
		configs.Log.WithFields(logrus.Fields{"id": item.ID, "settings": m.Len()}).Debug("template seed prepared")

		rows = append(rows, templateModel.TemplateModel{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Settings:    encoded,
			CategoryID:  item.CategoryID,
			CourseID:    item.CourseID,
			CreatorID:   item.CreatorID,
		})
	}
	return insertMissing(db, rows, func(m templateModel.TemplateModel) int64 { return m.ID })
}
