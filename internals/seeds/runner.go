package seeds

import (
	"fmt"
	"path/filepath"

	"gorm.io/gorm"

	"setcheck_backend/internals/configs"
	"setcheck_backend/internals/seeds/setcheck"
)

const DefaultDir = "internals/seeds/setcheck/data"

// RunAllSeeds loads the JSON fixtures in dependency order. Rows whose id
// already exists are skipped, so running it twice is harmless.
func RunAllSeeds(db *gorm.DB, dir string) error {
	steps := []struct {
		name string
		fn   func(*gorm.DB, string) (int, error)
	}{
		{"data_categories.json", setcheck.SeedCategoriesFromJSON},
		{"data_courses.json", setcheck.SeedCoursesFromJSON},
		{"data_assignments.json", setcheck.SeedAssignmentsFromJSON},
		{"data_templates.json", setcheck.SeedTemplatesFromJSON},
	}

	for _, s := range steps {
		path := filepath.Join(dir, s.name)
		n, err := s.fn(db, path)
		if err != nil {
			return err
		}
		configs.Log.WithField("file", path).Infof("seeded %d rows", n)
	}
	return resyncSequences(db)
}

// resyncSequences moves postgres id sequences past the explicit seed ids.
func resyncSequences(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"course_categories", "courses", "assignments", "templates"} {
		q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 1))", table)
		if err := db.Exec(q).Error; err != nil {
			return fmt.Errorf("resync %s sequence: %w", table, err)
		}
	}
	return nil
}
