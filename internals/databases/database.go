package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"setcheck_backend/internals/configs"
	catalogModel "setcheck_backend/internals/features/setcheck/catalog/model"
	templateModel "setcheck_backend/internals/features/setcheck/templates/model"
)

var DB *gorm.DB

func ConnectDB() {
	var (
		db  *gorm.DB
		err error
	)

	switch configs.DBDriver {
	case "sqlite":
		path := configs.GetEnv("SQLITE_PATH", "setcheck.db")
		configs.Log.Infof("Connecting to SQLite (%s)...", path)
		db, err = OpenSQLite(path)
	default:
		configs.Log.Info("Connecting to PostgreSQL...")
		// PreferSimpleProtocol keeps PgBouncer (transaction pooling) happy.
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  configs.PostgresDSN(),
			PreferSimpleProtocol: true,
		}), &gorm.Config{Logger: configs.NewGormLogger()})
	}
	if err != nil {
		configs.Log.Fatalf("DB connect failed: %v", err)
	}
	DB = db
	configs.Log.Info("DB connected.")
}

// OpenSQLite opens a sqlite database; dsn may be a file path or a
// "file:name?mode=memory&cache=shared" URI.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: configs.NewGormLogger()})
}

// AutoMigrate creates the template table and the catalog tables the
// reconciliation engine reads and writes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalogModel.CategoryModel{},
		&catalogModel.CourseModel{},
		&catalogModel.AssignmentModel{},
		&templateModel.TemplateModel{},
	)
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		configs.Log.Warnf("pool tune err: %v", err)
		return
	}
	if configs.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			configs.Log.Warnf("warm-up ping err: %v", err)
		}
	}()
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
