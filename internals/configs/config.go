package configs

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret         string
	DBDriver          string
	ManageTemplateURL string
	CorsAllowOrigins  string
)

// =======================
// ENV LOADER
// =======================
const DefaultCorsAllowOrigins = "http://localhost:5173"

func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			Log.Warn("No .env file found, using system environment")
		} else {
			Log.Info(".env file loaded")
		}
	} else {
		Log.Info("Running in Railway, using system environment")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	DBDriver = strings.ToLower(GetEnv("DB_DRIVER", "postgres"))
	ManageTemplateURL = GetEnv("SETCHECK_MANAGE_URL", "/setcheck/templates/manage")
	CorsAllowOrigins = GetEnv("CORS_ALLOW_ORIGINS", DefaultCorsAllowOrigins)

	if JWTSecret == "" {
		Log.Error("JWT_SECRET is not set")
	} else {
		Log.Info("JWT_SECRET loaded")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// GetEnvBool falls back to def when the key is unset or unparsable.
func GetEnvBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		Log.Warnf("invalid bool for %s=%q, using %v", key, v, def)
		return def
	}
	return b
}

// PostgresDSN builds the DSN from DB_* keys.
func PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=setcheck&options=-c statement_timeout=3000",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE", "require"),
	)
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
	Logger        *logrus.Logger
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
		Logger:        Log,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		l.Logger.Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		l.Logger.Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		l.Logger.Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := l.Logger.WithFields(logrus.Fields{
		"file":    utils.FileWithLineNum(),
		"elapsed": elapsed.String(),
		"rows":    rows,
		"sql":     sql,
	})

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		entry.WithError(err).Error("query failed")
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		entry.Warn("slow sql")
	case l.LogLevel >= gormLogger.Info:
		entry.Debug("query")
	}
}
