package configs

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is usable before InitLogger; InitLogger only reconfigures it.
var Log = logrus.New()

func InitLogger() {
	if strings.EqualFold(GetEnv("LOG_FORMAT", "json"), "text") {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}

	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
