package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// Setup applies the configured level. Unknown levels keep the default.
func Setup(level string) {
	if level == "" {
		return
	}
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		logg.WithField("level", level).Warn("unknown log level, keeping default")
		return
	}
	logg.SetLevel(lv)
}

func L() *logrus.Logger {
	return logg
}

// LogError records a failure with module/function context.
func LogError(module, funcName string, err error) {
	logg.WithFields(logrus.Fields{
		"module":   module,
		"funcName": funcName,
	}).Error(err.Error())
}
