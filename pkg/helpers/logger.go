package helpers

import (
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return logger
}

// LogError logs err with fields. The context attached through oops.With is
// flattened into the entry so repository failures keep their operation name.
func LogError(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	entry := logger.WithFields(fields)
	if oe, ok := oops.AsOops(err); ok {
		entry = entry.WithFields(oe.Context())
		if code := fmt.Sprint(oe.Code()); code != "" && code != "<nil>" {
			entry = entry.WithField("kind", code)
		}
	}
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}
