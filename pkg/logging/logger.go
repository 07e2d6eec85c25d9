package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/config"
)

// Logger is the shared logger type handed around the packages.
type Logger = *logrus.Logger

// Fields aliases logrus.Fields for call sites.
type Fields = logrus.Fields

// New returns a JSON-formatted logger at the configured level.
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(config.GetLogLevel())
	return logger
}

// NewWithService returns a logger tagging every entry with a service name.
func NewWithService(service string) *logrus.Logger {
	logger := New()
	logger.AddHook(serviceHook{service: service})
	return logger
}

type serviceHook struct {
	service string
}

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = h.service
	return nil
}
