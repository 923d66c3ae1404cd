package podmanclient

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/apyrgio/podman-go/pkg/podman"
)

// logAdapter implements podman.Logger over charmbracelet's logger.
type logAdapter struct {
	logger *log.Logger
}

// NewLogger returns the default structured logger, writing to stderr at
// debug level. It is installed automatically when Config.Debug is set and
// no Logger is given.
func NewLogger() podman.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
		Prefix:          "podman",
	})

	return &logAdapter{logger: logger}
}

// NewLoggerWith wraps an existing charmbracelet logger.
func NewLoggerWith(logger *log.Logger) podman.Logger {
	return &logAdapter{logger: logger}
}

func (l *logAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, flatten(fields)...)
}

func (l *logAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, flatten(fields)...)
}

func (l *logAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, flatten(fields)...)
}

func (l *logAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, flatten(fields)...)
}

// flatten converts a field map to charmbracelet's key-value list.
func flatten(fields map[string]interface{}) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}

	return kv
}
