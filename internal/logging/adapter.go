package logging

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// CronLogger adapts an slog.Logger to cron.Logger so scheduler events end up
// in the application log. cron's Info messages are logged at debug level.
type CronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = (*CronLogger)(nil)

// NewCronLogger wraps logger. If logger is nil, slog.Default() is used.
func NewCronLogger(logger *slog.Logger) *CronLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &CronLogger{logger: logger}
}

// Info logs a routine scheduler message.
// Arguments are alternating key-value pairs: key1, value1, key2, value2, ...
func (l *CronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

// Error logs a scheduler failure, such as a recovered job panic.
func (l *CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{Err(err)}, keysAndValues...)...)
}

// Logger returns the underlying slog.Logger.
func (l *CronLogger) Logger() *slog.Logger {
	return l.logger
}
