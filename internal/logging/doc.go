// Package logging provides structured logging utilities for workday.
//
// All components log through log/slog. This package builds the process
// logger from configuration, keeps attribute names consistent and hides
// personal data before it reaches a log line.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "reminder.poll")
//	logger.Info("poll finished", logging.Status(logging.StatusSuccess))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("auto-reply sent", logging.UserHash(sender))
//
// Route scheduler output into slog:
//
//	c := cron.New(cron.WithLogger(logging.NewCronLogger(logger)))
package logging
