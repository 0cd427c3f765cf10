package logger

import (
	"context"

	"github.com/rs/zerolog"
)

// LogRequest logs the outcome of an upstream HTTP call
func LogRequest(log Logger, method, url string, statusCode int, durationMs float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": durationMs,
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		log.DebugWithFields("request completed", fields)
	case statusCode >= 400 && statusCode < 500:
		log.WarnWithFields("request rejected", fields)
	default:
		log.ErrorWithFields("request failed", fields)
	}
}

// LogPageFetch logs progress through the feed
func LogPageFetch(log Logger, userID string, page, posts int) {
	log.InfoWithFields("fetched feed page", map[string]interface{}{
		"user_id": userID,
		"page":    page,
		"posts":   posts,
	})
}

// LogMutation logs a single visibility change attempt
func LogMutation(log Logger, postID, visibility string, dryRun bool, err error) {
	fields := map[string]interface{}{
		"post_id":    postID,
		"visibility": visibility,
		"dry_run":    dryRun,
	}

	l := log.WithFields(fields)
	switch {
	case err != nil:
		l.WithError(err).Warn("visibility change failed")
	case dryRun:
		l.Debug("visibility change skipped (dry run)")
	default:
		l.Debug("visibility changed")
	}
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
