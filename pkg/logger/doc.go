// Package logger provides structured logging for the Weibo privacy tool.
//
// It wraps the zerolog library behind a small interface with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors, or JSON
// - Rotating file output via lumberjack
// - Global logger instance for easy access
//
// Basic Usage:
//
//	cfg := &config.LoggingConfig{
//	    Level:  "info",
//	    Format: "text",
//	    File:   "/var/log/wbprivacy.log",
//	}
//	err := logger.Initialize(cfg)
//
//	logger.Info("run started")
//	logger.WithField("user_id", "1234567890").Info("feed pagination begins")
//	logger.WithError(err).Error("page fetch failed")
//
// Console output is written to stderr so that post listings and run
// reports on stdout remain pipeable.
package logger
