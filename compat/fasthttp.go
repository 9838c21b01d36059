// Package compat provides adapters that let third-party servers route their
// internal logging through a logsink.Logger.
package compat

import (
	"fmt"
	"strings"

	"github.com/yoonhyunchan/logsink"
)

// FastHTTPAdapter wraps logsink.Logger to implement fasthttp's Logger interface
type FastHTTPAdapter struct {
	logger        *logsink.Logger
	defaultLevel  int64
	levelDetector func(string) int64 // Function to detect log level from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *logsink.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  logsink.LevelInfo,
		levelDetector: DetectLogLevel, // Default level detection
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the default log level for Printf calls
func WithDefaultLevel(level int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content
func WithLevelDetector(detector func(string) int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		detected := a.levelDetector(msg)
		if detected != 0 {
			level = detected
		}
	}

	switch level {
	case logsink.LevelDebug:
		a.logger.Debug("msg", msg, "source", "fasthttp")
	case logsink.LevelWarn:
		a.logger.Warn("msg", msg, "source", "fasthttp")
	case logsink.LevelError:
		a.logger.Error("msg", msg, "source", "fasthttp")
	case logsink.LevelCritical:
		a.logger.Critical("msg", msg, "source", "fasthttp")
	default:
		a.logger.Info("msg", msg, "source", "fasthttp")
	}
}

// DetectLogLevel attempts to detect log level from message content
func DetectLogLevel(msg string) int64 {
	msgLower := strings.ToLower(msg)

	// Check for critical indicators first
	if strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return logsink.LevelCritical
	}

	// Check for error indicators
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") {
		return logsink.LevelError
	}

	// Check for warning indicators
	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "warning") ||
		strings.Contains(msgLower, "deprecated") {
		return logsink.LevelWarn
	}

	// Check for debug indicators
	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return logsink.LevelDebug
	}

	// Default to info level
	return logsink.LevelInfo
}
