package logsink

import (
	"time"
)

// Global instance for package-level functions
var defaultLogger = NewLogger()

// Default package-level functions that delegate to the default logger

// Init configures and starts the default logger with the provided config.
// A nil config uses the defaults (logs/app.log, INFO, 10 MB rotation, zip
// archives kept 30 days).
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := defaultLogger.ApplyConfig(cfg); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// InitFromEnv configures and starts the default logger from LOG_LEVEL and
// LOG_FILE. An unrecognized LOG_LEVEL is an error, not a silent fallback.
func InitFromEnv() error {
	cfg, err := NewConfigFromEnv()
	if err != nil {
		return err
	}
	return Init(cfg)
}

// InitFromFile configures and starts the default logger from a TOML file,
// falling back to defaults when the file does not exist.
func InitFromFile(path string) error {
	cfg, err := NewConfigFromFile(path)
	if err != nil {
		return err
	}
	return Init(cfg)
}

// InitWithOverrides configures and starts the default logger with built-in
// defaults plus "key=value" overrides.
func InitWithOverrides(overrides ...string) error {
	if err := defaultLogger.ApplyOverride(overrides...); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// Shutdown gracefully closes the default logger
func Shutdown(timeout ...time.Duration) error {
	return defaultLogger.Shutdown(timeout...)
}

// Flush triggers a sync of the current log file buffer to disk and waits for
// completion or timeout
func Flush(timeout time.Duration) error {
	return defaultLogger.Flush(timeout)
}

// Default returns the package-level logger for callers that prefer passing
// it around explicitly.
func Default() *Logger {
	return defaultLogger
}

// The level functions below call log directly instead of delegating to the
// Logger methods: both paths then put the same number of frames between the
// caller and the call-site capture, so records name the emitting function
// rather than this wrapper.

// Debug logs a message at debug level
func Debug(args ...any) {
	defaultLogger.log(defaultLogger.getFlags(), LevelDebug, defaultLogger.getConfig().TraceDepth, args...)
}

// Info logs a message at info level
func Info(args ...any) {
	defaultLogger.log(defaultLogger.getFlags(), LevelInfo, defaultLogger.getConfig().TraceDepth, args...)
}

// Warn logs a message at warning level
func Warn(args ...any) {
	defaultLogger.log(defaultLogger.getFlags(), LevelWarn, defaultLogger.getConfig().TraceDepth, args...)
}

// Error logs a message at error level
func Error(args ...any) {
	defaultLogger.log(defaultLogger.getFlags(), LevelError, defaultLogger.getConfig().TraceDepth, args...)
}

// Critical logs a message at critical level
func Critical(args ...any) {
	defaultLogger.log(defaultLogger.getFlags(), LevelCritical, defaultLogger.getConfig().TraceDepth, args...)
}

// DebugTrace logs a debug message with function call trace
func DebugTrace(depth int, args ...any) {
	defaultLogger.log(defaultLogger.getFlags(), LevelDebug, int64(depth), args...)
}

// InfoTrace logs an info message with function call trace
func InfoTrace(depth int, args ...any) {
	defaultLogger.log(defaultLogger.getFlags(), LevelInfo, int64(depth), args...)
}

// WarnTrace logs a warning message with function call trace
func WarnTrace(depth int, args ...any) {
	defaultLogger.log(defaultLogger.getFlags(), LevelWarn, int64(depth), args...)
}

// ErrorTrace logs an error message with function call trace
func ErrorTrace(depth int, args ...any) {
	defaultLogger.log(defaultLogger.getFlags(), LevelError, int64(depth), args...)
}

// CriticalTrace logs a critical message with function call trace
func CriticalTrace(depth int, args ...any) {
	defaultLogger.log(defaultLogger.getFlags(), LevelCritical, int64(depth), args...)
}

// Log writes a timestamp-only record without level information
func Log(args ...any) {
	defaultLogger.log(FlagShowTimestamp, LevelInfo, 0, args...)
}

// Message writes a plain record without timestamp or level info
func Message(args ...any) {
	defaultLogger.log(0, LevelInfo, 0, args...)
}

// LogTrace writes a timestamp record with call trace but no level info
func LogTrace(depth int, args ...any) {
	defaultLogger.log(FlagShowTimestamp, LevelInfo, int64(depth), args...)
}
