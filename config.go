package logsink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"

	"github.com/yoonhyunchan/logsink/formatter"
)

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Level     int64  `toml:"level"`
	Directory string `toml:"directory"` // Directory holding the active file and its archives
	Name      string `toml:"name"`      // Base name of the active log file
	Extension string `toml:"extension"` // File extension without the dot
	Format    string `toml:"format"`    // "txt", "json", or "raw"

	// Formatting
	ShowTimestamp   bool   `toml:"show_timestamp"`
	ShowLevel       bool   `toml:"show_level"`
	TimestampFormat string `toml:"timestamp_format"`
	TraceDepth      int64  `toml:"trace_depth"` // Call-site frames per record (0 disables)

	// Buffer and size limits
	BufferSize     int64 `toml:"buffer_size"`       // Channel buffer size
	MaxSizeMB      int64 `toml:"max_size_mb"`       // Rotation threshold per file
	MaxTotalSizeMB int64 `toml:"max_total_size_mb"` // Max total size of all logs in dir (0=disabled)
	MinDiskFreeMB  int64 `toml:"min_disk_free_mb"`  // Minimum free disk space (0=disabled)

	// Timers
	FlushIntervalMs     int64   `toml:"flush_interval_ms"`
	RetentionDays       float64 `toml:"retention_days"`       // Days to keep archives (0=disabled)
	RetentionCheckMins  float64 `toml:"retention_check_mins"` // How often to sweep
	DiskCheckIntervalMs int64   `toml:"disk_check_interval_ms"`
	EnablePeriodicSync  bool    `toml:"enable_periodic_sync"`

	// Archival
	Compression string `toml:"compression"` // "zip" or "none"

	// Sinks
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"
	ConsoleColor  string `toml:"console_color"`  // "auto", "always", or "never"
	EnableFile    bool   `toml:"enable_file"`

	// Heartbeat configuration
	HeartbeatLevel     int64 `toml:"heartbeat_level"`      // 0=disabled, 1=proc, 2=proc+disk, 3=proc+disk+sys
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"`

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"`
}

// defaultConfig is the single source for all configurable default values.
// File defaults reproduce the documented sink layout: logs/app.log, rotated
// at 10 MB, archives zip-compressed and kept for 30 days.
var defaultConfig = Config{
	Level:     LevelInfo,
	Directory: "logs",
	Name:      "app",
	Extension: "log",
	Format:    "txt",

	ShowTimestamp:   true,
	ShowLevel:       true,
	TimestampFormat: formatter.DefaultTimestampFormat,
	TraceDepth:      1,

	BufferSize:     1024,
	MaxSizeMB:      10,
	MaxTotalSizeMB: 0,
	MinDiskFreeMB:  0,

	FlushIntervalMs:     100,
	RetentionDays:       30.0,
	RetentionCheckMins:  60.0,
	DiskCheckIntervalMs: 5000,
	EnablePeriodicSync:  true,

	Compression: "zip",

	EnableConsole: true,
	ConsoleTarget: "stdout",
	ConsoleColor:  "auto",
	EnableFile:    true,

	HeartbeatLevel:     0,
	HeartbeatIntervalS: 60,

	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromEnv builds a configuration from the process environment.
// LOG_LEVEL selects the threshold (DEBUG, INFO, WARNING, ERROR, CRITICAL);
// an unrecognized value is rejected. LOG_FILE relocates the active log file;
// its parent directory is created during ApplyConfig.
func NewConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return nil, fmtErrorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.Level = level
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		if err := cfg.SetFilePath(v); err != nil {
			return nil, fmtErrorf("invalid %s: %w", EnvLogFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfigFromFile loads configuration from a TOML file and returns a
// validated Config. Missing files fall back to defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetFilePath splits a log file path into Directory, Name, and Extension.
func (c *Config) SetFilePath(path string) error {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return fmtErrorf("log file path '%s' has no file name", path)
	}
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if name == "" {
		return fmtErrorf("log file path '%s' has no base name", path)
	}
	c.Directory = filepath.Dir(path)
	c.Name = name
	c.Extension = strings.TrimPrefix(ext, ".")
	return nil
}

// FilePath returns the full path of the active log file.
func (c *Config) FilePath() string {
	filename := c.Name
	if c.Extension != "" {
		filename = c.Name + "." + c.Extension
	}
	return filepath.Join(c.Directory, filename)
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Float64:
		switch v := value.(type) {
		case float64:
			field.SetFloat(v)
		case int64:
			field.SetFloat(float64(v))
		default:
			return fmt.Errorf("expected float64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}
	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	switch c.Level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCritical:
	default:
		return fmtErrorf("invalid level: %d (use the DEBUG, INFO, WARNING, ERROR, or CRITICAL constants)", c.Level)
	}

	// String validations
	if strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("log name cannot be empty")
	}

	if c.Format != "txt" && c.Format != "json" && c.Format != "raw" {
		return fmtErrorf("invalid format: '%s' (use txt, json, or raw)", c.Format)
	}

	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s", c.Extension)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.ConsoleColor != "auto" && c.ConsoleColor != "always" && c.ConsoleColor != "never" {
		return fmtErrorf("invalid console_color: '%s' (use auto, always, or never)", c.ConsoleColor)
	}

	if c.Compression != "zip" && c.Compression != "none" {
		return fmtErrorf("invalid compression: '%s' (use zip or none)", c.Compression)
	}

	// Numeric validations
	if c.BufferSize <= 0 {
		return fmtErrorf("buffer_size must be positive: %d", c.BufferSize)
	}

	if c.MaxSizeMB < 0 || c.MaxTotalSizeMB < 0 || c.MinDiskFreeMB < 0 {
		return fmtErrorf("size limits cannot be negative")
	}

	if c.FlushIntervalMs <= 0 || c.DiskCheckIntervalMs <= 0 {
		return fmtErrorf("interval settings must be positive")
	}

	if c.TraceDepth < 0 || c.TraceDepth > 10 {
		return fmtErrorf("trace_depth must be between 0 and 10: %d", c.TraceDepth)
	}

	if c.RetentionDays < 0 || c.RetentionCheckMins < 0 {
		return fmtErrorf("retention settings cannot be negative")
	}

	if c.HeartbeatLevel < 0 || c.HeartbeatLevel > 3 {
		return fmtErrorf("heartbeat_level must be between 0 and 3: %d", c.HeartbeatLevel)
	}

	// Cross-field validations
	if c.HeartbeatLevel > 0 && c.HeartbeatIntervalS <= 0 {
		return fmtErrorf("heartbeat_interval_s must be positive when heartbeat is enabled: %d",
			c.HeartbeatIntervalS)
	}

	if !c.EnableConsole && !c.EnableFile {
		return fmtErrorf("at least one of console or file output must be enabled")
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}
