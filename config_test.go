package logsink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, "logs", cfg.Directory)
	assert.Equal(t, "app", cfg.Name)
	assert.Equal(t, "log", cfg.Extension)
	assert.Equal(t, int64(10), cfg.MaxSizeMB)
	assert.Equal(t, 30.0, cfg.RetentionDays)
	assert.Equal(t, "zip", cfg.Compression)
	assert.Equal(t, "logs/app.log", filepath.ToSlash(cfg.FilePath()))

	assert.NoError(t, cfg.Validate())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"DEBUG", LevelDebug, false},
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"WARNING", LevelWarn, false},
		{"WARN", LevelWarn, false},
		{"ERROR", LevelError, false},
		{"CRITICAL", LevelCritical, false},
		{" critical ", LevelCritical, false},
		{"TRACE", 0, true},
		{"", 0, true},
		{"INFOO", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "")
		t.Setenv(EnvLogFile, "")

		cfg, err := NewConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, LevelInfo, cfg.Level)
		assert.Equal(t, "logs", cfg.Directory)
		assert.Equal(t, "app", cfg.Name)
	})

	t.Run("level override", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "ERROR")
		t.Setenv(EnvLogFile, "")

		cfg, err := NewConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, LevelError, cfg.Level)
	})

	t.Run("file override", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "")
		t.Setenv(EnvLogFile, "/var/log/svc/server.log")

		cfg, err := NewConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "/var/log/svc", cfg.Directory)
		assert.Equal(t, "server", cfg.Name)
		assert.Equal(t, "log", cfg.Extension)
	})

	t.Run("invalid level rejected", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "LOUD")

		_, err := NewConfigFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOG_LEVEL")
	})
}

func TestSetFilePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantDir string
		wantNm  string
		wantExt string
		wantErr bool
	}{
		{"absolute", "/var/log/app/app.log", "/var/log/app", "app", "log", false},
		{"relative", "logs/app.log", "logs", "app", "log", false},
		{"bare name", "app.log", ".", "app", "log", false},
		{"no extension", "/var/log/app/app", "/var/log/app", "app", "", false},
		{"dotted name", "svc.out.log", ".", "svc.out", "log", false},
		{"root path", "/", "", "", "", true},
		{"extension only", "/var/log/.log", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.SetFilePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, cfg.Directory)
			assert.Equal(t, tt.wantNm, cfg.Name)
			assert.Equal(t, tt.wantExt, cfg.Extension)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(*Config)
	}{
		{"level between constants", func(c *Config) { c.Level = 3 }},
		{"level above critical", func(c *Config) { c.Level = 100 }},
		{"empty name", func(c *Config) { c.Name = " " }},
		{"bad format", func(c *Config) { c.Format = "xml" }},
		{"dotted extension", func(c *Config) { c.Extension = ".log" }},
		{"empty timestamp format", func(c *Config) { c.TimestampFormat = "" }},
		{"bad console target", func(c *Config) { c.ConsoleTarget = "file" }},
		{"bad console color", func(c *Config) { c.ConsoleColor = "sometimes" }},
		{"bad compression", func(c *Config) { c.Compression = "gzip" }},
		{"zero buffer", func(c *Config) { c.BufferSize = 0 }},
		{"negative max size", func(c *Config) { c.MaxSizeMB = -1 }},
		{"zero flush interval", func(c *Config) { c.FlushIntervalMs = 0 }},
		{"negative retention", func(c *Config) { c.RetentionDays = -1 }},
		{"trace depth too deep", func(c *Config) { c.TraceDepth = 11 }},
		{"heartbeat level out of range", func(c *Config) { c.HeartbeatLevel = 4 }},
		{"heartbeat without interval", func(c *Config) {
			c.HeartbeatLevel = 1
			c.HeartbeatIntervalS = 0
		}},
		{"no sinks", func(c *Config) {
			c.EnableConsole = false
			c.EnableFile = false
		}},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewConfigFromFile(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := NewConfigFromFile(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, LevelInfo, cfg.Level)
		assert.Equal(t, "app", cfg.Name)
	})

	t.Run("values loaded from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "log.toml")
		content := `[log]
level = -4
name = "svc"
directory = "` + filepath.ToSlash(tmpDir) + `"
format = "json"
max_size_mb = 5
retention_days = 7.0
compression = "none"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := NewConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, LevelDebug, cfg.Level)
		assert.Equal(t, "svc", cfg.Name)
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, int64(5), cfg.MaxSizeMB)
		assert.Equal(t, 7.0, cfg.RetentionDays)
		assert.Equal(t, "none", cfg.Compression)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "log.toml")
		content := `[log]
format = "xml"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := NewConfigFromFile(path)
		assert.Error(t, err)
	})
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()

	clone.Name = "other"
	clone.Level = LevelError

	assert.Equal(t, "app", cfg.Name)
	assert.Equal(t, LevelInfo, cfg.Level)
}
