package logsink

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	// ApplyConfig handles all initialization and validation.
	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return logger, nil
}

// Level sets the log level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the log level from a name like "DEBUG" or "warning".
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := ParseLevel(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// Name sets the base name of the active log file.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Format sets the output format.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// Extension sets the log file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// FilePath sets the directory, name, and extension from a single path.
func (b *Builder) FilePath(path string) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.cfg.SetFilePath(path); err != nil {
		b.err = err
	}
	return b
}

// BufferSize sets the channel buffer size.
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// MaxSizeMB sets the per-file rotation threshold in MB.
func (b *Builder) MaxSizeMB(size int64) *Builder {
	b.cfg.MaxSizeMB = size
	return b
}

// MaxTotalSizeMB sets the total size cap across the active file and archives.
func (b *Builder) MaxTotalSizeMB(size int64) *Builder {
	b.cfg.MaxTotalSizeMB = size
	return b
}

// RetentionDays sets how long rotated archives are kept.
func (b *Builder) RetentionDays(days float64) *Builder {
	b.cfg.RetentionDays = days
	return b
}

// RetentionCheckMins sets how often the retention sweep runs.
func (b *Builder) RetentionCheckMins(mins float64) *Builder {
	b.cfg.RetentionCheckMins = mins
	return b
}

// Compression sets the archive compression mode ("zip" or "none").
func (b *Builder) Compression(mode string) *Builder {
	b.cfg.Compression = mode
	return b
}

// EnableConsole enables or disables the console sink.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget sets the console sink target ("stdout" or "stderr").
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// ConsoleColor sets the console color mode ("auto", "always", or "never").
func (b *Builder) ConsoleColor(mode string) *Builder {
	b.cfg.ConsoleColor = mode
	return b
}

// EnableFile enables or disables the file sink.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.EnableFile = enable
	return b
}

// HeartbeatLevel sets the heartbeat monitoring level.
func (b *Builder) HeartbeatLevel(level int64) *Builder {
	b.cfg.HeartbeatLevel = level
	return b
}

// HeartbeatIntervalS sets the heartbeat interval in seconds.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// Example usage:
// logger, err := logsink.NewBuilder().
//
//	FilePath("/var/log/app/app.log").
//	LevelString("debug").
//	Format("txt").
//	BufferSize(4096).
//	EnableConsole(true).
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown()
//	 logger.Info("Logger initialized successfully")
//
// }
