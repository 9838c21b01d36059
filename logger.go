package logsink

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/yoonhyunchan/logsink/formatter"
	"github.com/yoonhyunchan/logsink/sanitizer"
)

// Logger is the core struct that encapsulates all logger functionality.
// Records flow from concurrent producers through a buffered channel into a
// single processor goroutine, which owns the active file: the size check,
// rotation, and append happen on one goroutine, so rotation is atomic with
// respect to every writer.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex
	fileFmt       atomic.Value // stores *formatter.Formatter, used only by the processor
	consoleFmt    atomic.Value // stores *formatter.Formatter, used only by the processor
}

// NewLogger creates a new Logger instance with default settings.
// The logger stays inert until ApplyConfig and Start are called.
func NewLogger() *Logger {
	l := &Logger{}

	l.currentConfig.Store(DefaultConfig())

	l.state.IsInitialized.Store(false)
	l.state.LoggerDisabled.Store(false)
	l.state.ShutdownCalled.Store(false)
	l.state.DiskFullLogged.Store(false)
	l.state.DiskStatusOK.Store(true)
	l.state.ProcessorExited.Store(true)
	l.state.CurrentSize.Store(0)
	l.state.EarliestFileTime.Store(time.Time{})

	l.state.HeartbeatSequence.Store(0)
	l.state.LoggerStartTime.Store(time.Now())

	// Create a closed channel initially to prevent nil pointer issues
	initialChan := make(chan logRecord)
	close(initialChan)
	l.state.ActiveLogChannel.Store(initialChan)

	l.state.ConsoleWriter.Store(&sink{w: io.Discard})
	l.state.flushRequestChan = make(chan chan struct{}, 1)

	l.fileFmt.Store(formatter.New())
	l.consoleFmt.Store(formatter.New())

	return l
}

// getFileFormatter returns the formatter for the file sink
func (l *Logger) getFileFormatter() *formatter.Formatter {
	return l.fileFmt.Load().(*formatter.Formatter)
}

// getConsoleFormatter returns the formatter for the console sink
func (l *Logger) getConsoleFormatter() *formatter.Formatter {
	return l.consoleFmt.Load().(*formatter.Formatter)
}

// ApplyConfig applies a validated configuration to the logger.
// This is the primary way applications should configure the logger.
// It fails loudly: an unwritable log directory is returned as an error
// instead of degrading to a silent no-op sink.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg.Clone())
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// Start begins log processing. Safe to call multiple times.
// Returns error if logger is not initialized.
func (l *Logger) Start() error {
	if !l.state.IsInitialized.Load() {
		return fmtErrorf("logger not initialized, call ApplyConfig first")
	}

	if l.state.Started.Load() && !l.state.ProcessorExited.Load() {
		return nil // Already running
	}

	if l.state.Started.CompareAndSwap(false, true) {
		cfg := l.getConfig()

		logChannel := make(chan logRecord, cfg.BufferSize)
		l.state.ActiveLogChannel.Store(logChannel)

		l.state.ProcessorExited.Store(false)
		go l.processLogs(logChannel)
	}

	return nil
}

// Stop halts log processing. Can be restarted with Start().
// Returns nil if already stopped.
func (l *Logger) Stop(timeout ...time.Duration) error {
	if !l.state.Started.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	var effectiveTimeout time.Duration
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		cfg := l.getConfig()
		effectiveTimeout = 2 * time.Duration(cfg.FlushIntervalMs) * time.Millisecond
	}

	ch := l.getCurrentLogChannel()
	if ch != nil {
		// Replace with a closed channel so producers fail fast, then close
		// the live channel to signal the processor.
		closedChan := make(chan logRecord)
		close(closedChan)
		l.state.ActiveLogChannel.Store(closedChan)
		if ch != closedChan {
			close(ch)
		}
	}

	deadline := time.Now().Add(effectiveTimeout)
	for time.Now().Before(deadline) {
		if l.state.ProcessorExited.Load() {
			break
		}
		time.Sleep(minWaitTime)
	}

	if !l.state.ProcessorExited.Load() {
		return fmtErrorf("processor did not exit within timeout (%v)", effectiveTimeout)
	}

	return nil
}

// Shutdown gracefully closes the logger, attempting to flush pending records
// and waiting for in-flight archive compression.
// If no timeout is provided, uses a default of 2x flush interval.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	l.state.LoggerDisabled.Store(true)

	if !l.state.IsInitialized.Load() {
		l.state.ShutdownCalled.Store(false)
		l.state.LoggerDisabled.Store(false)
		l.state.ProcessorExited.Store(true)
		return nil
	}

	cfg := l.getConfig()
	var effectiveTimeout time.Duration
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		effectiveTimeout = 2 * time.Duration(cfg.FlushIntervalMs) * time.Millisecond
	}

	var stopErr error
	if l.state.Started.Load() {
		stopErr = l.Stop(effectiveTimeout)
	}

	// Let queued archive compression finish, bounded by the same timeout.
	var archiveErr error
	if !l.waitForArchives(effectiveTimeout) {
		archiveErr = fmtErrorf("archive compression did not finish within timeout (%v)", effectiveTimeout)
	}

	l.state.IsInitialized.Store(false)

	var finalErr error
	cfPtr := l.state.CurrentFile.Load()
	if cfPtr != nil {
		if currentLogFile, ok := cfPtr.(*os.File); ok && currentLogFile != nil {
			if err := currentLogFile.Sync(); err != nil {
				syncErr := fmtErrorf("failed to sync log file '%s' during shutdown: %w", currentLogFile.Name(), err)
				finalErr = combineErrors(finalErr, syncErr)
			}
			if err := currentLogFile.Close(); err != nil {
				closeErr := fmtErrorf("failed to close log file '%s' during shutdown: %w", currentLogFile.Name(), err)
				finalErr = combineErrors(finalErr, closeErr)
			}
			l.state.CurrentFile.Store((*os.File)(nil))
		}
	}

	finalErr = combineErrors(finalErr, stopErr)
	finalErr = combineErrors(finalErr, archiveErr)
	return finalErr
}

// Flush explicitly triggers a sync of the current log file buffer to disk and
// waits for completion or timeout.
func (l *Logger) Flush(timeout time.Duration) error {
	l.state.flushMutex.Lock()
	defer l.state.flushMutex.Unlock()

	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger not initialized or already shut down")
	}
	if !l.state.Started.Load() {
		return fmtErrorf("logger not started")
	}

	confirmChan := make(chan struct{})

	select {
	case l.state.flushRequestChan <- confirmChan:
		// Request sent
	case <-time.After(minWaitTime): // Short timeout to prevent blocking if processor is stuck
		return fmtErrorf("failed to send flush request to processor (possible deadlock or high load)")
	}

	select {
	case <-confirmChan:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// applyConfig is the internal implementation for applying configuration,
// assuming initMu is held.
func (l *Logger) applyConfig(cfg *Config) error {
	oldCfg := l.getConfig()
	l.currentConfig.Store(cfg)

	// Ensure log directory exists if file output is enabled
	if cfg.EnableFile {
		if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
			l.currentConfig.Store(oldCfg) // Rollback
			return fmtErrorf("failed to create log directory '%s': %w", cfg.Directory, err)
		}
	}

	wasInitialized := l.state.IsInitialized.Load()
	wasStarted := l.state.Started.Load()

	needsRestart := wasStarted && wasInitialized && configRequiresRestart(oldCfg, cfg)
	if needsRestart {
		if err := l.Stop(); err != nil {
			l.currentConfig.Store(oldCfg) // Rollback
			return fmtErrorf("failed to stop processor for restart: %w", err)
		}
	}

	// Get current file handle
	var currentFile *os.File
	if cfPtr := l.state.CurrentFile.Load(); cfPtr != nil {
		currentFile, _ = cfPtr.(*os.File)
	}

	needsNewFile := !wasInitialized || currentFile == nil ||
		oldCfg.Directory != cfg.Directory ||
		oldCfg.Name != cfg.Name ||
		oldCfg.Extension != cfg.Extension

	if !cfg.EnableFile {
		if currentFile != nil {
			_ = currentFile.Sync()
			if err := currentFile.Close(); err != nil {
				l.internalLog("warning - failed to close log file during disable: %v\n", err)
			}
		}
		l.state.CurrentFile.Store((*os.File)(nil))
		l.state.CurrentSize.Store(0)
	} else if needsNewFile {
		logFile, err := l.createNewLogFile()
		if err != nil {
			l.currentConfig.Store(oldCfg) // Rollback
			return fmtErrorf("failed to create log file: %w", err)
		}

		if currentFile != nil && currentFile != logFile {
			_ = currentFile.Sync()
			if err := currentFile.Close(); err != nil {
				l.internalLog("warning - failed to close old log file: %v\n", err)
			}
		}

		l.state.CurrentFile.Store(logFile)
		l.state.CurrentSize.Store(0)
		if fi, errStat := logFile.Stat(); errStat == nil {
			l.state.CurrentSize.Store(fi.Size())
		}
	}

	l.configureSinks(cfg)

	l.state.IsInitialized.Store(true)
	l.state.ShutdownCalled.Store(false)
	l.state.LoggerDisabled.Store(false)

	if needsRestart {
		return l.Start()
	}

	return nil
}

// configureSinks rebuilds the formatters and the console writer for cfg.
func (l *Logger) configureSinks(cfg *Config) {
	var policy sanitizer.Policy
	switch cfg.Format {
	case "json":
		// The JSON encoder escapes control characters itself; sanitizing
		// here would double-escape.
		policy = sanitizer.PolicyRaw
	case "raw":
		policy = sanitizer.PolicyRaw
	default:
		policy = sanitizer.PolicyLine
	}

	l.fileFmt.Store(formatter.New(sanitizer.New().Use(policy)).
		Type(cfg.Format).
		TimestampFormat(cfg.TimestampFormat).
		Color(formatter.ColorNever))

	if cfg.EnableConsole {
		var target *os.File
		if cfg.ConsoleTarget == "stderr" {
			target = os.Stderr
		} else {
			target = os.Stdout
		}

		mode := formatter.ColorNever
		switch cfg.ConsoleColor {
		case "always":
			mode = formatter.ColorAlways
		case "auto":
			if isatty.IsTerminal(target.Fd()) || isatty.IsCygwinTerminal(target.Fd()) {
				mode = formatter.ColorAlways
			}
		}

		l.consoleFmt.Store(formatter.New(sanitizer.New().Use(policy)).
			Type(cfg.Format).
			TimestampFormat(cfg.TimestampFormat).
			Color(mode))
		l.state.ConsoleWriter.Store(&sink{w: target})
	} else {
		l.consoleFmt.Store(formatter.New(sanitizer.New().Use(policy)).
			Type(cfg.Format).
			TimestampFormat(cfg.TimestampFormat).
			Color(formatter.ColorNever))
		l.state.ConsoleWriter.Store(&sink{w: io.Discard})
	}
}

// configRequiresRestart reports whether a config change invalidates state the
// processor captured at Start.
func configRequiresRestart(oldCfg, newCfg *Config) bool {
	return oldCfg.BufferSize != newCfg.BufferSize ||
		oldCfg.FlushIntervalMs != newCfg.FlushIntervalMs ||
		oldCfg.DiskCheckIntervalMs != newCfg.DiskCheckIntervalMs ||
		oldCfg.RetentionDays != newCfg.RetentionDays ||
		oldCfg.RetentionCheckMins != newCfg.RetentionCheckMins ||
		oldCfg.HeartbeatLevel != newCfg.HeartbeatLevel ||
		oldCfg.HeartbeatIntervalS != newCfg.HeartbeatIntervalS
}

// waitForArchives blocks until queued archive compression completes or the
// timeout elapses. Reports whether the wait completed.
func (l *Logger) waitForArchives(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		l.state.archiveWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
