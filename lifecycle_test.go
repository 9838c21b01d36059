package logsink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStartWithoutConfig verifies Start fails before ApplyConfig
func TestStartWithoutConfig(t *testing.T) {
	logger := NewLogger()
	assert.Error(t, logger.Start())
}

// TestStartIdempotent verifies repeated Start calls are safe
func TestStartIdempotent(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	assert.NoError(t, logger.Start())
	assert.NoError(t, logger.Start())
}

// TestStopAndRestart verifies the processor can be stopped and restarted
func TestStopAndRestart(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	require.NoError(t, logger.Stop(time.Second))
	assert.True(t, logger.state.ProcessorExited.Load())

	require.NoError(t, logger.Start())
	assert.False(t, logger.state.ProcessorExited.Load())

	logger.Info("after restart")
	assert.NoError(t, logger.Flush(time.Second))
}

// TestStopIdempotent verifies Stop on a stopped logger returns nil
func TestStopIdempotent(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	require.NoError(t, logger.Stop(time.Second))
	assert.NoError(t, logger.Stop(time.Second))
}

// TestShutdownDrains verifies shutdown waits for the processor to exit and
// releases the file handle
func TestShutdownDrains(t *testing.T) {
	logger, _ := createTestLogger(t)

	for i := 0; i < 100; i++ {
		logger.Info("pending", "seq", i)
	}

	require.NoError(t, logger.Shutdown(5*time.Second))
	assert.True(t, logger.state.ProcessorExited.Load())
	assert.False(t, logger.state.IsInitialized.Load())
}

// TestShutdownIdempotent verifies a second Shutdown returns nil
func TestShutdownIdempotent(t *testing.T) {
	logger, _ := createTestLogger(t)

	require.NoError(t, logger.Shutdown())
	assert.NoError(t, logger.Shutdown())
}

// TestShutdownUninitialized verifies shutting down a never-configured logger
// is a no-op
func TestShutdownUninitialized(t *testing.T) {
	logger := NewLogger()
	assert.NoError(t, logger.Shutdown())
}

// TestRestartRequiredConfigChange verifies changing the buffer size on a live
// logger transparently restarts the processor
func TestRestartRequiredConfigChange(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	cfg := logger.GetConfig()
	cfg.BufferSize = 2048
	require.NoError(t, logger.ApplyConfig(cfg))

	assert.False(t, logger.state.ProcessorExited.Load())
	logger.Info("after resize")
	assert.NoError(t, logger.Flush(time.Second))
}

// TestDefaultLoggerLifecycle exercises the package-level API
func TestDefaultLoggerLifecycle(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.EnableConsole = false

	require.NoError(t, Init(cfg))
	defer Shutdown()

	Info("default logger record")
	assert.NoError(t, Flush(time.Second))
	assert.Same(t, defaultLogger, Default())
}
