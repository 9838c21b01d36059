package logsink

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHeartbeatRecordsOnStart verifies the initial heartbeats land in the file
// as soon as the processor starts, one record per enabled level
func TestHeartbeatRecordsOnStart(t *testing.T) {
	tmpDir := t.TempDir()
	logger := NewLogger()

	cfg := DefaultConfig()
	cfg.EnableConsole = false
	cfg.Directory = tmpDir
	cfg.FlushIntervalMs = 10
	cfg.HeartbeatLevel = 3
	cfg.HeartbeatIntervalS = 60

	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())
	defer logger.Shutdown()

	// Give the processor a moment to emit the startup heartbeats
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, logger.Flush(time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, "app.log"))
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "PROC")
	assert.Contains(t, text, "type proc")
	assert.Contains(t, text, "DISK")
	assert.Contains(t, text, "type disk")
	assert.Contains(t, text, "SYS")
	assert.Contains(t, text, "type sys")
	assert.Contains(t, text, "sequence 1")
}

// TestHeartbeatDisabledByDefault verifies no heartbeat records appear when
// the level is zero
func TestHeartbeatDisabledByDefault(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, logger.Flush(time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, "app.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "type proc")
}
