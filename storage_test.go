package logsink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForArchiveDone blocks until background compression settles
func waitForArchiveDone(t *testing.T, logger *Logger) {
	t.Helper()
	require.True(t, logger.waitForArchives(5*time.Second), "archive compression did not finish")
}

func TestLogRotation(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	cfg := logger.GetConfig()
	cfg.MaxSizeMB = 1
	cfg.FlushIntervalMs = 10
	require.NoError(t, logger.ApplyConfig(cfg))

	// Large messages force the 1 MB cap quickly
	const targetMessageSize = 50000
	largeData := strings.Repeat("x", targetMessageSize)

	for i := 0; i < 50; i++ {
		logger.Info(fmt.Sprintf("msg%d:", i), largeData)
		if i%10 == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, logger.Flush(time.Second))
	waitForArchiveDone(t, logger)

	files, err := os.ReadDir(tmpDir)
	require.NoError(t, err)

	// Rotated archives carry the pattern app_YYYYMMDD_HHMMSS_<nano>.log.zip
	archivePattern := regexp.MustCompile(`^app_\d{8}_\d{6}_\d+\.log\.zip$`)
	archives := 0
	for _, f := range files {
		if archivePattern.MatchString(f.Name()) {
			archives++
		}
	}
	assert.Greater(t, archives, 0, "expected at least one compressed archive")

	// No file, active or archived, exceeds the cap
	for _, f := range files {
		info, err := f.Info()
		require.NoError(t, err)
		assert.LessOrEqual(t, info.Size(), int64(1024*1024)+int64(targetMessageSize)+1024,
			"file %s exceeds rotation cap", f.Name())
	}
}

func TestRotationArchiveRecoverable(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	cfg := logger.GetConfig()
	cfg.MaxSizeMB = 1
	require.NoError(t, logger.ApplyConfig(cfg))

	payload := strings.Repeat("y", 40000)
	for i := 0; i < 40; i++ {
		logger.Info("recoverable", "seq", i, payload)
	}

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, logger.Flush(time.Second))
	waitForArchiveDone(t, logger)

	files, err := os.ReadDir(tmpDir)
	require.NoError(t, err)

	var zipName string
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".log.zip") {
			zipName = f.Name()
			break
		}
	}
	require.NotEmpty(t, zipName, "expected a compressed archive")

	// The original uncompressed archive must be gone
	assert.NoFileExists(t, filepath.Join(tmpDir, strings.TrimSuffix(zipName, ".zip")))

	// Decompressed content must consist of well-formed log lines
	zr, err := zip.OpenReader(filepath.Join(tmpDir, zipName))
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 1)
	assert.Equal(t, strings.TrimSuffix(zipName, ".zip"), zr.File[0].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	assert.NotEmpty(t, lines)
	linePattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \| (DEBUG|INFO|WARNING|ERROR|CRITICAL)\s+[|-] `)
	for _, line := range lines {
		assert.Regexp(t, linePattern, line)
	}
}

func TestCompressionDisabled(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	cfg := logger.GetConfig()
	cfg.MaxSizeMB = 1
	cfg.Compression = "none"
	require.NoError(t, logger.ApplyConfig(cfg))

	payload := strings.Repeat("z", 40000)
	for i := 0; i < 40; i++ {
		logger.Info("plain", "seq", i, payload)
	}

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, logger.Flush(time.Second))
	waitForArchiveDone(t, logger)

	files, err := os.ReadDir(tmpDir)
	require.NoError(t, err)

	rotated := 0
	for _, f := range files {
		assert.False(t, strings.HasSuffix(f.Name(), ".zip"), "unexpected zip %s", f.Name())
		if strings.HasPrefix(f.Name(), "app_") {
			rotated++
		}
	}
	assert.Greater(t, rotated, 0)
}

func TestArchiveNameGeneration(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	ts := time.Date(2026, 8, 23, 14, 30, 45, 123456789, time.UTC)
	name := logger.generateArchiveLogFileName(ts)
	assert.Equal(t, "app_20260823_143045_123456789.log", name)
}

func TestIsArchiveFile(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	tests := []struct {
		name string
		want bool
	}{
		{"app_20260823_143045_123.log", true},
		{"app_20260823_143045_123.log.zip", true},
		{"app.log", false},   // active file
		{"other_20260823_143045_123.log", false},
		{"app_notes.txt", false},
		{"app.log.zip", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, logger.isArchiveFile(tt.name), tt.name)
	}
}

func TestRetentionSweep(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	cfg := logger.GetConfig()
	cfg.RetentionDays = 30
	require.NoError(t, logger.ApplyConfig(cfg))

	// Plant archives on both sides of the 30 day cutoff
	expired := filepath.Join(tmpDir, "app_20200101_000000_1.log.zip")
	fresh := filepath.Join(tmpDir, "app_20990101_000000_2.log.zip")
	require.NoError(t, os.WriteFile(expired, []byte("old"), 0644))
	require.NoError(t, os.WriteFile(fresh, []byte("new"), 0644))

	old := time.Now().Add(-31 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(expired, old, old))

	logger.updateEarliestFileTime()
	logger.handleRetentionCheck()

	assert.NoFileExists(t, expired)
	assert.FileExists(t, fresh)
	// The active file survives regardless of age
	assert.FileExists(t, filepath.Join(tmpDir, "app.log"))
}

func TestRetentionIgnoresForeignFiles(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	foreign := filepath.Join(tmpDir, "unrelated.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("keep me"), 0644))
	old := time.Now().Add(-365 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(foreign, old, old))

	logger.updateEarliestFileTime()
	logger.handleRetentionCheck()

	assert.FileExists(t, foreign)
}

func TestCompressArchivePreservesModTime(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	src := filepath.Join(tmpDir, "app_20260101_000000_7.log")
	require.NoError(t, os.WriteFile(src, []byte("line one\nline two\n"), 0644))
	stamp := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(src, stamp, stamp))

	require.NoError(t, logger.compressArchive(src))

	assert.NoFileExists(t, src)
	info, err := os.Stat(src + ".zip")
	require.NoError(t, err)
	assert.WithinDuration(t, stamp, info.ModTime(), time.Second)
}

func TestCleanOldLogsFreesSpace(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	// Oldest archives go first
	for i := 0; i < 3; i++ {
		p := filepath.Join(tmpDir, fmt.Sprintf("app_2026010%d_000000_%d.log.zip", i+1, i))
		require.NoError(t, os.WriteFile(p, []byte(strings.Repeat("a", 1000)), 0644))
		stamp := time.Now().Add(-time.Duration(72-i*24) * time.Hour)
		require.NoError(t, os.Chtimes(p, stamp, stamp))
	}

	require.NoError(t, logger.cleanOldLogs(1500))

	// The two oldest are gone, the newest survives
	assert.NoFileExists(t, filepath.Join(tmpDir, "app_20260101_000000_0.log.zip"))
	assert.NoFileExists(t, filepath.Join(tmpDir, "app_20260102_000000_1.log.zip"))
	assert.FileExists(t, filepath.Join(tmpDir, "app_20260103_000000_2.log.zip"))
	assert.FileExists(t, filepath.Join(tmpDir, "app.log"))
}
