package compat

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/yoonhyunchan/logsink"
)

// newTestLogger builds a started file-only logger in a temp directory
func newTestLogger(t *testing.T) (*logsink.Logger, string) {
	t.Helper()
	tmpDir := t.TempDir()

	logger, err := logsink.NewBuilder().
		Directory(tmpDir).
		LevelString("debug").
		EnableConsole(false).
		Build()
	require.NoError(t, err)
	require.NoError(t, logger.Start())

	t.Cleanup(func() { _ = logger.Shutdown(2 * time.Second) })
	return logger, tmpDir
}

func readLog(t *testing.T, dir string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	return string(content)
}

func TestDetectLogLevel(t *testing.T) {
	tests := []struct {
		msg  string
		want int64
	}{
		{"error when serving connection", logsink.LevelError},
		{"request failed", logsink.LevelError},
		{"panic recovered", logsink.LevelCritical},
		{"fatal misconfiguration", logsink.LevelCritical},
		{"warning: deprecated option", logsink.LevelWarn},
		{"debug details follow", logsink.LevelDebug},
		{"listening on :8080", logsink.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLogLevel(tt.msg))
		})
	}
}

func TestFastHTTPAdapterPrintf(t *testing.T) {
	logger, tmpDir := newTestLogger(t)

	adapter := NewFastHTTPAdapter(logger)
	adapter.Printf("serving on %s", ":8080")
	adapter.Printf("error when serving connection %s", "1.2.3.4")

	require.NoError(t, logger.Flush(time.Second))
	content := readLog(t, tmpDir)

	assert.Contains(t, content, "serving on :8080")
	assert.Contains(t, content, "source fasthttp")
	assert.Contains(t, content, "ERROR")
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	logger, tmpDir := newTestLogger(t)

	adapter := NewFastHTTPAdapter(
		logger,
		WithDefaultLevel(logsink.LevelWarn),
		WithLevelDetector(func(string) int64 { return 0 }), // Always fall back to default
	)
	adapter.Printf("plain message")

	require.NoError(t, logger.Flush(time.Second))
	assert.Contains(t, readLog(t, tmpDir), "WARNING")
}

func TestGnetAdapterLevels(t *testing.T) {
	logger, tmpDir := newTestLogger(t)

	adapter := NewGnetAdapter(logger)
	adapter.Debugf("debug %d", 1)
	adapter.Infof("info %d", 2)
	adapter.Warnf("warn %d", 3)
	adapter.Errorf("error %d", 4)

	require.NoError(t, logger.Flush(time.Second))
	content := readLog(t, tmpDir)

	assert.Contains(t, content, "debug 1")
	assert.Contains(t, content, "info 2")
	assert.Contains(t, content, "warn 3")
	assert.Contains(t, content, "error 4")
	assert.Contains(t, content, "source gnet")
}

func TestGnetAdapterFatalHandler(t *testing.T) {
	logger, tmpDir := newTestLogger(t)

	var fatalMsg string
	adapter := NewGnetAdapter(logger, WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))

	adapter.Fatalf("engine died: %v", "oom")

	assert.Equal(t, "engine died: oom", fatalMsg)
	assert.Contains(t, readLog(t, tmpDir), "CRITICAL")
}

func TestRequestLogger(t *testing.T) {
	logger, tmpDir := newTestLogger(t)

	statuses := map[string]int{
		"/ok":       fasthttp.StatusOK,
		"/missing":  fasthttp.StatusNotFound,
		"/exploded": fasthttp.StatusInternalServerError,
	}

	handler := RequestLogger(logger, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(statuses[string(ctx.Path())])
	})

	for path := range statuses {
		ctx := &fasthttp.RequestCtx{}
		ctx.Request.Header.SetMethod(fasthttp.MethodGet)
		ctx.Request.SetRequestURI(path)
		handler(ctx)
	}

	require.NoError(t, logger.Flush(time.Second))
	content := readLog(t, tmpDir)

	assert.Contains(t, content, "path /ok")
	assert.Contains(t, content, "status 200")
	assert.Contains(t, content, "WARNING")
	assert.Contains(t, content, "status 404")
	assert.Contains(t, content, "ERROR")
	assert.Contains(t, content, "status 500")
	assert.Contains(t, content, "elapsed_ms")
}

func TestBuilderWithLogger(t *testing.T) {
	logger, _ := newTestLogger(t)

	builder := NewBuilder().WithLogger(logger)

	gnetAdapter, err := builder.BuildGnet()
	require.NoError(t, err)
	assert.NotNil(t, gnetAdapter)

	fasthttpAdapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)
	assert.NotNil(t, fasthttpAdapter)

	got, err := builder.GetLogger()
	require.NoError(t, err)
	assert.Same(t, logger, got)
}

func TestBuilderNilLogger(t *testing.T) {
	_, err := NewBuilder().WithLogger(nil).BuildGnet()
	assert.Error(t, err)
}

func TestBuilderWithConfig(t *testing.T) {
	cfg := logsink.DefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.EnableConsole = false

	builder := NewBuilder().WithConfig(cfg)
	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)
	assert.NotNil(t, adapter)

	l, err := builder.GetLogger()
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Shutdown(2 * time.Second) })

	adapter.Printf("hello from builder")
	assert.NoError(t, l.Flush(time.Second))
}
