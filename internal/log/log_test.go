package log

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })
	return &buf
}

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	tests := []struct {
		name     string
		fields   []any
		expected string
	}{
		{
			name:     "no fields",
			expected: "2025-12-06T10:45:00 [INFO] [flags] loaded\n",
		},
		{
			name:     "key value pairs",
			fields:   []any{"tokens", 3, "ignored", 1},
			expected: "2025-12-06T10:45:00 [INFO] [flags] loaded tokens=3 ignored=1\n",
		},
		{
			name:     "orphan key",
			fields:   []any{"tokens", 3, "ignored"},
			expected: "2025-12-06T10:45:00 [INFO] [flags] loaded tokens=3 ignored=<missing>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, format(ts, LevelInfo, CatFlags, "loaded", tt.fields))
		})
	}
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}

func TestNilLoggerIsNoop(t *testing.T) {
	SetOutput(nil)
	// Should not panic
	Debug(CatFlags, "nothing")
	SetEnabled(false)
	SetMinLevel(LevelError)
	SetDebugFilter(func(string) bool { return true })
}

func TestDebugFilter_GatesDebugOnly(t *testing.T) {
	buf := captureOutput(t)
	SetDebugFilter(func(tag string) bool { return tag == string(CatConfig) })

	Debug(CatFlags, "hidden")
	Debug(CatConfig, "shown")
	Info(CatFlags, "info always passes")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "[DEBUG] [config] shown")
	require.Contains(t, out, "[INFO] [flags] info always passes")
}

func TestDebugFilter_NilAllowsAll(t *testing.T) {
	buf := captureOutput(t)
	SetDebugFilter(nil)

	Debug(CatCmd, "visible")
	require.Contains(t, buf.String(), "[DEBUG] [cmd] visible")
}

func TestSetMinLevel(t *testing.T) {
	buf := captureOutput(t)
	SetMinLevel(LevelWarn)

	Info(CatCmd, "dropped")
	Warn(CatCmd, "kept")

	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "[WARN] [cmd] kept")
}

func TestSetEnabled(t *testing.T) {
	buf := captureOutput(t)
	SetEnabled(false)
	Error(CatCmd, "dropped")
	require.Empty(t, buf.String())

	SetEnabled(true)
	Error(CatCmd, "kept")
	require.Contains(t, buf.String(), "kept")
}

func TestErrorErr(t *testing.T) {
	buf := captureOutput(t)

	ErrorErr(CatConfig, "write failed", errors.New("disk full"), "path", "/tmp/x")
	ErrorErr(CatConfig, "nil error", nil)

	out := buf.String()
	require.Contains(t, out, "write failed path=/tmp/x error=disk full")
	require.Contains(t, out, "nil error error=<nil>")
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	SetOutput(nil)
	cleanup, err := Init(path)
	require.NoError(t, err)
	t.Cleanup(func() { SetOutput(nil) })

	Info(CatFlags, "to file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [flags] to file")
}

func TestInit_SamePathReusesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	SetOutput(nil)
	t.Cleanup(func() { SetOutput(nil) })

	first, err := Init(path)
	require.NoError(t, err)
	defer first()

	l := defaultLogger.Load()
	second, err := Init(path)
	require.NoError(t, err)
	require.NotNil(t, second)
	require.Same(t, l, defaultLogger.Load())
}

func TestInit_DifferentPathFails(t *testing.T) {
	dir := t.TempDir()
	SetOutput(nil)
	t.Cleanup(func() { SetOutput(nil) })

	cleanup, err := Init(filepath.Join(dir, "a.log"))
	require.NoError(t, err)
	defer cleanup()

	_, err = Init(filepath.Join(dir, "b.log"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "already writing to")
	require.Equal(t, filepath.Join(dir, "a.log"), defaultLogger.Load().path)
}

func TestInit_AfterSetOutputNilOpensNewFile(t *testing.T) {
	dir := t.TempDir()
	SetOutput(nil)
	t.Cleanup(func() { SetOutput(nil) })

	first, err := Init(filepath.Join(dir, "a.log"))
	require.NoError(t, err)
	first()
	SetOutput(nil)

	second, err := Init(filepath.Join(dir, "b.log"))
	require.NoError(t, err)
	defer second()
	require.Equal(t, filepath.Join(dir, "b.log"), defaultLogger.Load().path)
}

func TestInit_AfterCleanupOpensNewFile(t *testing.T) {
	dir := t.TempDir()
	SetOutput(nil)
	t.Cleanup(func() { SetOutput(nil) })

	first, err := Init(filepath.Join(dir, "a.log"))
	require.NoError(t, err)
	first()

	second, err := Init(filepath.Join(dir, "b.log"))
	require.NoError(t, err)
	Info(CatFlags, "second file")
	second()

	data, err := os.ReadFile(filepath.Join(dir, "b.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "second file")
}

// TestConcurrentSetOutputAndLog swaps the output while other goroutines log.
func TestConcurrentSetOutputAndLog(t *testing.T) {
	t.Cleanup(func() { SetOutput(nil) })

	var wg sync.WaitGroup
	const goroutines = 20

	for i := 0; i < goroutines; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetOutput(io.Discard)
			SetDebugFilter(func(string) bool { return true })
		}()
		go func() {
			defer wg.Done()
			Debug(CatFlags, "concurrent", "n", 1)
			Info(CatCmd, "concurrent")
		}()
	}
	wg.Wait()
}
