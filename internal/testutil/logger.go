// Package testutil provides shared test helpers: loggers bound to a test and
// a fake OctoFit backend.
package testutil

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	charmlog "github.com/charmbracelet/log"
)

// NewTestLogger returns a debug-level logger that writes to t.Log, formatted
// the same way as the CLI logger. Output appears on failure or with -v.
// Records logged by goroutines that outlive the test are dropped.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	w := &testWriter{t: t}
	t.Cleanup(w.close)
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:  charmlog.DebugLevel,
		Prefix: t.Name(),
	})
	return slog.New(handler)
}

// CaptureLogger returns a logger writing into a buffer the test can inspect.
func CaptureLogger() (*slog.Logger, *SafeBuffer) {
	buf := &SafeBuffer{}
	handler := charmlog.NewWithOptions(buf, charmlog.Options{Level: charmlog.DebugLevel})
	return slog.New(handler), buf
}

type testWriter struct {
	mu     sync.Mutex
	t      testing.TB
	closed bool
}

func (w *testWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.t.Helper()
		w.t.Log(string(bytes.TrimRight(p, "\n")))
	}
	return len(p), nil
}

func (w *testWriter) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// SafeBuffer is a bytes.Buffer safe for concurrent writers.
type SafeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns the buffered output.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
