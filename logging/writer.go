package logging

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap/zapcore"
)

// levelWriter implements io.Writer and zapcore.WriteSyncer for a single
// log level. It writes to stdout, or stderr for warn level and above.
// Rotating and retaining persisted logs is a deployment concern for the
// application embedding this module, not the kernel.
type levelWriter struct {
	config Config
	level  string
	mu     sync.Mutex
	out    *os.File
}

// newLevelWriter creates a new levelWriter for the given config and level.
func newLevelWriter(config Config, level string) *levelWriter {
	out := os.Stdout
	switch level {
	case "warn", "error", "dpanic", "panic", "fatal":
		out = os.Stderr
	}
	return &levelWriter{config: config, level: level, out: out}
}

// Write implements io.Writer.
func (w *levelWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Write(p)
}

// Sync implements zapcore.WriteSyncer.
func (w *levelWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Sync()
}

// Close implements io.Closer. stdout/stderr are never actually closed.
func (w *levelWriter) Close() error {
	return nil
}

// getWriteSyncer creates a zapcore.WriteSyncer for the given config and
// level. LogInTerminal no longer toggles a file sink: the writer always
// targets the process's own stdout/stderr.
func getWriteSyncer(config Config, level string) zapcore.WriteSyncer {
	return zapcore.AddSync(newLevelWriter(config, level))
}

// multiLevelWriter wraps multiple levelWriters for cleanup.
type multiLevelWriter struct {
	writers []*levelWriter
}

// Close closes all level writers.
func (m *multiLevelWriter) Close() error {
	var lastErr error
	for _, w := range m.writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// writerRegistry tracks all created levelWriters for cleanup.
var (
	writerRegistry   = &multiLevelWriter{}
	writerRegistryMu sync.Mutex
)

// registerWriter registers a levelWriter for cleanup.
func registerWriter(w *levelWriter) {
	writerRegistryMu.Lock()
	defer writerRegistryMu.Unlock()
	writerRegistry.writers = append(writerRegistry.writers, w)
}

// CloseAllWriters closes all registered writers.
func CloseAllWriters() error {
	writerRegistryMu.Lock()
	defer writerRegistryMu.Unlock()
	return writerRegistry.Close()
}

// getWriteSyncerWithRegistry creates a WriteSyncer and registers its levelWriter for cleanup.
func getWriteSyncerWithRegistry(config Config, level string) zapcore.WriteSyncer {
	w := newLevelWriter(config, level)
	registerWriter(w)
	return zapcore.AddSync(w)
}

// Ensure levelWriter implements io.WriteCloser
var _ io.WriteCloser = (*levelWriter)(nil)
