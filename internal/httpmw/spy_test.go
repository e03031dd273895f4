package httpmw

import (
	"context"
	"sync"
	"testing"

	"github.com/ooyeku/httpkit/internal/log"
)

// spyLogger records every emitted entry for assertions.
type spyLogger struct {
	mu      sync.Mutex
	entries []spyEntry
}

type spyEntry struct {
	level string
	msg   string
	err   error
	kv    []any
}

func (s *spyLogger) record(level, msg string, err error, kv []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, spyEntry{level: level, msg: msg, err: err, kv: kv})
}

func (s *spyLogger) With(kv ...any) log.Logger { return s }

func (s *spyLogger) Debug(_ context.Context, msg string, kv ...any) { s.record("debug", msg, nil, kv) }
func (s *spyLogger) Info(_ context.Context, msg string, kv ...any)  { s.record("info", msg, nil, kv) }
func (s *spyLogger) Warn(_ context.Context, msg string, kv ...any)  { s.record("warn", msg, nil, kv) }
func (s *spyLogger) Error(_ context.Context, err error, msg string, kv ...any) {
	s.record("error", msg, err, kv)
}
func (s *spyLogger) Sync() error { return nil }

func (s *spyLogger) all() []spyEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]spyEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *spyLogger) field(e spyEntry, key string) (any, bool) {
	for i := 0; i+1 < len(e.kv); i += 2 {
		if k, ok := e.kv[i].(string); ok && k == key {
			return e.kv[i+1], true
		}
	}
	return nil, false
}

// resetState clears the process-wide logger/config slots after a test.
func resetState(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		loggerMu.Lock()
		activeLogger = nil
		loggerMu.Unlock()
		configMu.Lock()
		activeConfig = nil
		configMu.Unlock()
	})
}
