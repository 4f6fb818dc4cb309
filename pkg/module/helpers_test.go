package module_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/adapters/memory"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/aretw0/dataflow/pkg/state"
)

// syncBuffer lets several goroutines log into one buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestContext returns a Context with in-memory transport and a captured log.
func newTestContext(t *testing.T, opts ...module.ContextOption) (*module.Context, *syncBuffer) {
	t.Helper()
	logs := &syncBuffer{}
	base := []module.ContextOption{
		module.WithLogger(logging.NewWithWriter(logs, slog.LevelDebug)),
		module.WithSinkMaker(memory.NewSink),
		module.WithSourceMaker(memory.NewSource),
		module.WithStateFactory(state.Factory{}),
	}
	return module.NewContext(append(base, opts...)...), logs
}
