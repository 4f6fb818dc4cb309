package module

import (
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/dataflow/pkg/module"

// Context is the composition root shared by every module of a runtime.
// Configure it before the first module is built; the setters are safe for
// concurrent use but a module only sees the makers installed when it was built.
type Context struct {
	serial atomic.Uint64
	live   atomic.Int64

	mu           sync.RWMutex
	logger       *slog.Logger
	sinkMaker    ports.SinkMaker
	sourceMaker  ports.SourceMaker
	stateFactory ports.StateFactory
	hooks        domain.LifecycleHooks
	tracer       trace.Tracer
	coordinator  ports.Coordinator
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLogger sets the base logger handed to modules.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithSinkMaker installs the input transport factory.
func WithSinkMaker(m ports.SinkMaker) ContextOption {
	return func(c *Context) {
		c.sinkMaker = m
	}
}

// WithSourceMaker installs the output transport factory.
func WithSourceMaker(m ports.SourceMaker) ContextOption {
	return func(c *Context) {
		c.sourceMaker = m
	}
}

// WithStateFactory installs the state factory. Without one, modules get a Null state.
func WithStateFactory(f ports.StateFactory) ContextOption {
	return func(c *Context) {
		c.stateFactory = f
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ContextOption {
	return func(c *Context) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithTracer sets the tracer used for execution spans.
func WithTracer(t trace.Tracer) ContextOption {
	return func(c *Context) {
		c.tracer = t
	}
}

// WithCoordinator serializes execution cycles per module id.
func WithCoordinator(coord ports.Coordinator) ContextOption {
	return func(c *Context) {
		c.coordinator = coord
	}
}

// NewContext creates a Context. The default logger writes to stderr.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.New(slog.LevelInfo)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	return c
}

// UseSinkType replaces the maker used for input ports built from now on.
func (c *Context) UseSinkType(m ports.SinkMaker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinkMaker = m
}

// UseSourceType replaces the maker used for output ports built from now on.
func (c *Context) UseSourceType(m ports.SourceMaker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sourceMaker = m
}

// SetStateFactory replaces the factory used for modules built from now on.
func (c *Context) SetStateFactory(f ports.StateFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateFactory = f
}

// StateFactory returns the installed state factory, possibly nil.
func (c *Context) StateFactory() ports.StateFactory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stateFactory
}

// Logger returns the base logger.
func (c *Context) Logger() *slog.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// LiveModules returns the number of modules built and not yet closed.
func (c *Context) LiveModules() int64 {
	return c.live.Load()
}

func (c *Context) newSink() ports.DataSink {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sinkMaker == nil {
		return nil
	}
	return c.sinkMaker()
}

func (c *Context) newSource() ports.DataSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sourceMaker == nil {
		return nil
	}
	return c.sourceMaker()
}

// nextID returns name followed by a process-unique serial. Serials are never reused.
// A name ending in a digit or in the separator gets a "." before the serial,
// so every id splits back into exactly one (name, serial) pair.
func (c *Context) nextID(name string) string {
	n := strconv.FormatUint(c.serial.Add(1)-1, 10)
	if name != "" {
		if last := name[len(name)-1]; (last >= '0' && last <= '9') || last == idSeparator {
			return name + string(idSeparator) + n
		}
	}
	return name + n
}

const idSeparator = '.'
