package dataflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/connection"
	"github.com/aretw0/dataflow/pkg/coordinator"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/factory"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/aretw0/dataflow/pkg/observability"
	"github.com/aretw0/dataflow/pkg/ports"
	"github.com/aretw0/dataflow/pkg/registry"
	"github.com/aretw0/dataflow/pkg/state"
	"go.opentelemetry.io/otel/trace"
)

// Runtime is the high-level entry point of the library.
// It owns one module.Context and wires the factory, the instance registry,
// the coordinator and the optional metrics and state store around it.
type Runtime struct {
	ctx      *module.Context
	factory  *factory.Factory
	registry *registry.Registry
	coord    *coordinator.Manager
	metrics  *observability.Metrics

	mu    sync.Mutex
	conns map[string]*connection.Connection

	store       ports.StateStore
	locker      ports.DistributedLocker
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	tracer      trace.Tracer
	stateMaker  ports.StateFactory
	sinkMaker   ports.SinkMaker
	sourceMaker ports.SourceMaker
}

// Option defines a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithLogger sets the structured logger shared by every module.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runtime) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithMetrics records executions and live instances into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// WithStore enables Checkpoint and Restore.
func WithStore(store ports.StateStore) Option {
	return func(r *Runtime) {
		r.store = store
	}
}

// WithLocker extends per-module exclusion across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(r *Runtime) {
		r.locker = locker
	}
}

// WithTracer overrides the OpenTelemetry tracer used for execution spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runtime) {
		r.tracer = t
	}
}

// WithStateFactory overrides how module states are created.
func WithStateFactory(f ports.StateFactory) Option {
	return func(r *Runtime) {
		r.stateMaker = f
	}
}

// WithTransport overrides the sink and source makers. The in-memory
// transport is used by default.
func WithTransport(sink ports.SinkMaker, source ports.SourceMaker) Option {
	return func(r *Runtime) {
		r.sinkMaker = sink
		r.sourceMaker = source
	}
}

// New initializes a Runtime with the built-in modules registered.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		registry:    registry.NewRegistry(),
		conns:       make(map[string]*connection.Connection),
		stateMaker:  state.Factory{},
		sinkMaker:   defaultSinkMaker,
		sourceMaker: defaultSourceMaker,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}

	r.coord = coordinator.NewManager(r.store,
		coordinator.WithLocker(r.locker),
		coordinator.WithLogger(r.logger),
	)

	hooks := r.hooks
	if r.metrics != nil {
		hooks = r.metrics.Hooks().Merge(hooks)
	}

	ctxOpts := []module.ContextOption{
		module.WithLogger(r.logger),
		module.WithLifecycleHooks(hooks),
		module.WithStateFactory(r.stateMaker),
		module.WithSinkMaker(r.sinkMaker),
		module.WithSourceMaker(r.sourceMaker),
		module.WithCoordinator(r.coord),
	}
	if r.tracer != nil {
		ctxOpts = append(ctxOpts, module.WithTracer(r.tracer))
	}
	r.ctx = module.NewContext(ctxOpts...)
	r.factory = factory.New(r.ctx, factory.WithLogger(r.logger))
	return r
}

// Context returns the module context owned by the runtime.
func (r *Runtime) Context() *module.Context { return r.ctx }

// Factory returns the module factory.
func (r *Runtime) Factory() *factory.Factory { return r.factory }

// Coordinator returns the lock manager serializing cycles and state edits.
func (r *Runtime) Coordinator() *coordinator.Manager { return r.coord }

// Metrics returns the configured metrics, possibly nil.
func (r *Runtime) Metrics() *observability.Metrics { return r.metrics }

// Modules returns the names the factory can build.
func (r *Runtime) Modules() []string {
	return r.factory.Names()
}

// Describe returns the description of a registered module name.
func (r *Runtime) Describe(name string) (factory.Description, error) {
	if !r.factory.Has(name) {
		return factory.Description{}, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, name)
	}
	return r.factory.LookupDescription(domain.LookupInfo{ModuleName: name}), nil
}

// Create builds a module by name and registers the instance.
func (r *Runtime) Create(ctx context.Context, name string) (*module.Module, error) {
	if !r.factory.Has(name) {
		return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, name)
	}
	m, err := r.factory.CreateByName(name)
	if err != nil {
		return nil, err
	}
	if err := r.registry.Add(m); err != nil {
		_ = m.Close()
		return nil, err
	}
	r.logger.Debug("Module instance created", "module", m.ID())
	return m, nil
}

// Instances returns the ids of the live instances, sorted.
func (r *Runtime) Instances() []string {
	return r.registry.List()
}

// Instance looks up a live instance.
func (r *Runtime) Instance(id string) (*module.Module, error) {
	return r.registry.Get(id)
}

// Remove disconnects and closes an instance.
func (r *Runtime) Remove(ctx context.Context, id string) error {
	if _, err := r.registry.Get(id); err != nil {
		return err
	}
	r.mu.Lock()
	for cid, c := range r.conns {
		if c.Output().ModuleID() == id || c.Input().ModuleID() == id {
			c.Disconnect()
			delete(r.conns, cid)
		}
	}
	r.mu.Unlock()
	return r.registry.Remove(id)
}

// Connect links output outIdx of instance from to input inIdx of instance to.
func (r *Runtime) Connect(from string, outIdx int, to string, inIdx int) (*connection.Connection, error) {
	src, err := r.registry.Get(from)
	if err != nil {
		return nil, err
	}
	dst, err := r.registry.Get(to)
	if err != nil {
		return nil, err
	}
	c, err := connection.ConnectModules(src, outIdx, dst, inIdx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.conns[c.ID()] = c
	r.mu.Unlock()
	return c, nil
}

// Disconnect removes a connection by id.
func (r *Runtime) Disconnect(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[id]
	if !ok {
		return fmt.Errorf("%w: connection %s", domain.ErrInvalidArgument, id)
	}
	c.Disconnect()
	delete(r.conns, id)
	return nil
}

// Execute runs one supervised cycle of an instance.
func (r *Runtime) Execute(ctx context.Context, id string) (domain.Outcome, error) {
	return r.registry.Execute(ctx, id)
}

// Run executes the given instances once each, in the order given.
// Failed cycles do not stop the run; the caller inspects the outcomes.
func (r *Runtime) Run(ctx context.Context, ids ...string) ([]domain.Outcome, error) {
	outcomes := make([]domain.Outcome, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		out, err := r.Execute(ctx, id)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// UpdateState applies values to an instance's state between cycles and
// returns what changed, or nil when nothing did.
func (r *Runtime) UpdateState(ctx context.Context, id string, values map[string]domain.Value) (*domain.StateDiff, error) {
	m, err := r.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return r.coord.Update(ctx, m, values)
}

// Checkpoint persists an instance's state to the configured store.
func (r *Runtime) Checkpoint(ctx context.Context, id string) error {
	m, err := r.registry.Get(id)
	if err != nil {
		return err
	}
	return r.coord.Checkpoint(ctx, m)
}

// Restore loads the saved state of snapshotID into instance id.
func (r *Runtime) Restore(ctx context.Context, snapshotID, id string) error {
	m, err := r.registry.Get(id)
	if err != nil {
		return err
	}
	return r.coord.Restore(ctx, snapshotID, m)
}

// Close disconnects everything and closes every instance.
func (r *Runtime) Close() error {
	r.mu.Lock()
	for id, c := range r.conns {
		c.Disconnect()
		delete(r.conns, id)
	}
	r.mu.Unlock()
	r.registry.CloseAll()
	return nil
}
