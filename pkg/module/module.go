package module

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/datatypes"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/ports"
	"github.com/aretw0/dataflow/pkg/state"
)

// Module is one computational unit of a dataflow network.
type Module struct {
	ctx     *Context
	info    domain.LookupInfo
	id      string
	hasUI   bool
	exec    Executor
	logger  ports.Logger
	inputs  *PortManager[*InputPort]
	outputs *PortManager[*OutputPort]

	stateMu sync.RWMutex
	state   ports.ModuleState

	fpMu           sync.Mutex
	fingerprint    string
	hasFingerprint bool
	pending        string
	hasPending     bool

	closed atomic.Bool
}

// New creates a module with no ports. A nil executor yields a stub that only logs.
func New(c *Context, info domain.LookupInfo, exec Executor) *Module {
	if exec == nil {
		exec = stubExecutor{}
	}
	id := c.nextID(info.ModuleName)
	m := &Module{
		ctx:     c,
		info:    info,
		id:      id,
		hasUI:   true,
		exec:    exec,
		logger:  logging.NewModuleLogger(c.Logger(), id),
		inputs:  NewPortManager[*InputPort](),
		outputs: NewPortManager[*OutputPort](),
		state:   state.Make(c.StateFactory(), info.ModuleName),
	}
	m.inputs.SetModule(id)
	m.outputs.SetModule(id)

	if d, ok := exec.(StateDefaulter); ok {
		d.SetStateDefaults(m.state)
	}

	live := c.live.Add(1)
	if c.hooks.OnModuleCreated != nil {
		c.hooks.OnModuleCreated(context.Background(), &domain.ModuleEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventModuleCreated},
			ModuleID:   id,
			ModuleName: info.ModuleName,
			Live:       live,
		})
	}
	return m
}

// Close releases the module. The live counter is decremented exactly once.
func (m *Module) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	live := m.ctx.live.Add(-1)
	if m.ctx.hooks.OnModuleDestroyed != nil {
		m.ctx.hooks.OnModuleDestroyed(context.Background(), &domain.ModuleEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventModuleDestroyed},
			ModuleID:   m.id,
			ModuleName: m.info.ModuleName,
			Live:       live,
		})
	}
	return nil
}

func (m *Module) ID() string                         { return m.id }
func (m *Module) Info() domain.LookupInfo            { return m.info }
func (m *Module) Name() string                       { return m.info.ModuleName }
func (m *Module) HasUI() bool                        { return m.hasUI }
func (m *Module) Executor() Executor                 { return m.exec }
func (m *Module) Logger() ports.Logger               { return m.logger }
func (m *Module) NumInputPorts() int                 { return m.inputs.Size() }
func (m *Module) NumOutputPorts() int                { return m.outputs.Size() }
func (m *Module) Inputs() *PortManager[*InputPort]   { return m.inputs }
func (m *Module) Outputs() *PortManager[*OutputPort] { return m.outputs }

// InputPort returns input idx without bounds checking.
func (m *Module) InputPort(idx int) *InputPort {
	return m.inputs.At(idx)
}

// OutputPort returns output idx without bounds checking.
func (m *Module) OutputPort(idx int) *OutputPort {
	return m.outputs.At(idx)
}

// InputHandle returns the data buffered on input idx.
// No upstream data is not an error: ok is false. An index past the last
// input fails with domain.ErrPortNotFound.
func (m *Module) InputHandle(idx int) (h datatypes.Handle, ok bool, err error) {
	if !m.inputs.inRange(idx) {
		return nil, false, fmt.Errorf("%w: input %d of module %s (%d inputs)",
			domain.ErrPortNotFound, idx, m.id, m.inputs.Size())
	}
	h, ok = m.inputs.At(idx).GetData()
	return h, ok, nil
}

// SendOutputHandle publishes h on output idx. An index past the last
// output fails with domain.ErrInvalidArgument.
func (m *Module) SendOutputHandle(idx int, h datatypes.Handle) error {
	if !m.outputs.inRange(idx) {
		return fmt.Errorf("%w: output %d of module %s (%d outputs)",
			domain.ErrInvalidArgument, idx, m.id, m.outputs.Size())
	}
	m.outputs.At(idx).SendData(h)
	return nil
}

// GetRequiredInput is InputHandle where missing data is a NoData execution error.
func (m *Module) GetRequiredInput(idx int) (datatypes.Handle, error) {
	h, ok, err := m.InputHandle(idx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewExecutionError(domain.CategoryNoData,
			"input %q of module %s has no data", m.inputs.At(idx).Name(), m.id)
	}
	return h, nil
}

// GetOptionalInput is InputHandle under the name module code reads best.
func (m *Module) GetOptionalInput(idx int) (datatypes.Handle, bool, error) {
	return m.InputHandle(idx)
}

// RequiredInput reads input idx as a T. A handle of another type is a
// WrongDatatype execution error.
func RequiredInput[T datatypes.Handle](m *Module, idx int) (T, error) {
	var zero T
	h, err := m.GetRequiredInput(idx)
	if err != nil {
		return zero, err
	}
	typed, ok := h.(T)
	if !ok {
		return zero, domain.NewExecutionError(domain.CategoryWrongDatatype,
			"input %q of module %s carries %s", m.inputs.At(idx).Name(), m.id, h.TypeName())
	}
	return typed, nil
}

// State returns the shared state.
func (m *Module) State() ports.ModuleState {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

// SetState replaces the shared state. nil installs a Null state.
func (m *Module) SetState(st ports.ModuleState) {
	if st == nil {
		st = state.Null{}
	}
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.state = st
}

func (m *Module) Status(msg string, args ...any)  { m.logger.Status(msg, args...) }
func (m *Module) Warning(msg string, args ...any) { m.logger.Warning(msg, args...) }
func (m *Module) Error(msg string, args ...any)   { m.logger.Error(msg, args...) }
