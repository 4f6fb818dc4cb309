package factory

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/aretw0/dataflow/pkg/ports"
	"github.com/go-playground/validator/v10"
)

// Description is everything needed to build one module.
// It is immutable once returned by LookupDescription.
type Description struct {
	Info        domain.LookupInfo        `json:"info"`
	InputPorts  []domain.PortDescription `json:"input_ports" validate:"dive"`
	OutputPorts []domain.PortDescription `json:"output_ports" validate:"dive"`
	Maker       module.Maker             `json:"-"`
}

// HasMaker reports whether a concrete implementation exists.
func (d Description) HasMaker() bool {
	return d.Maker != nil
}

// Entry is one row of the table.
type Entry struct {
	InputPorts  []domain.PortDescription
	OutputPorts []domain.PortDescription
	Maker       module.Maker
	// PostBuild runs on the builder before Build, e.g. to disable the UI.
	PostBuild func(b *module.Builder)
}

// Factory creates modules by name.
type Factory struct {
	ctx      *module.Context
	logger   *slog.Logger
	validate *validator.Validate

	mu      sync.RWMutex
	entries map[string]Entry
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger used for lookup notes.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithoutBuiltins starts from an empty table.
func WithoutBuiltins() Option {
	return func(f *Factory) {
		f.entries = make(map[string]Entry)
	}
}

// New creates a Factory building into c, preloaded with the built-in modules.
func New(c *module.Context, opts ...Option) *Factory {
	f := &Factory{
		ctx:      c,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		entries:  Builtins(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logging.NewNop()
	}
	return f
}

// Register adds or replaces the entry for name.
func (f *Factory) Register(name string, e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[name] = e
}

// Names returns the registered module names, sorted.
func (f *Factory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.entries))
	for name := range f.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is in the table.
func (f *Factory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.entries[name]
	return ok
}

// LookupDescription returns the description of info.ModuleName.
// An unknown name yields empty port lists and no maker.
func (f *Factory) LookupDescription(info domain.LookupInfo) Description {
	desc := Description{Info: info}

	f.mu.RLock()
	e, ok := f.entries[info.ModuleName]
	f.mu.RUnlock()
	if !ok {
		f.logger.Info("NOTE: module does not have any ports defined yet", "module", info.ModuleName)
		return desc
	}

	desc.InputPorts = append([]domain.PortDescription(nil), e.InputPorts...)
	desc.OutputPorts = append([]domain.PortDescription(nil), e.OutputPorts...)
	desc.Maker = e.Maker
	return desc
}

// Create builds a module from desc. Ports are added in declaration order.
func (f *Factory) Create(desc Description) (*module.Module, error) {
	if err := f.validate.Struct(desc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArgument, desc.Info.ModuleName, err)
	}

	b := module.NewBuilder(f.ctx)
	if desc.Maker != nil {
		b.UsingFunc(desc.Maker)
	} else {
		b.WithInfo(desc.Info)
	}
	for _, in := range desc.InputPorts {
		b.AddInputPort(in)
	}
	for _, out := range desc.OutputPorts {
		b.AddOutputPort(out)
	}

	f.mu.RLock()
	e, ok := f.entries[desc.Info.ModuleName]
	f.mu.RUnlock()
	if ok && e.PostBuild != nil {
		e.PostBuild(b)
	}

	m := b.Build()
	if m == nil {
		return nil, fmt.Errorf("%w: maker for %s returned no module", domain.ErrInvalidArgument, desc.Info.ModuleName)
	}
	return m, nil
}

// CreateByName is LookupDescription followed by Create.
func (f *Factory) CreateByName(name string) (*module.Module, error) {
	return f.Create(f.LookupDescription(domain.LookupInfo{ModuleName: name}))
}

// SetStateFactory installs the state factory used for modules created from now on.
func (f *Factory) SetStateFactory(sf ports.StateFactory) {
	f.ctx.SetStateFactory(sf)
}

// Context returns the module context the factory builds into.
func (f *Factory) Context() *module.Context {
	return f.ctx
}
