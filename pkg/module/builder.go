package module

import "github.com/aretw0/dataflow/pkg/domain"

// Builder assembles one module and its ports.
// It is single-use: once a module exists, WithName and UsingFunc are no-ops
// and Build keeps returning the same instance.
type Builder struct {
	ctx    *Context
	module *Module
}

// NewBuilder returns a Builder drawing makers and state from c.
func NewBuilder(c *Context) *Builder {
	return &Builder{ctx: c}
}

// WithName creates a placeholder module called name, unless one exists.
// The placeholder only logs when executed.
func (b *Builder) WithName(name string) *Builder {
	return b.WithInfo(domain.LookupInfo{ModuleName: name})
}

// WithInfo is WithName keeping the category and package.
func (b *Builder) WithInfo(info domain.LookupInfo) *Builder {
	if b.module == nil {
		b.module = New(b.ctx, info, nil)
	}
	return b
}

// UsingFunc creates the module with create, unless one exists.
func (b *Builder) UsingFunc(create Maker) *Builder {
	if b.module == nil && create != nil {
		b.module = create(b.ctx)
	}
	return b
}

// AddInputPort attaches an input built with the current sink maker.
func (b *Builder) AddInputPort(desc domain.PortDescription) *Builder {
	if b.module != nil {
		b.module.inputs.Add(NewInputPort(desc, b.ctx.newSink()))
	}
	return b
}

// AddOutputPort attaches an output built with the current source maker.
func (b *Builder) AddOutputPort(desc domain.PortDescription) *Builder {
	if b.module != nil {
		b.module.outputs.Add(NewOutputPort(desc, b.ctx.newSource()))
	}
	return b
}

// DisableUI marks the module as having no configuration dialog.
func (b *Builder) DisableUI() *Builder {
	if b.module != nil {
		b.module.hasUI = false
	}
	return b
}

// Build returns the assembled module, or nil when none was created.
func (b *Builder) Build() *Module {
	return b.module
}
