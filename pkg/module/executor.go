package module

import (
	"context"
	"fmt"

	"github.com/aretw0/dataflow/pkg/ports"
)

// Executor performs the computational work of a module.
// Returning an error abandons the cycle; outputs already sent stay visible.
type Executor interface {
	Execute(ctx context.Context, m *Module) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, m *Module) error

func (f ExecutorFunc) Execute(ctx context.Context, m *Module) error {
	return f(ctx, m)
}

// StateDefaulter is implemented by executors that populate default
// parameters. It is called once, right after the state is created.
type StateDefaulter interface {
	SetStateDefaults(st ports.ModuleState)
}

// Maker builds a fully concrete module.
type Maker func(c *Context) *Module

// stubExecutor stands in for modules without an implementation.
type stubExecutor struct{}

func (stubExecutor) Execute(_ context.Context, m *Module) error {
	m.Status(fmt.Sprintf("Module %s executing", m.info.ModuleName))
	return nil
}
