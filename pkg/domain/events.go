package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModuleCreated   EventType = "module_created"
	EventModuleDestroyed EventType = "module_destroyed"
	EventExecuteStart    EventType = "execute_start"
	EventExecuteFinish   EventType = "execute_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ModuleEvent represents construction or destruction of a module instance.
type ModuleEvent struct {
	EventBase
	ModuleID   string `json:"module_id"`
	ModuleName string `json:"module_name"`
	Live       int64  `json:"live"` // Live instance count after the event
}

// ExecuteEvent represents the start or end of an execution cycle.
type ExecuteEvent struct {
	EventBase
	ModuleID   string   `json:"module_id"`
	ModuleName string   `json:"module_name"`
	CycleID    string   `json:"cycle_id"`
	Outcome    *Outcome `json:"outcome,omitempty"` // Set on finish only
}

// LifecycleHooks defines callbacks for runtime observability.
type LifecycleHooks struct {
	OnModuleCreated   func(context.Context, *ModuleEvent)
	OnModuleDestroyed func(context.Context, *ModuleEvent)
	OnExecuteStart    func(context.Context, *ExecuteEvent)
	OnExecuteFinish   func(context.Context, *ExecuteEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnModuleCreated:   chain(h.OnModuleCreated, other.OnModuleCreated),
		OnModuleDestroyed: chain(h.OnModuleDestroyed, other.OnModuleDestroyed),
		OnExecuteStart:    chain(h.OnExecuteStart, other.OnExecuteStart),
		OnExecuteFinish:   chain(h.OnExecuteFinish, other.OnExecuteFinish),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
