package module

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DoExecute runs one supervised execution cycle.
//
// Outputs are reset, then inputs, then the executor runs. Any error or
// panic raised by the executor is classified, logged and reported in the
// returned Outcome; DoExecute itself never panics. Input buffers are
// cleared again before returning, whatever the executor did.
func (m *Module) DoExecute(ctx context.Context) domain.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	out := domain.Outcome{
		CycleID:  uuid.NewString(),
		ModuleID: m.id,
		Status:   domain.StatusCompleted,
		Started:  time.Now(),
	}

	ctx, span := m.ctx.tracer.Start(ctx, "module.execute",
		trace.WithAttributes(
			attribute.String("module.id", m.id),
			attribute.String("module.name", m.info.ModuleName),
			attribute.String("module.cycle_id", out.CycleID),
		),
	)
	defer span.End()

	m.emitExecute(ctx, m.ctx.hooks.OnExecuteStart, domain.EventExecuteStart, out.CycleID, nil)
	m.logger.Status("Module execution starting", "cycle", out.CycleID)

	var failure *domain.Failure
	if coord := m.ctx.coordinator; coord != nil {
		err := coord.WithLock(ctx, m.id, func(ctx context.Context) error {
			failure = m.runCycle(ctx)
			return nil
		})
		if err != nil {
			failure = classifyError(fmt.Errorf("acquire module lock: %w", err))
		}
	} else {
		failure = m.runCycle(ctx)
	}

	out.Duration = time.Since(out.Started)
	if failure != nil {
		out.Status = domain.StatusFailed
		out.Failure = failure
		m.logger.Error("Module execution failed",
			"cycle", out.CycleID,
			"kind", string(failure.Kind),
			"category", failure.Category,
			"error", failure.Message,
		)
		span.SetAttributes(attribute.String("module.failure_kind", string(failure.Kind)))
		span.SetStatus(codes.Error, failure.Message)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	m.logger.Status("Module execution finished", "cycle", out.CycleID, "status", string(out.Status), "duration", out.Duration)
	m.emitExecute(ctx, m.ctx.hooks.OnExecuteFinish, domain.EventExecuteFinish, out.CycleID, &out)
	return out
}

// runCycle is the containment boundary.
func (m *Module) runCycle(ctx context.Context) (failure *domain.Failure) {
	m.fpMu.Lock()
	m.hasPending = false
	m.fpMu.Unlock()

	m.outputs.ResetAll()
	m.inputs.ResetAll()
	defer m.inputs.ResetAll()

	defer func() {
		if r := recover(); r != nil {
			failure = classifyPanic(r)
		}
	}()

	if err := m.exec.Execute(ctx, m); err != nil {
		return classifyError(err)
	}

	m.fpMu.Lock()
	if m.hasPending {
		m.fingerprint, m.hasFingerprint = m.pending, true
	}
	m.fpMu.Unlock()
	return nil
}

func (m *Module) emitExecute(ctx context.Context, hook func(context.Context, *domain.ExecuteEvent), typ domain.EventType, cycleID string, out *domain.Outcome) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.ExecuteEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: typ},
		ModuleID:   m.id,
		ModuleName: m.info.ModuleName,
		CycleID:    cycleID,
		Outcome:    out,
	})
}

// NeedToExecute reports whether the current inputs or the given state keys
// differ from the last successful cycle. A module that never completed a
// cycle always needs to execute.
func (m *Module) NeedToExecute(keys ...string) bool {
	var b strings.Builder
	for i := 0; i < m.inputs.Size(); i++ {
		if h, ok := m.inputs.At(i).GetData(); ok {
			fmt.Fprintf(&b, "in%d=%s#%d;", i, h.TypeName(), h.ID())
		} else {
			fmt.Fprintf(&b, "in%d=-;", i)
		}
	}
	keys = append([]string(nil), keys...)
	sort.Strings(keys)
	st := m.State()
	for _, k := range keys {
		if v, ok := st.Value(k); ok {
			fmt.Fprintf(&b, "%s=%s:%s;", k, v.Kind(), v.String())
		} else {
			fmt.Fprintf(&b, "%s=-;", k)
		}
	}
	fp := b.String()

	m.fpMu.Lock()
	defer m.fpMu.Unlock()
	m.pending, m.hasPending = fp, true
	return !m.hasFingerprint || m.fingerprint != fp
}

func classifyError(err error) *domain.Failure {
	var execErr *domain.ExecutionError
	switch {
	case errors.Is(err, domain.ErrAllocation):
		return &domain.Failure{Kind: domain.FailureAllocation, Message: err.Error()}
	case errors.As(err, &execErr):
		return &domain.Failure{Kind: domain.FailureDomain, Category: execErr.Category, Message: execErr.Message}
	default:
		return &domain.Failure{Kind: domain.FailureRuntime, Message: err.Error()}
	}
}

func classifyPanic(r any) *domain.Failure {
	switch v := r.(type) {
	case runtime.Error:
		if isAllocationPanic(v) {
			return &domain.Failure{Kind: domain.FailureAllocation, Message: v.Error()}
		}
		return &domain.Failure{Kind: domain.FailureRuntime, Message: v.Error()}
	case error:
		return classifyError(v)
	default:
		return &domain.Failure{Kind: domain.FailureUnhandled, Message: fmt.Sprint(v)}
	}
}

func isAllocationPanic(err runtime.Error) bool {
	msg := err.Error()
	for _, marker := range []string{"out of memory", "makeslice: len out of range", "makeslice: cap out of range", "makechan: size out of range", "makemap: size out of range"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
