package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/dataflow/pkg/domain"
	"golang.org/x/term"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext it remembers which signal fired.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ParseAssignments turns ["k=v", ...] into state values. Integers, floats
// and booleans are recognized; a double-quoted value is always a string.
func ParseAssignments(args []string) (map[string]domain.Value, error) {
	out := make(map[string]domain.Value, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", domain.ErrInvalidArgument, arg)
		}
		out[key] = parseScalar(raw)
	}
	return out, nil
}

func parseScalar(raw string) domain.Value {
	if s, err := strconv.Unquote(raw); err == nil && strings.HasPrefix(raw, `"`) {
		return domain.StringValue(s)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return domain.IntValue(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return domain.FloatValue(f)
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return domain.BoolValue(b)
	}
	return domain.StringValue(raw)
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModuleCreated: func(ctx context.Context, e *domain.ModuleEvent) {
			logger.Debug("Module Created", "module", e.ModuleID, "live", e.Live)
		},
		OnModuleDestroyed: func(ctx context.Context, e *domain.ModuleEvent) {
			logger.Debug("Module Destroyed", "module", e.ModuleID, "live", e.Live)
		},
		OnExecuteStart: func(ctx context.Context, e *domain.ExecuteEvent) {
			logger.Debug("Execute Start", "module", e.ModuleID, "cycle", e.CycleID)
		},
		OnExecuteFinish: func(ctx context.Context, e *domain.ExecuteEvent) {
			if e.Outcome != nil && e.Outcome.Failed() {
				logger.Debug("Execute Finish (Failed)", "module", e.ModuleID, "cycle", e.CycleID, "kind", e.Outcome.Failure.Kind)
			} else {
				logger.Debug("Execute Finish", "module", e.ModuleID, "cycle", e.CycleID)
			}
		},
	}
}
