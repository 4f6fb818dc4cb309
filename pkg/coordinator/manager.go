package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/aretw0/dataflow/pkg/ports"
	"github.com/aretw0/dataflow/pkg/state"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates access to module instances.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.StateStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

var _ ports.Coordinator = (*Manager)(nil)

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager. store may be nil when checkpoints are not needed.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the lock for key.
// The lock is not reentrant: fn must not call WithLock for the same key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"module", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// ErrNoStore is returned by checkpoint operations on a Manager without a store.
var ErrNoStore = errors.New("coordinator has no state store")

// Checkpoint saves the state of mod.
func (m *Manager) Checkpoint(ctx context.Context, mod *module.Module) error {
	if m.store == nil {
		return ErrNoStore
	}
	return m.WithLock(ctx, mod.ID(), func(ctx context.Context) error {
		snap := state.Snapshot(mod.ID(), mod.Name(), mod.State())
		snap.SavedAt = time.Now().UTC()
		return m.store.Save(ctx, mod.ID(), snap)
	})
}

// Restore applies the saved state of id onto mod. It returns
// domain.ErrSnapshotNotFound when nothing was saved.
func (m *Manager) Restore(ctx context.Context, id string, mod *module.Module) error {
	if m.store == nil {
		return ErrNoStore
	}
	return m.WithLock(ctx, mod.ID(), func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if snap.ModuleName != "" && snap.ModuleName != mod.Name() {
			return fmt.Errorf("%w: snapshot of %s cannot restore %s", domain.ErrInvalidArgument, snap.ModuleName, mod.Name())
		}
		st := mod.State()
		for _, k := range sortedKeys(snap.Values) {
			st.SetValue(k, snap.Values[k])
		}
		return nil
	})
}

// Update applies values to the state of mod between cycles and returns what
// changed. Both snapshots are taken under the module lock.
// A nil diff means nothing changed.
func (m *Manager) Update(ctx context.Context, mod *module.Module, values map[string]domain.Value) (*domain.StateDiff, error) {
	var diff *domain.StateDiff
	err := m.WithLock(ctx, mod.ID(), func(ctx context.Context) error {
		st := mod.State()
		before := state.Snapshot(mod.ID(), mod.Name(), st)
		for _, k := range sortedKeys(values) {
			st.SetValue(k, values[k])
		}
		diff = domain.Diff(before, state.Snapshot(mod.ID(), mod.Name(), st))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return diff, nil
}

// Forget deletes the saved state of id.
func (m *Manager) Forget(ctx context.Context, id string) error {
	if m.store == nil {
		return ErrNoStore
	}
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// Store returns the underlying state store, possibly nil.
func (m *Manager) Store() ports.StateStore {
	return m.store
}
