package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/state"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by Store.
const DefaultPrefix = "dataflow:state:"

// Store implements ports.StateStore using Redis.
// Snapshots are encoded with msgpack unless WithFormat says otherwise.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	format state.Format
}

type Option func(*Store)

// WithTTL sets the expiration for snapshots.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for snapshots.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithFormat selects the snapshot encoding.
func WithFormat(f state.Format) Option {
	return func(s *Store) {
		s.format = f
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		format: state.FormatMsgpack,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(moduleID string) string {
	return s.prefix + moduleID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the snapshot to Redis.
func (s *Store) Save(ctx context.Context, moduleID string, snapshot *domain.StateSnapshot) error {
	data, err := state.Marshal(s.format, snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(moduleID), data, s.ttl)

	// Index score is the expiry time; entries without TTL never expire.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: moduleID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the snapshot from Redis.
func (s *Store) Load(ctx context.Context, moduleID string) (*domain.StateSnapshot, error) {
	val, err := s.client.Get(ctx, s.key(moduleID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	snap, err := state.Unmarshal(s.format, val)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, moduleID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(moduleID))
	pipe.ZRem(ctx, s.indexKey(), moduleID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the ids with a live snapshot, pruning expired index entries.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired snapshots: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
