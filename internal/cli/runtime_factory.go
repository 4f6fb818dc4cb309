package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/dataflow"
	"github.com/aretw0/dataflow/internal/config"
	"github.com/aretw0/dataflow/pkg/adapters/file"
	"github.com/aretw0/dataflow/pkg/adapters/memory"
	"github.com/aretw0/dataflow/pkg/adapters/redis"
	"github.com/aretw0/dataflow/pkg/observability"
	"github.com/aretw0/dataflow/pkg/persistence/middleware"
	"github.com/aretw0/dataflow/pkg/ports"
	"github.com/aretw0/dataflow/pkg/state"
)

// Runtime bundles a runtime with the resources the CLI must release.
type Runtime struct {
	*dataflow.Runtime
	Metrics *observability.Metrics
	closers []func() error
}

// Close releases the runtime and every backing client.
func (r *Runtime) Close() error {
	err := r.Runtime.Close()
	for _, c := range r.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// NewRuntime builds a runtime following the CLI configuration conventions:
// the store kind selects the snapshot backend, redis.lock enables the
// distributed module lock and metrics.enabled wires Prometheus.
func NewRuntime(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{}
	opts := []dataflow.Option{dataflow.WithLogger(logger)}

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		opts = append(opts, dataflow.WithLifecycleHooks(createDebugHooks(logger)))
	}

	format, err := state.ParseFormat(cfg.Store.Format)
	if err != nil {
		return nil, err
	}

	var (
		store      ports.StateStore
		redisStore *redis.Store
	)
	switch cfg.Store.Kind {
	case "memory":
		store = memory.NewStore()
	case "file":
		store = file.New(cfg.Store.Dir, file.WithFormat(format))
	case "redis":
		redisStore = newRedisStore(cfg)
		store = redisStore
	default:
		return nil, fmt.Errorf("%w: store.kind %q", config.ErrInvalid, cfg.Store.Kind)
	}

	mws, err := storeMiddlewares(cfg.Store)
	if err != nil {
		return nil, err
	}
	opts = append(opts, dataflow.WithStore(middleware.Chain(store, mws...)))

	if cfg.Redis.Lock {
		if redisStore == nil {
			redisStore = newRedisStore(cfg)
		}
		opts = append(opts, dataflow.WithLocker(redis.NewLocker(redisStore.Client(), cfg.Redis.Prefix)))
	}
	if redisStore != nil {
		rt.closers = append(rt.closers, redisStore.Close)
	}

	if cfg.Metrics.Enabled {
		rt.Metrics = observability.NewMetrics()
		opts = append(opts, dataflow.WithMetrics(rt.Metrics))
	}

	rt.Runtime = dataflow.New(opts...)
	return rt, nil
}

// storeMiddlewares masks before it encrypts, so masked keys never reach the ciphertext.
func storeMiddlewares(cfg config.StoreConf) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Mask) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Mask)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	key, err := cfg.Key()
	if err != nil {
		return nil, err
	}
	if key != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return mws, nil
}

func newRedisStore(cfg config.Config) *redis.Store {
	return redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		redis.WithPrefix(cfg.Redis.Prefix),
		redis.WithTTL(cfg.Redis.TTL),
	)
}
