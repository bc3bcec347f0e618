package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/sortviz"
	"github.com/aretw0/sortviz/internal/config"
	"github.com/aretw0/sortviz/internal/logging"
	"github.com/aretw0/sortviz/internal/runtime"
	"github.com/aretw0/sortviz/pkg/adapters/file"
	"github.com/aretw0/sortviz/pkg/adapters/memory"
	"github.com/aretw0/sortviz/pkg/adapters/redis"
	"github.com/aretw0/sortviz/pkg/adapters/sqlite"
	"github.com/aretw0/sortviz/pkg/observability"
	"github.com/aretw0/sortviz/pkg/persistence/middleware"
	"github.com/aretw0/sortviz/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App bundles an engine with the resources it owns.
type App struct {
	Engine   *sortviz.Engine
	Logger   *slog.Logger
	Registry *prometheus.Registry

	closers []io.Closer
}

// NewLogger builds the process logger from the log section of the config.
func NewLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(level, logging.Format(cfg.Format)), nil
}

// NewApp initializes an engine with standard CLI conventions: the configured store
// wrapped in logging, metrics and validation middleware, logging and metrics hooks,
// and a redis locker when runs live in redis.
func NewApp(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := &App{Logger: logger, Registry: reg}

	store, locker, err := app.openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	store = middleware.Chain(store,
		middleware.NewValidationMiddleware(),
		middleware.NewMetricsMiddleware(middleware.NewStoreMetrics(reg)),
		middleware.NewLoggingMiddleware(logger),
	)

	metrics := observability.NewMetrics(reg)
	engineOpts := []sortviz.Option{
		sortviz.WithLogger(logger),
		sortviz.WithStore(store),
		sortviz.WithLifecycleHooks(observability.CombineHooks(
			observability.LoggingHooks(logger),
			metrics.Hooks(),
		)),
		sortviz.WithCountingOptions(countingOptions(cfg.Counting)...),
		sortviz.WithMaxArrayLength(cfg.Engine.MaxArrayLength),
	}
	if locker != nil {
		engineOpts = append(engineOpts,
			sortviz.WithLocker(locker),
			sortviz.WithLockTTL(cfg.Store.LockTTL),
		)
	}

	engine, err := sortviz.New(engineOpts...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	app.Engine = engine

	logger.Debug("engine ready", "store", cfg.Store.Backend, "distributed", locker != nil)
	return app, nil
}

func (a *App) openStore(cfg config.StoreConfig) (ports.RunStore, ports.DistributedLocker, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return memory.NewStore(), nil, nil
	case config.BackendFile:
		return file.New(cfg.Path), nil, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, store)
		return store, nil, nil
	case config.BackendRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix+"run:"),
			redis.WithTTL(cfg.Redis.TTL),
		)
		a.closers = append(a.closers, store)
		return store, redis.NewLocker(store.Client(), cfg.Redis.Prefix), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func countingOptions(cfg config.CountingConfig) []runtime.CountingOption {
	var opts []runtime.CountingOption
	if cfg.Min != nil && cfg.Max != nil {
		opts = append(opts, runtime.WithCounterRange(*cfg.Min, *cfg.Max))
	}
	if cfg.MaxSlots > 0 {
		opts = append(opts, runtime.WithMaxCounterSlots(cfg.MaxSlots))
	}
	return opts
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
