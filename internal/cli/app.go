package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/internal/config"
	"github.com/aretw0/vine/pkg/adapters/fact"
	"github.com/aretw0/vine/pkg/adapters/file"
	"github.com/aretw0/vine/pkg/adapters/identity"
	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/adapters/redis"
	"github.com/aretw0/vine/pkg/counter"
	"github.com/aretw0/vine/pkg/counters"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/inventory"
	"github.com/aretw0/vine/pkg/observability"
	"github.com/aretw0/vine/pkg/persistence/middleware"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/runner"
	"github.com/aretw0/vine/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Backend is the snapshot store selected by configuration, wrapped in the
// configured middlewares, plus the resources it holds open.
type Backend struct {
	Snapshots ports.SnapshotStore
	// Locker is set for shared backends only.
	Locker  ports.DistributedLocker
	closers []io.Closer
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// OpenBackend builds the snapshot store for cfg. Redis is pinged so a bad
// address fails here rather than on the first save.
func OpenBackend(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	b := &Backend{}

	var store ports.SnapshotStore
	switch cfg.Backend {
	case config.BackendMemory:
		store = memory.NewStore()
	case config.BackendFile:
		store = file.New(cfg.Path)
	case config.BackendRedis:
		opts := []redis.Option{redis.WithTTL(cfg.TTL)}
		if cfg.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Prefix))
		}
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		store = rs
		b.Locker = redis.NewLocker(rs.Client(), rs.Prefix())
		b.closers = append(b.closers, rs)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	// Masking runs before encryption so it still sees plain fields.
	var mws []middleware.Middleware
	if len(cfg.MaskFields) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.MaskFields))
	}
	if cfg.EncryptionKey != "" {
		enc, err := encryptionConfig(cfg)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(enc))
	}
	b.Snapshots = middleware.Chain(store, mws...)
	return b, nil
}

func encryptionConfig(cfg config.StoreConfig) (middleware.EncryptionConfig, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return middleware.EncryptionConfig{}, fmt.Errorf("store.encryption_key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range cfg.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return middleware.EncryptionConfig{}, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return enc, nil
}

// FactHandler returns the handler behind counter.FactEffectName.
func FactHandler(cfg config.FactConfig) (ports.EffectHandler, error) {
	if cfg.Offline {
		return fact.Offline{}, nil
	}
	client, err := fact.NewClient(cfg.BaseURL,
		fact.WithTimeout(cfg.Timeout),
		fact.WithRetry(cfg.Attempts, cfg.Backoff),
	)
	if err != nil {
		return nil, fmt.Errorf("fact client: %w", err)
	}
	return client, nil
}

// RunnerOptions configures every session's runner from cfg.
func RunnerOptions(cfg config.Config, logger *slog.Logger) ([]runner.Option, error) {
	handler, err := FactHandler(cfg.Fact)
	if err != nil {
		return nil, err
	}
	opts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithHandler(counter.FactEffectName, handler),
		runner.WithTickInterval(cfg.Runtime.TickInterval),
		runner.WithTimeout(cfg.Runtime.Timeout),
	}
	if len(cfg.Runtime.AllowEffects) > 0 {
		opts = append(opts, runner.WithInterceptor(runner.AllowOnly(cfg.Runtime.AllowEffects...)))
	}
	return opts, nil
}

// App is a configured session host ready to be put behind a transport.
type App struct {
	Host     session.Host
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	backend *Backend
}

// NewApp wires the feature named by cfg.Feature to its backend, runner,
// logging and metrics.
func NewApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	runnerOpts, err := RunnerOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	backend, err := OpenBackend(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(cfg.Store.LockTTL),
		session.WithExecutorFactory(func() ports.Executor {
			return runner.New(runnerOpts...)
		}),
		session.WithStoreOptions(
			vine.WithLogger(logger),
			vine.WithLifecycleHooks(observability.Combine(
				metrics.Hooks(cfg.Feature),
				observability.LogHooks(logger),
			)),
		),
	}
	if backend.Locker != nil {
		opts = append(opts, session.WithLocker(backend.Locker))
	}

	host, err := newHost(cfg.Feature, backend.Snapshots, opts)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	app := &App{
		Host:     &trackedHost{Host: host, metrics: metrics, logger: logger},
		Registry: reg,
		Metrics:  metrics,
		Logger:   logger,
		backend:  backend,
	}
	app.Host.(*trackedHost).refresh(ctx)
	return app, nil
}

// Close stops every session, then the backend.
func (a *App) Close() error {
	return errors.Join(a.Host.Close(), a.backend.Close())
}

func newHost(feature string, snapshots ports.SnapshotStore, opts []session.Option) (session.Host, error) {
	ids := identity.UUID()
	switch feature {
	case "inventory":
		return session.NewManager(inventory.Feature(ids), snapshots, opts...).Host(), nil
	case "counter":
		return session.NewManager(counter.Feature(ids), snapshots, opts...).Host(), nil
	case "counters":
		return session.NewManager(counters.Feature(ids), snapshots, opts...).Host(), nil
	}
	return nil, fmt.Errorf("unknown feature %q", feature)
}

// trackedHost keeps the sessions gauge current.
type trackedHost struct {
	session.Host
	metrics *observability.Metrics
	logger  *slog.Logger
}

func (h *trackedHost) Open(ctx context.Context, sessionID string) (any, bool, error) {
	state, created, err := h.Host.Open(ctx, sessionID)
	if err == nil && created {
		h.refresh(ctx)
	}
	return state, created, err
}

// Send opens the session first so sessions created by their first action
// are counted too.
func (h *trackedHost) Send(ctx context.Context, sessionID string, env domain.ActionEnvelope) (any, error) {
	if _, _, err := h.Open(ctx, sessionID); err != nil {
		return nil, err
	}
	return h.Host.Send(ctx, sessionID, env)
}

func (h *trackedHost) Delete(ctx context.Context, sessionID string) error {
	err := h.Host.Delete(ctx, sessionID)
	if err == nil {
		h.refresh(ctx)
	}
	return err
}

func (h *trackedHost) refresh(ctx context.Context) {
	ids, err := h.Host.List(ctx)
	if err != nil {
		h.logger.Warn("count sessions failed", "err", err)
		return
	}
	h.metrics.SetSessions(h.Host.Feature(), len(ids))
}
