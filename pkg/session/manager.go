package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/internal/logging"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/runner"
)

// DefaultLockTTL bounds how long a distributed session lock is held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// live is an open session: its store, its executor and the goroutine that
// persists effect-driven changes.
type live[S, A any] struct {
	store   *vine.Store[S, A]
	exec    ports.Executor
	cancel  context.CancelFunc
	saved   uint64
	created bool
}

// Manager owns the live stores of one feature, one per session ID.
//
// Sessions are opened lazily from the snapshot store (or from the feature's
// initial state) and every change, whether caused by an action or by effect
// feedback, is written back as a snapshot. Access to a session is
// serialized with reference-counted local locks and, optionally, a
// distributed lock.
type Manager[S, A any] struct {
	feature   vine.Feature[S, A]
	snapshots ports.SnapshotStore

	newExecutor func() ports.Executor
	storeOpts   []vine.Option
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	logger      *slog.Logger

	mu     sync.Mutex
	locks  map[string]*lockEntry
	live   map[string]*live[S, A]
	closed bool
}

// Option configures the Manager.
type Option func(*settings)

type settings struct {
	newExecutor func() ports.Executor
	storeOpts   []vine.Option
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	logger      *slog.Logger
}

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *settings) {
		s.locker = locker
	}
}

// WithLockTTL sets the distributed lock TTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager and its stores.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithExecutorFactory sets how each session's executor is built.
// The manager closes the executors it creates.
func WithExecutorFactory(fn func() ports.Executor) Option {
	return func(s *settings) {
		s.newExecutor = fn
	}
}

// WithStoreOptions forwards options (hooks, for instance) to every store.
func WithStoreOptions(opts ...vine.Option) Option {
	return func(s *settings) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

// NewManager creates a manager for feature persisting to snapshots.
func NewManager[S, A any](feature vine.Feature[S, A], snapshots ports.SnapshotStore, opts ...Option) *Manager[S, A] {
	cfg := settings{
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.newExecutor == nil {
		logger := cfg.logger
		cfg.newExecutor = func() ports.Executor {
			return runner.New(runner.WithLogger(logger))
		}
	}

	return &Manager[S, A]{
		feature:     feature,
		snapshots:   snapshots,
		newExecutor: cfg.newExecutor,
		storeOpts:   cfg.storeOpts,
		locker:      cfg.locker,
		lockTTL:     cfg.lockTTL,
		logger:      cfg.logger.With("feature", feature.Name),
		locks:       make(map[string]*lockEntry),
		live:        make(map[string]*live[S, A]),
	}
}

// Feature returns the managed feature.
func (m *Manager[S, A]) Feature() vine.Feature[S, A] {
	return m.feature
}

// Open returns the live store for sessionID, loading or creating it.
// The second result reports whether the session was just created.
func (m *Manager[S, A]) Open(ctx context.Context, sessionID string) (*vine.Store[S, A], bool, error) {
	var (
		store   *vine.Store[S, A]
		created bool
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		l, fresh, err := m.openLocked(ctx, sessionID)
		if err != nil {
			return err
		}
		store, created = l.store, fresh
		return nil
	})
	return store, created, err
}

// Dispatch sends action to the session and persists the result.
func (m *Manager[S, A]) Dispatch(ctx context.Context, sessionID string, action A) (S, error) {
	var state S
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		l, _, err := m.openLocked(ctx, sessionID)
		if err != nil {
			return err
		}
		state, err = l.store.Send(action)
		if err != nil {
			return err
		}
		return m.persistLocked(ctx, sessionID, l)
	})
	return state, err
}

// DispatchEnvelope decodes env with the feature's codec and dispatches it.
func (m *Manager[S, A]) DispatchEnvelope(ctx context.Context, sessionID string, env domain.ActionEnvelope) (S, error) {
	var zero S
	if m.feature.Actions == nil {
		return zero, fmt.Errorf("%w: feature %s has no codec", domain.ErrUnknownAction, m.feature.Name)
	}
	action, err := m.feature.Actions.Decode(env)
	if err != nil {
		return zero, err
	}
	return m.Dispatch(ctx, sessionID, action)
}

// State returns the session's current state without opening it.
// Unknown sessions yield domain.ErrSessionNotFound.
func (m *Manager[S, A]) State(ctx context.Context, sessionID string) (S, error) {
	m.mu.Lock()
	l, ok := m.live[sessionID]
	m.mu.Unlock()
	if ok {
		return l.store.State(), nil
	}

	var state S
	snap, err := m.snapshots.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}
	if err := snap.Decode(&state); err != nil {
		return state, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return m.feature.Restore(state), nil
}

// Subscribe opens the session and streams its states.
func (m *Manager[S, A]) Subscribe(ctx context.Context, sessionID string) (<-chan S, error) {
	store, _, err := m.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return store.Subscribe(ctx), nil
}

// Delete closes the session, cancelling its effects, and removes its snapshot.
func (m *Manager[S, A]) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.mu.Lock()
		l, ok := m.live[sessionID]
		delete(m.live, sessionID)
		m.mu.Unlock()

		if ok {
			m.shutdown(sessionID, l)
		}
		return m.snapshots.Delete(ctx, sessionID)
	})
}

// List returns the stored and live session IDs, sorted.
func (m *Manager[S, A]) List(ctx context.Context) ([]string, error) {
	stored, err := m.snapshots.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(stored))
	ids := make([]string, 0, len(stored))
	for _, id := range stored {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	m.mu.Lock()
	for id := range m.live {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()

	sort.Strings(ids)
	return ids, nil
}

// Close shuts every live session down. Snapshots are kept.
func (m *Manager[S, A]) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	open := m.live
	m.live = make(map[string]*live[S, A])
	m.mu.Unlock()

	var errs []error
	for id, l := range open {
		if err := m.shutdown(id, l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openLocked must be called while holding the session lock. The second
// result reports whether this call created the session.
func (m *Manager[S, A]) openLocked(ctx context.Context, sessionID string) (*live[S, A], bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, false, domain.ErrStoreClosed
	}
	if l, ok := m.live[sessionID]; ok {
		m.mu.Unlock()
		return l, false, nil
	}
	m.mu.Unlock()

	state, created, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	exec := m.newExecutor()
	opts := append([]vine.Option{
		vine.WithID(sessionID),
		vine.WithExecutor(exec),
		vine.WithLogger(m.logger.With("session_id", sessionID)),
	}, m.storeOpts...)

	l := &live[S, A]{
		store:   vine.NewStore(state, m.feature.Reducer, opts...),
		exec:    exec,
		created: created,
	}

	if created {
		if err := m.persistLocked(ctx, sessionID, l); err != nil {
			_ = m.shutdown(sessionID, l)
			return nil, false, fmt.Errorf("failed to initialize session: %w", err)
		}
	}

	persistCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	updates := l.store.Subscribe(persistCtx)
	go m.persistLoop(persistCtx, sessionID, l, updates)

	m.mu.Lock()
	m.live[sessionID] = l
	m.mu.Unlock()

	m.logger.Debug("session opened", "session_id", sessionID, "created", created)
	return l, created, nil
}

func (m *Manager[S, A]) load(ctx context.Context, sessionID string) (S, bool, error) {
	var state S
	snap, err := m.snapshots.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return m.feature.Initial(), true, nil
	}
	if err != nil {
		return state, false, fmt.Errorf("failed to check session existence: %w", err)
	}
	if snap.Feature != "" && snap.Feature != m.feature.Name {
		return state, false, fmt.Errorf("session %s belongs to feature %q, not %q", sessionID, snap.Feature, m.feature.Name)
	}
	if err := snap.Decode(&state); err != nil {
		return state, false, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return m.feature.Restore(state), false, nil
}

// persistLocked writes the store's current state unless it is already saved.
func (m *Manager[S, A]) persistLocked(ctx context.Context, sessionID string, l *live[S, A]) error {
	version := l.store.Version()
	if version == l.saved && !l.created {
		return nil
	}
	snap, err := domain.NewSnapshot(sessionID, m.feature.Name, l.store.State())
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if err := m.snapshots.Save(ctx, sessionID, snap); err != nil {
		return err
	}
	l.saved = version
	l.created = false
	return nil
}

// persistLoop saves states produced by effect feedback.
func (m *Manager[S, A]) persistLoop(ctx context.Context, sessionID string, l *live[S, A], updates <-chan S) {
	for range updates {
		err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
			m.mu.Lock()
			current := m.live[sessionID]
			m.mu.Unlock()
			if current != l {
				return nil
			}
			return m.persistLocked(ctx, sessionID, l)
		})
		if err != nil && ctx.Err() == nil {
			m.logger.Warn("failed to persist session", "session_id", sessionID, "err", err)
		}
	}
}

func (m *Manager[S, A]) shutdown(sessionID string, l *live[S, A]) error {
	if l.cancel != nil {
		l.cancel()
	}
	err := l.store.Close()
	if cerr := l.exec.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	m.logger.Debug("session closed", "session_id", sessionID)
	return err
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager[S, A]) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager[S, A]) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager[S, A]) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
