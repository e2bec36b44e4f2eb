package session_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/vine/pkg/adapters/identity"
	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/counter"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/ports"
	"github.com/aretw0/vine/pkg/runner"
	"github.com/aretw0/vine/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, store ports.SnapshotStore, opts ...session.Option) *session.Manager[counter.State, counter.Action] {
	t.Helper()
	mgr := session.NewManager(counter.Feature(identity.Incrementing()), store, opts...)
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func loadCounter(t *testing.T, store ports.SnapshotStore, id string) counter.State {
	t.Helper()
	snap, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	var s counter.State
	require.NoError(t, snap.Decode(&s))
	return s
}

func TestManager_OpenCreatesAndPersists(t *testing.T) {
	store := memory.NewStore()
	mgr := newManager(t, store)
	ctx := context.Background()

	st, created, err := mgr.Open(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, counter.NewState(), st.State())

	snap, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "counter", snap.Feature)
	assert.Equal(t, "s1", snap.SessionID)

	_, created, err = mgr.Open(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, created, "second open returns the live session")
}

func TestManager_DispatchPersists(t *testing.T) {
	store := memory.NewStore()
	mgr := newManager(t, store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := mgr.Dispatch(ctx, "s1", counter.IncrementButtonTapped{})
		require.NoError(t, err)
	}
	state, err := mgr.Dispatch(ctx, "s1", counter.DecrementButtonTapped{})
	require.NoError(t, err)

	assert.Equal(t, 1, state.Count)
	assert.Equal(t, 1, loadCounter(t, store, "s1").Count)
}

func TestManager_ReopenRestoresSnapshot(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	saved := counter.NewState()
	saved.Count = 7
	saved.Timer = counter.Timer{Running: true, Token: "stale"}
	saved.IsLoadingFact = true
	snap, err := domain.NewSnapshot("s1", "counter", saved)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "s1", snap))

	mgr := newManager(t, store)

	state, err := mgr.State(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 7, state.Count)
	assert.False(t, state.Timer.Running, "timers do not survive a restart")
	assert.False(t, state.IsLoadingFact)

	st, created, err := mgr.Open(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 7, st.State().Count)
	assert.False(t, st.State().Timer.Running)
}

func TestManager_StateUnknownSession(t *testing.T) {
	mgr := newManager(t, memory.NewStore())
	_, err := mgr.State(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_FeatureMismatch(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	snap, err := domain.NewSnapshot("s1", "inventory", map[string]any{})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "s1", snap))

	mgr := newManager(t, store)
	_, _, err = mgr.Open(ctx, "s1")
	assert.ErrorContains(t, err, `belongs to feature "inventory"`)
}

func TestManager_DeleteAndList(t *testing.T) {
	store := memory.NewStore()
	mgr := newManager(t, store)
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		_, _, err := mgr.Open(ctx, id)
		require.NoError(t, err)
	}

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	require.NoError(t, mgr.Delete(ctx, "b"))

	ids, err = mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)

	_, err = store.Load(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.NoError(t, mgr.Delete(ctx, "never-existed"))
}

func TestManager_ConcurrentDispatch(t *testing.T) {
	store := memory.NewStore()
	mgr := newManager(t, store)
	ctx := context.Background()
	const writers = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Dispatch(ctx, "race", counter.IncrementButtonTapped{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := mgr.State(ctx, "race")
	require.NoError(t, err)
	assert.Equal(t, writers, state.Count, "no update may be lost")
	assert.Equal(t, writers, loadCounter(t, store, "race").Count)
}

func TestManager_EffectFeedbackIsPersisted(t *testing.T) {
	store := memory.NewStore()
	mgr := newManager(t, store, session.WithExecutorFactory(func() ports.Executor {
		return runner.New(runner.WithTickInterval(5 * time.Millisecond))
	}))
	ctx := context.Background()

	_, err := mgr.Dispatch(ctx, "timer", counter.StartTimerButtonTapped{})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return loadCounter(t, store, "timer").SecondsElapsed >= 3
	}, 2*time.Second, 5*time.Millisecond)

	state, err := mgr.Dispatch(ctx, "timer", counter.StopTimerButtonTapped{})
	require.NoError(t, err)
	assert.False(t, state.Timer.Running)
}

func TestManager_DispatchEnvelope(t *testing.T) {
	mgr := newManager(t, memory.NewStore())
	ctx := context.Background()

	state, err := mgr.DispatchEnvelope(ctx, "s1", domain.ActionEnvelope{Type: "increment_button_tapped"})
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)

	_, err = mgr.DispatchEnvelope(ctx, "s1", domain.ActionEnvelope{Type: "launch_rockets"})
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestManager_ClosedRejectsDispatch(t *testing.T) {
	mgr := newManager(t, memory.NewStore())
	ctx := context.Background()

	_, err := mgr.Dispatch(ctx, "s1", counter.IncrementButtonTapped{})
	require.NoError(t, err)
	require.NoError(t, mgr.Close())
	require.NoError(t, mgr.Close())

	_, err = mgr.Dispatch(ctx, "s1", counter.IncrementButtonTapped{})
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}

type countingLocker struct {
	locks   atomic.Int32
	unlocks atomic.Int32
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.locks.Add(1)
	return func(context.Context) error {
		l.unlocks.Add(1)
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	mgr := newManager(t, memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))
	ctx := context.Background()

	_, err := mgr.Dispatch(ctx, "s1", counter.IncrementButtonTapped{})
	require.NoError(t, err)
	require.NoError(t, mgr.Delete(ctx, "s1"))

	assert.GreaterOrEqual(t, locker.locks.Load(), int32(2))
	assert.Eventually(t, func() bool {
		return locker.locks.Load() == locker.unlocks.Load()
	}, time.Second, 5*time.Millisecond, "every lock is released")
}

func TestHost(t *testing.T) {
	mgr := newManager(t, memory.NewStore())
	host := mgr.Host()
	ctx := context.Background()

	assert.Equal(t, "counter", host.Feature())
	assert.Contains(t, host.Actions(), "increment_button_tapped")

	_, created, err := host.Open(ctx, "h1")
	require.NoError(t, err)
	assert.True(t, created)

	watch, err := host.Watch(ctx, "h1")
	require.NoError(t, err)
	first := <-watch
	assert.Equal(t, 0, first.(counter.State).Count)

	state, err := host.Send(ctx, "h1", domain.ActionEnvelope{Type: "increment_button_tapped"})
	require.NoError(t, err)
	assert.Equal(t, 1, state.(counter.State).Count)

	assert.Eventually(t, func() bool {
		select {
		case s := <-watch:
			return s.(counter.State).Count == 1
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	snap, err := host.Snapshot(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.(counter.State).Count)

	view, err := host.Render(ctx, "h1")
	require.NoError(t, err)
	assert.Contains(t, view, "# Counter: 1")

	require.NoError(t, host.Delete(ctx, "h1"))
	_, err = host.Snapshot(ctx, "h1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
