package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/vine/pkg/adapters/identity"
	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/counter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(counter.Feature(identity.Incrementing()), memory.NewStore())
	defer mgr.Close()
	ctx := context.Background()
	count := 500

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, err := mgr.Dispatch(ctx, sid, counter.IncrementButtonTapped{})
		require.NoError(t, err)
		require.NoError(t, mgr.Delete(ctx, sid))
	}

	mgr.mu.Lock()
	locks, live := len(mgr.locks), len(mgr.live)
	mgr.mu.Unlock()

	assert.Zero(t, locks, "lock entries must be released once unused")
	assert.Zero(t, live, "deleted sessions must not stay open")
}
