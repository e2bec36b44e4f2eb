package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewPIIMiddleware([]string{"password", "ssn"})(underlying)

	ctx := context.Background()
	sessionID := "pii-session"
	state := map[string]any{
		"username":      "jdoe",
		"user_password": "secret123",
		"details": map[string]any{
			"address":    "123 St",
			"ssn_number": "999-99-9999",
		},
		"rows":   []any{map[string]any{"password": "x", "count": 2}},
		"ssn_id": 42,
	}

	require.NoError(t, secure.Save(ctx, sessionID, snapshot(t, sessionID, state)))
	assert.Equal(t, "secret123", state["user_password"], "caller state must not be modified")

	stored, err := underlying.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"username": "jdoe",
		"user_password": "***",
		"details": {"address": "123 St", "ssn_number": "***"},
		"rows": [{"password": "***", "count": 2}],
		"ssn_id": 42
	}`, string(stored.State))
}

func TestChain_OrderIsOutermostFirst(t *testing.T) {
	underlying := memory.NewStore()
	key := generateKey(t)
	store := middleware.Chain(underlying,
		middleware.NewPIIMiddleware([]string{"secret"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s", snapshot(t, "s", map[string]string{"secret": "v", "name": "n"})))

	// Masking runs before encryption, so the decrypted state is masked.
	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.JSONEq(t, `{"secret":"***","name":"n"}`, string(loaded.State))
}
