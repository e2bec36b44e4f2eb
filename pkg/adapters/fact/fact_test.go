package fact_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/vine/pkg/adapters/fact"
	"github.com/aretw0/vine/pkg/counter"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(args map[string]any) domain.EffectRequest {
	return domain.EffectRequest{Kind: domain.EffectRun, ID: counter.FactEffectID, Name: counter.FactEffectName, Args: args}
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/42/trivia", r.URL.Path)
		_, _ = w.Write([]byte("42 is the answer.\n"))
	}))
	defer srv.Close()

	c, err := fact.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	v, err := c.Handle(context.Background(), request(map[string]any{"number": 42}))
	require.NoError(t, err)
	assert.Equal(t, "42 is the answer.", v)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("7 is lucky"))
	}))
	defer srv.Close()

	c, err := fact.NewClient(srv.URL, fact.WithRetry(3, time.Millisecond))
	require.NoError(t, err)

	text, err := c.Fetch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "7 is lucky", text)
	assert.EqualValues(t, 3, calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := fact.NewClient(srv.URL, fact.WithRetry(5, time.Millisecond))
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), 1)
	assert.ErrorIs(t, err, fact.ErrStatus)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := fact.NewClient(srv.URL, fact.WithRetry(2, time.Millisecond))
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), 1)
	assert.ErrorIs(t, err, fact.ErrStatus)
	assert.EqualValues(t, 2, calls.Load())
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := fact.NewClient("numbers.local")
	assert.Error(t, err)
}

func TestOffline(t *testing.T) {
	v, err := fact.Offline{}.Handle(context.Background(), request(map[string]any{"number": 3}))
	require.NoError(t, err)
	assert.Equal(t, "3 is a good number Brent", v)
}

func TestNumber(t *testing.T) {
	for _, raw := range []any{5, 5.0, "5", int64(5)} {
		n, err := fact.Number(request(map[string]any{"number": raw}))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	}

	_, err := fact.Number(request(nil))
	assert.Error(t, err)
}
