package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/vine/pkg/domain"
	"github.com/aretw0/vine/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowOnly(t *testing.T) {
	allow := runner.AllowOnly("fact.fetch")

	ok, _, err := allow(context.Background(), domain.EffectRequest{Name: "fact.fetch"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, res, err := allow(context.Background(), domain.EffectRequest{ID: "x", Name: "rm.rf"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Error, "denied")

	ok, _, _ = runner.AllowOnly()(context.Background(), domain.EffectRequest{Name: "anything"})
	assert.True(t, ok, "empty list allows everything")
}

func TestMultiInterceptor(t *testing.T) {
	calls := 0
	counting := func(context.Context, domain.EffectRequest) (bool, domain.EffectResult, error) {
		calls++
		return true, domain.EffectResult{}, nil
	}
	failing := func(context.Context, domain.EffectRequest) (bool, domain.EffectResult, error) {
		return false, domain.EffectResult{}, errors.New("policy store down")
	}

	ok, _, err := runner.MultiInterceptor(counting, runner.AllowOnly("a"), counting)(context.Background(), domain.EffectRequest{Name: "b"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, calls, "chain stops at the first denial")

	_, _, err = runner.MultiInterceptor(failing)(context.Background(), domain.EffectRequest{})
	assert.Error(t, err)
}

func TestRunner_InterceptorDenial(t *testing.T) {
	r := runner.New(
		runner.WithHandler("echo", echo()),
		runner.WithInterceptor(runner.AllowOnly("other")),
	)
	defer r.Close()

	c := &collector{}
	r.Start(domain.EffectRequest{Kind: domain.EffectRun, ID: "a", Name: "echo"}, c.sink)

	require.Eventually(t, func() bool { return c.len() == 1 }, time.Second, 5*time.Millisecond)
	res := c.snapshot()[0]
	assert.Equal(t, "a", res.ID)
	assert.True(t, res.IsError)
}
