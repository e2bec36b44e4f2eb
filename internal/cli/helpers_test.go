package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/vine/internal/logging"
	"github.com/aretw0/vine/pkg/codec"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, line string) domain.ActionEnvelope {
	t.Helper()
	env, err := codec.ParseCommand(line)
	require.NoError(t, err)
	return env
}

func TestInterruptibleReader(t *testing.T) {
	cancel := make(chan struct{})
	r := NewInterruptibleReader(strings.NewReader("hello"), cancel)

	buf := make([]byte, 5)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	close(cancel)
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(io.EOF))
	assert.NoError(t, handleExecutionError(fmt.Errorf("read: %w", ErrInterrupted)))
	assert.NoError(t, handleExecutionError(context.Canceled))

	boom := errors.New("boom")
	assert.ErrorIs(t, handleExecutionError(boom), boom)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("warn", false, false)
	require.NoError(t, err)
	assert.False(t, logger.Enabled(context.Background(), -4))
	assert.True(t, logger.Enabled(context.Background(), 4))

	logger, err = NewLogger("warn", true, true)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), -4), "debug wins over quiet")

	_, err = NewLogger("loud", false, false)
	assert.Error(t, err)
}

func TestLogCompletion(t *testing.T) {
	var buf bytes.Buffer
	logCompletion(&buf, "s1", nil, nil)
	assert.Equal(t, ">>> Session 's1' saved.\n", buf.String())

	buf.Reset()
	logCompletion(&buf, "s1", context.Canceled, os.Interrupt)
	assert.Contains(t, buf.String(), "[CTRL+C]")
	assert.Contains(t, buf.String(), "Interrupted, session 's1' saved.")
}

func TestChooseRenderer_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	render := ChooseRenderer(f, false)
	out, err := render("# Title\n")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", out)
}

func TestServeMetrics(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	reg := prometheus.NewRegistry()
	up := prometheus.NewGauge(prometheus.GaugeOpts{Name: "vine_test_up"})
	up.Set(1)
	reg.MustRegister(up)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeMetrics(ctx, addr, reg, logging.NewNop())
	}()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		body = string(data)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, body, "vine_test_up 1")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * ShutdownTimeout):
		t.Fatal("metrics listener did not stop")
	}
}
