package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_PlainWriter(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")

	out := buf.String()
	assert.Contains(t, out, `\_/ |_|_| |_|\___|`)
	assert.Contains(t, out, "v1.2.3")
	assert.NotContains(t, out, "\x1b[", "a buffer is not a color terminal")
}

func TestRenderers(t *testing.T) {
	md := "# Counter: 1\n\n- timer: idle\n"

	plain, err := Plain(md)
	require.NoError(t, err)
	assert.Equal(t, md, plain)

	render, err := NewRenderer(80)
	require.NoError(t, err)
	out, err := render(md)
	require.NoError(t, err)
	assert.Contains(t, out, "Counter: 1")
	assert.Contains(t, out, "timer: idle")
}
