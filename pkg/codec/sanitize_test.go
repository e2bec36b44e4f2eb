package codec_test

import (
	"strings"
	"testing"

	"github.com/aretw0/vine/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain", input: "add_button_tapped", want: "add_button_tapped"},
		{name: "keeps tabs", input: "a\tb", want: "a\tb"},
		{name: "strips escapes", input: "set_name name=\x1b[31mred", want: "set_name name=[31mred"},
		{name: "strips null", input: "a\x00b", want: "ab"},
		{name: "invalid utf8", input: "\xff", wantErr: codec.ErrInvalidUTF8},
		{name: "too large", input: strings.Repeat("a", codec.DefaultMaxInputSize+1), wantErr: codec.ErrInputTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.Sanitize(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_EnvOverride(t *testing.T) {
	t.Setenv(codec.EnvMaxInputSize, "4")

	_, err := codec.Sanitize("12345")
	assert.ErrorIs(t, err, codec.ErrInputTooLarge)
}

func TestParseCommand(t *testing.T) {
	env, err := codec.ParseCommand("  delete_button_tapped id=\x071  \n")
	require.NoError(t, err)
	assert.Equal(t, "delete_button_tapped", env.Type)
	assert.Equal(t, map[string]any{"id": "1"}, env.Payload)
}
