package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{input: "", want: ModeAuto},
		{input: "TEXT", want: ModeText},
		{input: " md ", want: ModeMarkdown},
		{input: "json", want: ModeJSON},
		{input: "csv", want: ModeCSV},
		{input: "yaml", want: ModeYAML},
		{input: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_UnmarshalText(t *testing.T) {
	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("markdown")))
	assert.Equal(t, ModeMarkdown, m)
	assert.Error(t, m.UnmarshalText([]byte("html")))
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		want Mode
	}{
		{mode: ModeAuto, want: ModeMarkdown},
		{mode: ModeText, want: ModeText},
		{mode: ModeJSON, want: ModeJSON},
		{mode: "bogus", want: ModeMarkdown},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRenderer(&buf, &buf, tt.mode)
			assert.False(t, r.IsTTY())
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_Output(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeAuto)

	r.Header(2, "Teams")
	r.Success("done")
	r.Warning("careful")
	require.NoError(t, r.JSON(map[string]int{"count": 2}))

	assert.Equal(t, "## Teams\n✓ done\n{\n  \"count\": 2\n}\n", out.String())
	assert.Equal(t, "Warning: careful\n", errOut.String(), "non-TTY output carries no ANSI codes")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Sub", FormatHeader(3, "Sub"))
	assert.Equal(t, "- **port**: 8000", FormatKeyValue("port", 8000))
}
