package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func TestConfirmOverwrite(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		interactive bool
		want        PromptResult
	}{
		{name: "non-interactive", input: "y\n", interactive: false, want: PromptResult{}},
		{name: "yes", input: "y\n", interactive: true, want: PromptResult{Accepted: true}},
		{name: "YES with spaces", input: "  YES \n", interactive: true, want: PromptResult{Accepted: true}},
		{name: "no", input: "n\n", interactive: true, want: PromptResult{}},
		{name: "empty defaults to no", input: "\n", interactive: true, want: PromptResult{}},
		{name: "EOF", input: "", interactive: true, want: PromptResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmOverwrite(&out, strings.NewReader(tt.input), "/tmp/config.yaml", tt.interactive)
			assert.Equal(t, tt.want, got)
			if tt.interactive {
				assert.Contains(t, out.String(), "/tmp/config.yaml already exists")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}

	got := ConfirmOverwrite(&bytes.Buffer{}, failingReader{}, "x", true)
	assert.True(t, got.Cancelled)
}
