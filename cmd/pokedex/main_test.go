package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/pokedex/internal/config"
	"github.com/rshade/pokedex/pkg/version"
)

func TestRun(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Cleanup(config.ResetGlobalConfigForTest)

	t.Run("version", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"--version"}, &stdout, &stderr)
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout.String(), version.GetVersion())
	})

	t.Run("unknown command", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"evolve"}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "Error: unknown command")
	})

	t.Run("bad output format", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"list", "-o", "xml"}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "unsupported output format")
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "plain error", err: errors.New("boom"), want: 1},
		{name: "cancelled", err: context.Canceled, want: exitInterrupted},
		{name: "wrapped cancel", err: fmt.Errorf("loading: %w", context.Canceled), want: exitInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
