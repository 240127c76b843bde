package flags

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen/quotecard/internal/ports"
)

func newFlags(values map[string]string) *Static {
	return NewStatic(values, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStatic_IsEnabled(t *testing.T) {
	flags := newFlags(map[string]string{
		ports.FlagConfigHelpPanel:    "false",
		ports.FlagAttributionOverlay: " TRUE ",
		"Mixed-Case":                 "1",
		"broken":                     "sometimes",
		"blank":                      "",
	})

	tests := []struct {
		name         string
		flag         string
		defaultValue bool
		expected     bool
	}{
		{"explicit false", ports.FlagConfigHelpPanel, true, false},
		{"trimmed true", ports.FlagAttributionOverlay, false, true},
		{"case insensitive", "mixed-case", false, true},
		{"unparseable uses default", "broken", true, true},
		{"blank uses default", "blank", true, true},
		{"unknown uses default", "missing", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, flags.IsEnabled(context.Background(), tt.flag, tt.defaultValue))
		})
	}
}

func TestStatic_Set(t *testing.T) {
	flags := newFlags(nil)

	assert.True(t, flags.IsEnabled(context.Background(), ports.FlagConfigHelpPanel, true))

	flags.Set(ports.FlagConfigHelpPanel, "false")

	assert.False(t, flags.IsEnabled(context.Background(), ports.FlagConfigHelpPanel, true))
	assert.Equal(t, map[string]string{ports.FlagConfigHelpPanel: "false"}, flags.Snapshot())
}

func TestNewStatic_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewStatic(map[string]string{"x": "nope"}, nil).IsEnabled(context.Background(), "x", false)
	})
}
