// Package flags provides a FeatureFlags implementation backed by the
// "flags" section of the configuration.
package flags

import (
	"context"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"sync"

	"github.com/jsamuelsen/quotecard/internal/ports"
)

// Static evaluates flags from a fixed map. Values are parsed on each call
// so Set can change them at runtime, e.g. from tests.
type Static struct {
	mu     sync.RWMutex
	values map[string]string
	logger *slog.Logger
}

var _ ports.FeatureFlags = (*Static)(nil)

// NewStatic creates flags from name/value pairs. Names are case-insensitive.
func NewStatic(values map[string]string, logger *slog.Logger) *Static {
	if logger == nil {
		logger = slog.Default()
	}

	normalized := make(map[string]string, len(values))
	for k, v := range values {
		normalized[strings.ToLower(k)] = strings.TrimSpace(v)
	}

	return &Static{
		values: normalized,
		logger: logger.With(slog.String("component", "flags.Static")),
	}
}

// IsEnabled returns the flag's boolean value, or defaultValue when the flag
// is unset or not a boolean.
func (s *Static) IsEnabled(ctx context.Context, flag string, defaultValue bool) bool {
	raw, ok := s.lookup(flag)
	if !ok {
		return defaultValue
	}

	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "flag is not a boolean",
			slog.String("flag", flag),
			slog.String("value", raw),
		)

		return defaultValue
	}

	return enabled
}

// Set overrides a single flag.
func (s *Static) Set(flag, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[strings.ToLower(flag)] = strings.TrimSpace(value)
}

// Snapshot returns a copy of all flag values.
func (s *Static) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.values)
}

func (s *Static) lookup(flag string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[strings.ToLower(flag)]
	if !ok || v == "" {
		return "", false
	}

	return v, true
}
