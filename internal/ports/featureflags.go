package ports

import "context"

// Flags understood by the card.
const (
	// FlagConfigHelpPanel shows the developer notice on credential or
	// photo lookup failures.
	FlagConfigHelpPanel = "config-help-panel"

	// FlagAttributionOverlay shows the photographer credit overlay.
	FlagAttributionOverlay = "attribution-overlay"
)

// FeatureFlags evaluates feature flags without knowing the provider.
// Implementations return defaultValue when a flag is unknown.
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}
