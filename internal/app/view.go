package app

import (
	"time"

	"github.com/jsamuelsen/quotecard/internal/domain"
)

// HelpPanelTitle heads the developer notice shown when the photo lookup failed.
const HelpPanelTitle = "Using fallback backgrounds"

// HelpPanelSteps explain how to configure the photo service credential.
var HelpPanelSteps = []string{
	"Go to https://unsplash.com/developers",
	"Create a new application",
	"Copy your Access Key",
	"Set UNSPLASH_ACCESS_KEY in your environment or .env file and restart",
}

// CardView is a snapshot of the card for rendering.
type CardView struct {
	Quote      domain.Quote
	Background domain.BackgroundImage

	// Attribution is set in remote mode when the overlay flag is on and the
	// committed image carries credits.
	Attribution *domain.Attribution

	Loading    bool
	Status     domain.FetchStatus
	Mode       domain.BackgroundMode
	Generation uint64

	// HelpPanel is true when the last background fetch failed and the
	// config-help-panel flag is on.
	HelpPanel bool

	// StatusDetail is the reason the last background fetch failed.
	StatusDetail string

	RefreshedAt time.Time
}

// ShowQuote reports whether the quote should be rendered.
func (v CardView) ShowQuote() bool {
	return !v.Loading && !v.Quote.IsZero()
}

// ShowAttribution reports whether the attribution overlay should be rendered.
func (v CardView) ShowAttribution() bool {
	return !v.Loading && v.Attribution != nil
}

// ShowStatusDot reports whether the status indicator replaces attribution.
func (v CardView) ShowStatusDot() bool {
	return !v.Loading && v.Attribution == nil
}

// ShowHelpPanel reports whether the developer notice should be rendered.
func (v CardView) ShowHelpPanel() bool {
	return !v.Loading && v.HelpPanel
}
