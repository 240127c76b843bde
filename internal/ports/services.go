// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, so the application layer
// depends on abstractions rather than concrete clients.
//
// Port Design Principles:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never external DTOs
//   - Errors are domain errors (ErrUnavailable, ErrNotConfigured, ...)
package ports

import (
	"context"

	"github.com/jsamuelsen/quotecard/internal/domain"
)

// QuoteClient fetches quotes from the remote quote service.
type QuoteClient interface {
	// GetRandomQuote makes exactly one request for a random quote.
	// Returns domain.ErrUnavailable on transport or status failures.
	GetRandomQuote(ctx context.Context) (*domain.Quote, error)
}

// PhotoClient looks up random photos on the remote photo service.
type PhotoClient interface {
	// GetRandomPhoto returns a landscape photo with attribution.
	// refreshToken is a monotonically increasing number that only defeats
	// intermediate caches. Returns domain.ErrNotConfigured without any
	// network call when the access credential is missing.
	GetRandomPhoto(ctx context.Context, refreshToken int64) (*domain.BackgroundImage, error)
}

// ImagePreloader loads an image fully before it is shown.
type ImagePreloader interface {
	// Preload starts loading the image at url and returns once the request
	// is under way. wait blocks until the image is confirmed loadable and
	// returns nil, or returns why it is not. ctx bounds the whole load.
	Preload(ctx context.Context, url string) (wait func() error)
}

// QuoteSource always yields a quote, remote or fallback.
type QuoteSource interface {
	GetQuote(ctx context.Context) domain.Quote
}

// BackgroundSource yields background images in one of the two modes.
type BackgroundSource interface {
	// GetBackground never fails; the result's Status and Err describe
	// whether the fallback path was taken.
	GetBackground(ctx context.Context) domain.BackgroundResult

	// Fallback returns a fresh image from the static pool.
	Fallback() domain.BackgroundImage

	// Mode reports which implementation this is.
	Mode() domain.BackgroundMode
}
