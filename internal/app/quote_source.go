package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/quotecard/internal/domain"
	"github.com/jsamuelsen/quotecard/internal/platform/metrics"
	"github.com/jsamuelsen/quotecard/internal/ports"
)

// QuoteSource yields a quote on every call, preferring the quote service
// and falling back to a static pool on any failure.
type QuoteSource struct {
	client   ports.QuoteClient
	fallback domain.Pool[domain.Quote]
	pick     domain.Picker
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// QuoteSourceConfig contains configuration for the quote source.
type QuoteSourceConfig struct {
	Client ports.QuoteClient

	// Fallback defaults to domain.FallbackQuotes.
	Fallback *domain.Pool[domain.Quote]

	// Picker defaults to domain.RandomPicker.
	Picker domain.Picker

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewQuoteSource creates a quote source.
// Panics if Client is nil.
func NewQuoteSource(cfg QuoteSourceConfig) *QuoteSource {
	if cfg.Client == nil {
		panic("QuoteSource: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fallback := domain.FallbackQuotes
	if cfg.Fallback != nil {
		fallback = *cfg.Fallback
	}

	pick := cfg.Picker
	if pick == nil {
		pick = domain.RandomPicker
	}

	return &QuoteSource{
		client:   cfg.Client,
		fallback: fallback,
		pick:     pick,
		metrics:  cfg.Metrics,
		logger:   logger.With(slog.String("component", "app.QuoteSource")),
	}
}

// GetQuote makes one request to the quote service. Errors and empty quotes
// are logged and replaced with a fallback entry; GetQuote never fails.
func (s *QuoteSource) GetQuote(ctx context.Context) domain.Quote {
	quote, err := s.client.GetRandomQuote(ctx)
	if err == nil && quote != nil && !quote.IsZero() {
		s.metrics.ObserveQuote(metrics.QuoteRemote)
		s.logger.DebugContext(ctx, "fetched remote quote", slog.String("author", quote.Author))

		return *quote
	}

	if err == nil {
		err = domain.NewValidationError("content", "quote service returned an empty quote")
	}

	fallback := s.fallback.Pick(s.pick)
	s.metrics.ObserveQuote(metrics.QuoteFallback)
	s.logger.WarnContext(ctx, "using fallback quote",
		slog.Any("error", err),
		slog.String("author", fallback.Author),
	)

	return fallback
}
