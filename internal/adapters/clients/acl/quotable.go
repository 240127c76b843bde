package acl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jsamuelsen/quotecard/internal/adapters/clients"
	"github.com/jsamuelsen/quotecard/internal/domain"
	"github.com/jsamuelsen/quotecard/internal/platform/logging"
)

const randomQuotePath = "/random"

// DefaultQuoteTags are the tags requested when none are configured.
var DefaultQuoteTags = []string{"inspirational", "motivational"}

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// Its BaseURL should point at a quotable.io compatible API.
	Client *clients.Client

	// Tags filter the random quote. Empty means DefaultQuoteTags.
	Tags []string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteClient against the quotable.io API.
type QuoteClient struct {
	BaseAdapter

	tags   string
	logger *slog.Logger
}

// NewQuoteClient creates a new quote client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tags := cfg.Tags
	if len(tags) == 0 {
		tags = DefaultQuoteTags
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		tags:        strings.Join(tags, ","),
		logger:      logger,
	}
}

// quotableResponse is the external DTO from the quotable.io API.
type quotableResponse struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

// GetRandomQuote fetches one random quote. There is no retry; callers fall
// back on any error.
func (c *QuoteClient) GetRandomQuote(ctx context.Context) (*domain.Quote, error) {
	query := url.Values{"tags": {c.tags}}

	c.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", randomQuotePath),
		slog.String("tags", c.tags))

	body, err := c.Get(ctx, randomQuotePath, query, "random quote", c.tags)
	if err != nil {
		return nil, err
	}

	ext, err := Decode[quotableResponse](c.ServiceName(), body)
	if err != nil {
		return nil, err
	}

	quote, err := translateQuote(ext)
	if err != nil {
		return nil, err
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated external DTO to domain",
		slog.String("quote_id", ext.ID),
		slog.String("author", quote.Author))

	return quote, nil
}

// translateQuote converts the external DTO to a domain Quote.
func translateQuote(ext *quotableResponse) (*domain.Quote, error) {
	content := strings.TrimSpace(ext.Content)
	if err := ValidateRequired(content, "content"); err != nil {
		return nil, err
	}

	return &domain.Quote{
		Text:   content,
		Author: strings.TrimSpace(ext.Author),
	}, nil
}

// Name returns the health check name for this client.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check verifies the quote API answers a random quote request.
func (c *QuoteClient) Check(ctx context.Context) error {
	body, err := c.Get(ctx, randomQuotePath, url.Values{"tags": {c.tags}}, "health check", "")
	if err != nil {
		return fmt.Errorf("quote api: %w", err)
	}

	return body.Close()
}
