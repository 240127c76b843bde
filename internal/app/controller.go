// Package app contains the quote card's application layer. It coordinates
// the quote and background sources through ports and owns the card state.
//
// Application Layer Responsibilities:
//   - Run refresh cycles in a fixed order
//   - Discard results from superseded cycles
//   - Commit backgrounds only after they loaded
//   - Expose a consistent view for rendering
//
// What does NOT belong here:
//   - HTTP or CLI specifics (that's adapters and cmd)
//   - Remote API formats (that's the ACL)
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quotecard/internal/domain"
	"github.com/jsamuelsen/quotecard/internal/platform/metrics"
	"github.com/jsamuelsen/quotecard/internal/ports"
)

const defaultRefreshTimeout = 15 * time.Second

// ErrClosed is returned by Refresh after Close.
var ErrClosed = errors.New("controller closed")

// ControllerConfig contains the controller's dependencies.
type ControllerConfig struct {
	Quotes      ports.QuoteSource
	Backgrounds ports.BackgroundSource
	Preloader   ports.ImagePreloader

	// Flags may be nil; every flag then takes its default.
	Flags ports.FeatureFlags

	// PreloadTimeout bounds one image preload.
	PreloadTimeout time.Duration

	// RefreshTimeout bounds a whole cycle so loading always clears.
	RefreshTimeout time.Duration

	Metrics *metrics.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// Controller runs refresh cycles and holds the card state.
//
// Each cycle takes the next generation number. Writes from a cycle land
// only while its generation is the latest, and only the latest cycle
// clears loading. Cycles run on a context owned by the controller and end
// on Close or at the refresh timeout, never with the caller's request.
type Controller struct {
	quotes      ports.QuoteSource
	backgrounds ports.BackgroundSource
	surface     *BackgroundSurface
	flags       ports.FeatureFlags
	metrics     *metrics.Metrics
	logger      *slog.Logger
	timeout     time.Duration
	now         func() time.Time

	generation atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	state  cardState
	closed bool
}

type cardState struct {
	quote       domain.Quote
	status      domain.FetchStatus
	statusErr   error
	loading     bool
	refreshedAt time.Time
}

// NewController creates a controller in the loading state.
// Panics if Quotes, Backgrounds or Preloader is nil.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.Quotes == nil {
		panic("Controller: Quotes is required")
	}

	if cfg.Backgrounds == nil {
		panic("Controller: Backgrounds is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.RefreshTimeout
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		quotes:      cfg.Quotes,
		backgrounds: cfg.Backgrounds,
		flags:       cfg.Flags,
		metrics:     cfg.Metrics,
		logger:      logger.With(slog.String("component", "app.Controller")),
		timeout:     timeout,
		now:         now,
		ctx:         ctx,
		cancel:      cancel,
		state:       cardState{loading: true},
	}

	c.surface = NewBackgroundSurface(BackgroundSurfaceConfig{
		Preloader: cfg.Preloader,
		Timeout:   cfg.PreloadTimeout,
		Latest:    c.generation.Load,
		Metrics:   cfg.Metrics,
		Logger:    logger,
	})

	return c
}

// Mount starts the first cycle without waiting for it.
func (c *Controller) Mount() {
	c.RefreshAsync()
}

// RefreshAsync starts a cycle and returns its generation, or 0 after Close.
func (c *Controller) RefreshAsync() uint64 {
	gen, done := c.start()
	if done == nil {
		return 0
	}

	return gen
}

// Refresh runs a cycle and waits for it to settle, or for ctx to end.
// If ctx ends first the cycle keeps running and the current view is
// returned with ctx's error.
func (c *Controller) Refresh(ctx context.Context) (CardView, error) {
	_, done := c.start()
	if done == nil {
		return c.View(ctx), ErrClosed
	}

	select {
	case <-done:
		return c.View(ctx), nil
	case <-ctx.Done():
		return c.View(ctx), ctx.Err()
	}
}

// Close cancels running cycles and waits for them to return.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

// Generation returns the latest cycle's generation.
func (c *Controller) Generation() uint64 {
	return c.generation.Load()
}

// Mode returns the background mode in use.
func (c *Controller) Mode() domain.BackgroundMode {
	return c.backgrounds.Mode()
}

// Name implements ports.HealthChecker.
func (c *Controller) Name() string {
	return "card"
}

// Check fails once the controller is closed.
func (c *Controller) Check(context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClosed
	}

	return nil
}

// start claims the next generation, marks the card loading and runs the
// cycle on its own goroutine. done is nil after Close.
func (c *Controller) start() (uint64, <-chan struct{}) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, nil
	}

	gen := c.generation.Add(1)
	c.state.loading = true
	c.wg.Add(1)
	c.mu.Unlock()

	done := make(chan struct{})

	go func() {
		defer c.wg.Done()
		defer close(done)

		c.cycle(gen)
	}()

	return gen, done
}

// cycle is one refresh: background, preload started, quote, preload joined.
// The quote request is not sent before the preload request is under way.
func (c *Controller) cycle(gen uint64) {
	start := time.Now()
	logger := c.logger.With(slog.Uint64("generation", gen))

	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	logger.DebugContext(ctx, "refresh started")

	result := c.backgrounds.GetBackground(ctx)
	c.apply(gen, func(s *cardState) {
		s.status = result.Status
		s.statusErr = result.Err
	})

	finishBackground := c.surface.Begin(ctx, gen, result.Image, c.backgrounds.Fallback)

	var g errgroup.Group

	g.Go(func() error {
		_, err := finishBackground()
		return err
	})

	quote := c.quotes.GetQuote(ctx)
	c.apply(gen, func(s *cardState) {
		s.quote = quote
	})

	preloadErr := g.Wait()

	settled := c.apply(gen, func(s *cardState) {
		s.loading = false
		s.refreshedAt = c.now()
	})

	elapsed := time.Since(start)

	switch {
	case !settled:
		c.metrics.ObserveRefresh(metrics.RefreshStale, elapsed)
		logger.DebugContext(ctx, "refresh superseded", slog.Duration("duration", elapsed))
	case c.ctx.Err() != nil:
		c.metrics.ObserveRefresh(metrics.RefreshCancelled, elapsed)
		logger.InfoContext(ctx, "refresh cancelled", slog.Duration("duration", elapsed))
	default:
		c.metrics.ObserveRefresh(metrics.RefreshApplied, elapsed)
		logger.InfoContext(ctx, "refresh settled",
			slog.String("status", result.Status.String()),
			slog.String("author", quote.Author),
			slog.Bool("background_committed", preloadErr == nil),
			slog.Duration("duration", elapsed),
		)
	}
}

// apply runs fn on the state if gen is still the latest.
func (c *Controller) apply(gen uint64, fn func(*cardState)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation.Load() {
		return false
	}

	fn(&c.state)

	return true
}

// View returns a snapshot for rendering.
func (c *Controller) View(ctx context.Context) CardView {
	c.mu.RLock()
	state := c.state
	gen := c.generation.Load()
	c.mu.RUnlock()

	bg := c.surface.Current()
	mode := c.backgrounds.Mode()

	view := CardView{
		Quote:       state.quote,
		Background:  bg,
		Loading:     state.loading,
		Status:      state.status,
		Mode:        mode,
		Generation:  gen,
		RefreshedAt: state.refreshedAt,
	}

	if mode == domain.BackgroundModeRemote && bg.Attribution != nil &&
		c.flagEnabled(ctx, ports.FlagAttributionOverlay) {
		attr := *bg.Attribution
		view.Attribution = &attr
	}

	if state.status == domain.FetchFailed {
		view.HelpPanel = c.flagEnabled(ctx, ports.FlagConfigHelpPanel)

		if state.statusErr != nil {
			view.StatusDetail = state.statusErr.Error()
		}
	}

	return view
}

func (c *Controller) flagEnabled(ctx context.Context, flag string) bool {
	if c.flags == nil {
		return true
	}

	return c.flags.IsEnabled(ctx, flag, true)
}
