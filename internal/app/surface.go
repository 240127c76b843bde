package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jsamuelsen/quotecard/internal/domain"
	"github.com/jsamuelsen/quotecard/internal/platform/metrics"
	"github.com/jsamuelsen/quotecard/internal/ports"
)

const defaultPreloadTimeout = 8 * time.Second

// BackgroundSurface holds the visible background. An image is committed
// only after it preloaded and only while its generation is the latest.
type BackgroundSurface struct {
	preloader ports.ImagePreloader
	timeout   time.Duration
	latest    func() uint64
	metrics   *metrics.Metrics
	logger    *slog.Logger

	mu        sync.RWMutex
	current   domain.BackgroundImage
	committed uint64
}

// BackgroundSurfaceConfig configures a surface.
type BackgroundSurfaceConfig struct {
	Preloader ports.ImagePreloader

	// Timeout bounds each preload attempt.
	Timeout time.Duration

	// Latest returns the newest refresh generation.
	Latest func() uint64

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewBackgroundSurface creates an empty surface.
// Panics if Preloader or Latest is nil.
func NewBackgroundSurface(cfg BackgroundSurfaceConfig) *BackgroundSurface {
	if cfg.Preloader == nil {
		panic("BackgroundSurface: Preloader is required")
	}

	if cfg.Latest == nil {
		panic("BackgroundSurface: Latest is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPreloadTimeout
	}

	return &BackgroundSurface{
		preloader: cfg.Preloader,
		timeout:   timeout,
		latest:    cfg.Latest,
		metrics:   cfg.Metrics,
		logger:    logger.With(slog.String("component", "app.BackgroundSurface")),
	}
}

// Current returns the committed background, zero before the first commit.
func (s *BackgroundSurface) Current() domain.BackgroundImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Apply preloads candidate and commits it. If that fails, it tries one
// image from fallback. If both fail, or gen is no longer the latest, the
// previous background stays and the error says why.
func (s *BackgroundSurface) Apply(
	ctx context.Context,
	gen uint64,
	candidate domain.BackgroundImage,
	fallback func() domain.BackgroundImage,
) (domain.BackgroundImage, error) {
	return s.Begin(ctx, gen, candidate, fallback)()
}

// Begin is Apply split in two. It returns once the candidate's preload
// request is under way; the returned function waits for it, commits, and
// runs the fallback attempt if needed.
func (s *BackgroundSurface) Begin(
	ctx context.Context,
	gen uint64,
	candidate domain.BackgroundImage,
	fallback func() domain.BackgroundImage,
) func() (domain.BackgroundImage, error) {
	finish := s.start(ctx, gen, candidate)

	return func() (domain.BackgroundImage, error) {
		err := finish()
		if err == nil {
			return candidate, nil
		}

		if IsStale(err) || ctx.Err() != nil || fallback == nil {
			return domain.BackgroundImage{}, err
		}

		s.logger.WarnContext(ctx, "background preload failed, trying fallback",
			slog.Uint64("generation", gen),
			slog.Any("error", err),
		)

		alt := fallback()

		altErr := s.start(ctx, gen, alt)()
		if altErr == nil {
			return alt, nil
		}

		if !IsStale(altErr) {
			s.logger.WarnContext(ctx, "fallback preload failed, keeping previous background",
				slog.Uint64("generation", gen),
				slog.Any("error", altErr),
			)
		}

		return domain.BackgroundImage{}, errors.Join(err, altErr)
	}
}

// start validates img and issues its preload. The returned function
// waits for the preload, verifies gen and commits.
func (s *BackgroundSurface) start(ctx context.Context, gen uint64, img domain.BackgroundImage) func() error {
	if img.IsZero() {
		err := newCommitError(StepValidate, img.URL, domain.NewValidationError("url", "is required"))
		return func() error { return err }
	}

	if gen != s.latest() {
		s.metrics.ObservePreload(metrics.PreloadStale, 0)

		err := newCommitError(StepValidate, img.URL, ErrStale)

		return func() error { return err }
	}

	begun := time.Now()

	preloadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	wait := s.preloader.Preload(preloadCtx, img.URL)

	return func() error {
		err := wait()
		cancel()

		return s.settle(ctx, gen, img, time.Since(begun), err)
	}
}

// settle records a finished preload and commits img when it loaded and
// gen is still the latest.
func (s *BackgroundSurface) settle(
	ctx context.Context,
	gen uint64,
	img domain.BackgroundImage,
	elapsed time.Duration,
	err error,
) error {
	if err != nil {
		s.metrics.ObservePreload(metrics.PreloadFailed, elapsed)
		return newCommitError(StepPreload, img.URL, err)
	}

	if gen != s.latest() {
		s.metrics.ObservePreload(metrics.PreloadStale, elapsed)
		return newCommitError(StepVerify, img.URL, ErrStale)
	}

	if !s.commit(gen, img) {
		s.metrics.ObservePreload(metrics.PreloadStale, elapsed)
		return newCommitError(StepCommit, img.URL, ErrStale)
	}

	s.metrics.ObservePreload(metrics.PreloadCommitted, elapsed)
	s.logger.DebugContext(ctx, "background committed",
		slog.Uint64("generation", gen),
		slog.String("url", img.URL),
		slog.Duration("preload", elapsed),
	)

	return nil
}

// commit swaps in img if gen is still the latest and not older than what
// is already shown.
func (s *BackgroundSurface) commit(gen uint64, img domain.BackgroundImage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.latest() || gen < s.committed {
		return false
	}

	s.current = img
	s.committed = gen

	return true
}
