package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jsamuelsen/quotecard/internal/domain"
	"github.com/jsamuelsen/quotecard/internal/platform/metrics"
	"github.com/jsamuelsen/quotecard/internal/ports"
)

const (
	defaultImageBaseURL = "https://images.unsplash.com"
	defaultHomepage     = "https://unsplash.com"
	defaultImageWidth   = 1920
	defaultImageQuality = 80
)

// BackgroundSourceConfig selects and configures a background source.
type BackgroundSourceConfig struct {
	Mode domain.BackgroundMode

	// PhotoClient is required in remote mode.
	PhotoClient ports.PhotoClient

	// Homepage is the photo service homepage for placeholder attribution.
	Homepage string

	// ImageBaseURL, ImageWidth and ImageQuality shape curated image URLs.
	ImageBaseURL string
	ImageWidth   int
	ImageQuality int

	// FallbackURLs defaults to domain.FallbackImageURLs.
	FallbackURLs *domain.Pool[string]

	// CuratedIDs defaults to domain.CuratedImageIDs.
	CuratedIDs *domain.Pool[string]

	Picker  domain.Picker
	Now     func() time.Time
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewBackgroundSource returns the source for cfg.Mode.
func NewBackgroundSource(cfg BackgroundSourceConfig) (ports.BackgroundSource, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pick := cfg.Picker
	if pick == nil {
		pick = domain.RandomPicker
	}

	buster := newCacheBuster(cfg.Now)

	switch cfg.Mode {
	case domain.BackgroundModeRemote:
		if cfg.PhotoClient == nil {
			return nil, errors.New("remote background mode requires a photo client")
		}

		fallback := domain.FallbackImageURLs
		if cfg.FallbackURLs != nil {
			fallback = *cfg.FallbackURLs
		}

		homepage := cfg.Homepage
		if homepage == "" {
			homepage = defaultHomepage
		}

		return &RemoteBackgroundSource{
			client:   cfg.PhotoClient,
			fallback: fallback,
			homepage: homepage,
			pick:     pick,
			buster:   buster,
			metrics:  cfg.Metrics,
			logger:   logger.With(slog.String("component", "app.RemoteBackgroundSource")),
		}, nil

	case domain.BackgroundModeCurated:
		ids := domain.CuratedImageIDs
		if cfg.CuratedIDs != nil {
			ids = *cfg.CuratedIDs
		}

		base := strings.TrimSuffix(cfg.ImageBaseURL, "/")
		if base == "" {
			base = defaultImageBaseURL
		}

		width := cfg.ImageWidth
		if width <= 0 {
			width = defaultImageWidth
		}

		quality := cfg.ImageQuality
		if quality <= 0 {
			quality = defaultImageQuality
		}

		return &CuratedBackgroundSource{
			ids:     ids,
			baseURL: base,
			width:   width,
			quality: quality,
			pick:    pick,
			buster:  buster,
			metrics: cfg.Metrics,
		}, nil

	default:
		return nil, fmt.Errorf("unknown background mode %q", cfg.Mode)
	}
}

// RemoteBackgroundSource looks up a random photo on every call.
type RemoteBackgroundSource struct {
	client   ports.PhotoClient
	fallback domain.Pool[string]
	homepage string
	pick     domain.Picker
	buster   *cacheBuster
	token    atomic.Int64
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Mode implements ports.BackgroundSource.
func (s *RemoteBackgroundSource) Mode() domain.BackgroundMode {
	return domain.BackgroundModeRemote
}

// GetBackground requests one photo. Any failure, including a missing
// access key, yields a fallback image with placeholder attribution.
func (s *RemoteBackgroundSource) GetBackground(ctx context.Context) domain.BackgroundResult {
	token := s.token.Add(1)

	img, err := s.client.GetRandomPhoto(ctx, token)
	if err == nil && (img == nil || img.IsZero()) {
		err = domain.NewValidationError("url", "photo service returned no image")
	}

	if err != nil {
		result := domain.FellBack(s.Fallback(), err)
		s.metrics.ObserveBackground(string(domain.BackgroundModeRemote), result.Status.String())

		level := slog.LevelWarn
		if domain.IsNotConfigured(err) {
			level = slog.LevelInfo
		}

		s.logger.Log(ctx, level, "using fallback background",
			slog.Any("error", err),
			slog.Int64("sig", token),
			slog.String("url", result.Image.URL),
		)

		return result
	}

	s.metrics.ObserveBackground(string(domain.BackgroundModeRemote), domain.FetchSucceeded.String())
	s.logger.DebugContext(ctx, "fetched remote background", slog.String("url", img.URL))

	return domain.Succeeded(*img)
}

// Fallback picks from the static pool with a fresh cache-buster.
func (s *RemoteBackgroundSource) Fallback() domain.BackgroundImage {
	base := s.fallback.Pick(s.pick)

	return domain.BackgroundImage{
		URL:         appendQuery(base, url.Values{"t": {s.buster.next()}}),
		Attribution: domain.PlaceholderAttribution(s.homepage),
	}
}

// CuratedBackgroundSource builds image URLs from a fixed list of photo
// identifiers and never makes a lookup call.
type CuratedBackgroundSource struct {
	ids     domain.Pool[string]
	baseURL string
	width   int
	quality int
	pick    domain.Picker
	buster  *cacheBuster
	metrics *metrics.Metrics
}

// Mode implements ports.BackgroundSource.
func (s *CuratedBackgroundSource) Mode() domain.BackgroundMode {
	return domain.BackgroundModeCurated
}

// GetBackground always succeeds.
func (s *CuratedBackgroundSource) GetBackground(_ context.Context) domain.BackgroundResult {
	s.metrics.ObserveBackground(string(domain.BackgroundModeCurated), domain.FetchSucceeded.String())

	return domain.Succeeded(s.Fallback())
}

// Fallback picks another curated image.
func (s *CuratedBackgroundSource) Fallback() domain.BackgroundImage {
	id := s.ids.Pick(s.pick)

	// Keys are written in a fixed order: fm, fit, w, q, t.
	return domain.BackgroundImage{
		URL: s.baseURL + "/photo-" + id +
			"?fm=jpg&fit=crop" +
			"&w=" + strconv.Itoa(s.width) +
			"&q=" + strconv.Itoa(s.quality) +
			"&t=" + s.buster.next(),
	}
}

func appendQuery(rawURL string, query url.Values) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}

	return rawURL + sep + query.Encode()
}

// cacheBuster issues strictly increasing millisecond timestamps.
type cacheBuster struct {
	last atomic.Int64
	now  func() time.Time
}

func newCacheBuster(now func() time.Time) *cacheBuster {
	if now == nil {
		now = time.Now
	}

	return &cacheBuster{now: now}
}

// next returns max(now, last+1) in milliseconds.
func (c *cacheBuster) next() string {
	for {
		last := c.last.Load()

		ts := c.now().UnixMilli()
		if ts <= last {
			ts = last + 1
		}

		if c.last.CompareAndSwap(last, ts) {
			return strconv.FormatInt(ts, 10)
		}
	}
}
