package app

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotecard/internal/domain"
	"github.com/jsamuelsen/quotecard/internal/mocks"
	"github.com/jsamuelsen/quotecard/internal/platform/metrics"
	"github.com/jsamuelsen/quotecard/internal/ports"
)

var remotePhoto = &domain.BackgroundImage{
	URL: "https://images.unsplash.com/photo-abc?w=1080",
	Attribution: &domain.Attribution{
		PhotographerName:       "Jane Doe",
		PhotographerHandle:     "janedoe",
		PhotographerProfileURL: "https://unsplash.com/@janedoe",
		PhotoPageURL:           "https://unsplash.com/photos/abc",
		SourceHomepageURL:      "https://unsplash.com",
	},
}

// callLog records the order of downstream calls.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, name)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.calls...)
}

type controllerDeps struct {
	quotes    *mocks.MockQuoteClient
	photos    *mocks.MockPhotoClient
	preloader *mocks.MockImagePreloader
	flags     ports.FeatureFlags
	mode      domain.BackgroundMode
	timeout   time.Duration
	metrics   *metrics.Metrics
}

func newDeps(t *testing.T, mode domain.BackgroundMode) *controllerDeps {
	t.Helper()

	return &controllerDeps{
		quotes:    mocks.NewMockQuoteClient(t),
		photos:    mocks.NewMockPhotoClient(t),
		preloader: mocks.NewMockImagePreloader(t),
		mode:      mode,
	}
}

func (d *controllerDeps) build(t *testing.T) *Controller {
	t.Helper()

	backgrounds, err := NewBackgroundSource(BackgroundSourceConfig{
		Mode:        d.mode,
		PhotoClient: d.photos,
		Homepage:    "https://unsplash.com",
		Metrics:     d.metrics,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)

	c := NewController(ControllerConfig{
		Quotes: NewQuoteSource(QuoteSourceConfig{
			Client:  d.quotes,
			Picker:  fixedPicker(0),
			Metrics: d.metrics,
			Logger:  discardLogger(),
		}),
		Backgrounds:    backgrounds,
		Preloader:      d.preloader,
		Flags:          d.flags,
		PreloadTimeout: time.Second,
		RefreshTimeout: d.timeout,
		Metrics:        d.metrics,
		Logger:         discardLogger(),
	})
	t.Cleanup(c.Close)

	return c
}

func TestNewController_Panics(t *testing.T) {
	assert.Panics(t, func() { NewController(ControllerConfig{}) })
	assert.Panics(t, func() {
		NewController(ControllerConfig{
			Quotes: NewQuoteSource(QuoteSourceConfig{Client: mocks.NewMockQuoteClient(t)}),
		})
	})
}

func TestController_InitialViewIsLoading(t *testing.T) {
	c := newDeps(t, domain.BackgroundModeCurated).build(t)

	view := c.View(context.Background())

	assert.True(t, view.Loading)
	assert.Equal(t, domain.FetchPending, view.Status)
	assert.False(t, view.ShowQuote())
	assert.False(t, view.ShowAttribution())
	assert.False(t, view.ShowHelpPanel())
	assert.Equal(t, uint64(0), view.Generation)
}

func TestController_RefreshRemoteSuccess(t *testing.T) {
	d := newDeps(t, domain.BackgroundModeRemote)
	d.photos.EXPECT().GetRandomPhoto(mock.Anything, int64(1)).Return(remotePhoto, nil)
	d.preloader.EXPECT().Preload(mock.Anything, remotePhoto.URL).Return(preloaded(nil))
	d.quotes.EXPECT().GetRandomQuote(mock.Anything).Return(&domain.Quote{Text: "Keep going.", Author: "Ada"}, nil)

	c := d.build(t)

	view, err := c.Refresh(context.Background())

	require.NoError(t, err)
	assert.False(t, view.Loading)
	assert.Equal(t, uint64(1), view.Generation)
	assert.Equal(t, `"Keep going." — Ada`, view.Quote.String())
	assert.Equal(t, domain.FetchSucceeded, view.Status)
	assert.Equal(t, remotePhoto.URL, view.Background.URL)
	require.NotNil(t, view.Attribution)
	assert.Equal(t, "janedoe", view.Attribution.PhotographerHandle)
	assert.True(t, view.ShowQuote())
	assert.True(t, view.ShowAttribution())
	assert.False(t, view.ShowStatusDot())
	assert.False(t, view.ShowHelpPanel())
	assert.False(t, view.RefreshedAt.IsZero())
	assert.Equal(t, domain.BackgroundModeRemote, c.Mode())
}

func TestController_PreloadStartsBeforeQuote(t *testing.T) {
	const cycles = 50

	var log callLog

	d := newDeps(t, domain.BackgroundModeRemote)
	d.photos.EXPECT().GetRandomPhoto(mock.Anything, mock.Anything).
		Run(func(context.Context, int64) { log.add("background") }).
		Return(remotePhoto, nil)
	d.preloader.EXPECT().Preload(mock.Anything, mock.Anything).
		Run(func(context.Context, string) { log.add("preload") }).
		Return(preloaded(nil))
	d.quotes.EXPECT().GetRandomQuote(mock.Anything).
		Run(func(context.Context) { log.add("quote") }).
		Return(&domain.Quote{Text: "a", Author: "b"}, nil)

	c := d.build(t)

	for range cycles {
		_, err := c.Refresh(context.Background())
		require.NoError(t, err)
	}

	calls := log.snapshot()
	require.Len(t, calls, 3*cycles)

	for i := 0; i < len(calls); i += 3 {
		assert.Equal(t, []string{"background", "preload", "quote"}, calls[i:i+3], "cycle %d", i/3+1)
	}
}

func TestController_QuoteOverlapsPreload(t *testing.T) {
	quoteRequested := make(chan struct{})

	d := newDeps(t, domain.BackgroundModeRemote)
	d.photos.EXPECT().GetRandomPhoto(mock.Anything, mock.Anything).Return(remotePhoto, nil)
	d.preloader.EXPECT().Preload(mock.Anything, remotePhoto.URL).Return(func() error {
		<-quoteRequested
		return nil
	})
	d.quotes.EXPECT().GetRandomQuote(mock.Anything).RunAndReturn(func(context.Context) (*domain.Quote, error) {
		close(quoteRequested)
		return &domain.Quote{Text: "Keep going.", Author: "Ada"}, nil
	})

	c := d.build(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	view, err := c.Refresh(ctx)

	require.NoError(t, err)
	assert.Equal(t, remotePhoto.URL, view.Background.URL)
	assert.Equal(t, "Keep going.", view.Quote.Text)
}

func TestController_PhotoUnauthorizedShowsPlaceholderAndHelp(t *testing.T) {
	d := newDeps(t, domain.BackgroundModeRemote)
	d.photos.EXPECT().GetRandomPhoto(mock.Anything, mock.Anything).
		Return(nil, domain.NewForbiddenError("random photo", "authentication required"))
	d.preloader.EXPECT().Preload(mock.Anything, mock.Anything).Return(preloaded(nil))
	d.quotes.EXPECT().GetRandomQuote(mock.Anything).Return(&domain.Quote{Text: "a", Author: "b"}, nil)

	c := d.build(t)

	view, err := c.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.FetchFailed, view.Status)
	assert.True(t, view.ShowHelpPanel())
	assert.Contains(t, view.StatusDetail, "authentication required")
	require.NotNil(t, view.Attribution)
	assert.Equal(t, "https://unsplash.com", view.Attribution.PhotographerProfileURL)
	assert.Equal(t, "https://unsplash.com", view.Attribution.PhotoPageURL)
	assert.True(t, strings.Contains(view.Background.URL, "?t="))
}

func TestController_FlagsHideHelpAndAttribution(t *testing.T) {
	flags := mocks.NewMockFeatureFlags(t)
	flags.EXPECT().IsEnabled(mock.Anything, ports.FlagConfigHelpPanel, true).Return(false)
	flags.EXPECT().IsEnabled(mock.Anything, ports.FlagAttributionOverlay, true).Return(false)

	d := newDeps(t, domain.BackgroundModeRemote)
	d.flags = flags
	d.photos.EXPECT().GetRandomPhoto(mock.Anything, mock.Anything).
		Return(nil, domain.NewNotConfiguredError("UNSPLASH_ACCESS_KEY", ""))
	d.preloader.EXPECT().Preload(mock.Anything, mock.Anything).Return(preloaded(nil))
	d.quotes.EXPECT().GetRandomQuote(mock.Anything).Return(&domain.Quote{Text: "a", Author: "b"}, nil)

	c := d.build(t)

	view, err := c.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.FetchFailed, view.Status)
	assert.False(t, view.ShowHelpPanel())
	assert.Nil(t, view.Attribution)
	assert.True(t, view.ShowStatusDot())
}

func TestController_CuratedModeHasNoAttribution(t *testing.T) {
	d := newDeps(t, domain.BackgroundModeCurated)
	d.preloader.EXPECT().Preload(mock.Anything, mock.Anything).Return(preloaded(nil))
	d.quotes.EXPECT().GetRandomQuote(mock.Anything).Return(nil, domain.NewUnavailableError("quote-service", "down"))

	c := d.build(t)

	view, err := c.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.FetchSucceeded, view.Status)
	assert.Nil(t, view.Attribution)
	assert.True(t, view.ShowStatusDot())
	assert.Equal(t, domain.FallbackQuotes.At(0), view.Quote)
	assert.True(t, strings.HasPrefix(view.Background.URL, "https://images.unsplash.com/photo-"))
}

func TestController_PreloadFailureKeepsPreviousBackground(t *testing.T) {
	d := newDeps(t, domain.BackgroundModeCurated)
	d.quotes.EXPECT().GetRandomQuote(mock.Anything).Return(&domain.Quote{Text: "a", Author: "b"}, nil)
	d.preloader.EXPECT().Preload(mock.Anything, mock.Anything).Return(preloaded(nil)).Once()

	c := d.build(t)

	first, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.False(t, first.Background.IsZero())

	d.preloader.EXPECT().Preload(mock.Anything, mock.Anything).Return(preloaded(domain.NewUnavailableError("image", "HTTP 404")))

	second, err := c.Refresh(context.Background())

	require.NoError(t, err)
	assert.False(t, second.Loading)
	assert.Equal(t, first.Background, second.Background)
	assert.Equal(t, domain.FetchSucceeded, second.Status)
}

func TestController_StaleCycleIsDiscarded(t *testing.T) {
	reg := prometheus.NewRegistry()

	d := newDeps(t, domain.BackgroundModeCurated)
	d.metrics = metrics.New(reg)
	d.preloader.EXPECT().Preload(mock.Anything, mock.Anything).Return(preloaded(nil))

	entered := make(chan struct{})
	release := make(chan struct{})

	var calls atomic.Int32

	d.quotes.EXPECT().GetRandomQuote(mock.Anything).RunAndReturn(func(context.Context) (*domain.Quote, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release

			return &domain.Quote{Text: "Old", Author: "First"}, nil
		}

		return &domain.Quote{Text: "New", Author: "Second"}, nil
	})

	c := d.build(t)

	first := c.RefreshAsync()
	<-entered

	assert.True(t, c.View(context.Background()).Loading)

	view, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "New", view.Quote.Text)
	assert.False(t, view.Loading)

	close(release)
	c.Close()

	final := c.View(context.Background())
	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), final.Generation)
	assert.Equal(t, "New", final.Quote.Text, "the superseded cycle must not overwrite the quote")
	assert.False(t, final.Loading)

	expected := `
# HELP quotecard_refresh_cycles_total Refresh cycles, by outcome.
# TYPE quotecard_refresh_cycles_total counter
quotecard_refresh_cycles_total{outcome="applied"} 1
quotecard_refresh_cycles_total{outcome="stale"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "quotecard_refresh_cycles_total"))
}

func TestController_RefreshTimeoutClearsLoading(t *testing.T) {
	d := newDeps(t, domain.BackgroundModeCurated)
	d.timeout = 50 * time.Millisecond
	d.preloader.EXPECT().Preload(mock.Anything, mock.Anything).Return(preloaded(nil))
	d.quotes.EXPECT().GetRandomQuote(mock.Anything).RunAndReturn(func(ctx context.Context) (*domain.Quote, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	c := d.build(t)

	view, err := c.Refresh(context.Background())

	require.NoError(t, err)
	assert.False(t, view.Loading)
	assert.Equal(t, domain.FallbackQuotes.At(0), view.Quote)
}

func TestController_RefreshReturnsWhenCallerGivesUp(t *testing.T) {
	d := newDeps(t, domain.BackgroundModeCurated)
	d.preloader.EXPECT().Preload(mock.Anything, mock.Anything).Return(preloaded(nil))

	release := make(chan struct{})
	d.quotes.EXPECT().GetRandomQuote(mock.Anything).RunAndReturn(func(context.Context) (*domain.Quote, error) {
		<-release
		return &domain.Quote{Text: "Late", Author: "Arrival"}, nil
	})

	c := d.build(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	view, err := c.Refresh(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, view.Loading)

	close(release)
	c.Close()

	assert.Equal(t, "Late", c.View(context.Background()).Quote.Text)
}

func TestController_CloseCancelsCycles(t *testing.T) {
	d := newDeps(t, domain.BackgroundModeCurated)
	d.preloader.EXPECT().Preload(mock.Anything, mock.Anything).Return(preloaded(nil)).Maybe()

	entered := make(chan struct{})
	d.quotes.EXPECT().GetRandomQuote(mock.Anything).RunAndReturn(func(ctx context.Context) (*domain.Quote, error) {
		close(entered)
		<-ctx.Done()

		return nil, ctx.Err()
	})

	c := d.build(t)
	require.NoError(t, c.Check(context.Background()))
	assert.Equal(t, "card", c.Name())

	c.Mount()
	<-entered

	done := make(chan struct{})

	go func() {
		c.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not cancel the running cycle")
	}

	_, err := c.Refresh(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, c.Check(context.Background()), ErrClosed)
	assert.Equal(t, uint64(0), c.RefreshAsync())
	assert.NotPanics(t, c.Close)
}
