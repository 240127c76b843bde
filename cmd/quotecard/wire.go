package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quotecard/internal/adapters/clients"
	"github.com/jsamuelsen/quotecard/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotecard/internal/adapters/flags"
	"github.com/jsamuelsen/quotecard/internal/app"
	"github.com/jsamuelsen/quotecard/internal/domain"
	"github.com/jsamuelsen/quotecard/internal/platform/config"
	"github.com/jsamuelsen/quotecard/internal/platform/metrics"
	"github.com/jsamuelsen/quotecard/internal/ports"
)

// cardStack is the assembled card and what the server exposes about it.
type cardStack struct {
	controller *app.Controller
	health     *ports.DefaultHealthRegistry
	gatherer   prometheus.Gatherer
}

// buildCard wires clients, sources and the controller from cfg.
func buildCard(cfg *config.Config, logger *slog.Logger) (*cardStack, error) {
	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	quoteHTTP, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating quote client: %w", err)
	}

	photoHTTP, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Photo.BaseURL,
		ServiceName: cfg.Services.Photo.Name,
		Timeout:     cfg.Client.Timeout,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Headers:     acl.PhotoHeaders(),
		AuthFunc:    acl.ClientIDAuth(cfg.Services.Photo.AccessKey),
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating photo client: %w", err)
	}

	imageHTTP, err := clients.New(&clients.Config{
		ServiceName: "image",
		Timeout:     cfg.Card.PreloadTimeout,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Headers:     clients.NoCacheHeaders,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating image client: %w", err)
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client: quoteHTTP,
		Tags:   cfg.Services.Quote.Tags,
		Logger: logger,
	})

	photoClient := acl.NewPhotoClient(acl.PhotoClientConfig{
		Client:      photoHTTP,
		AccessKey:   cfg.Services.Photo.AccessKey,
		Query:       cfg.Services.Photo.Query,
		Orientation: cfg.Services.Photo.Orientation,
		Homepage:    cfg.Services.Photo.Homepage,
		Logger:      logger,
	})

	mode := domain.BackgroundMode(cfg.Card.BackgroundMode)

	backgrounds, err := app.NewBackgroundSource(app.BackgroundSourceConfig{
		Mode:         mode,
		PhotoClient:  photoClient,
		Homepage:     cfg.Services.Photo.Homepage,
		ImageBaseURL: cfg.Card.ImageBaseURL,
		ImageWidth:   cfg.Card.ImageWidth,
		ImageQuality: cfg.Card.ImageQuality,
		Metrics:      m,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating background source: %w", err)
	}

	controller := app.NewController(app.ControllerConfig{
		Quotes: app.NewQuoteSource(app.QuoteSourceConfig{
			Client:  quoteClient,
			Metrics: m,
			Logger:  logger,
		}),
		Backgrounds:    backgrounds,
		Preloader:      clients.NewPreloader(imageHTTP, cfg.Card.PreloadMaxBytes),
		Flags:          flags.NewStatic(cfg.Flags, logger),
		PreloadTimeout: cfg.Card.PreloadTimeout,
		RefreshTimeout: cfg.Card.RefreshTimeout,
		Metrics:        m,
		Logger:         logger,
	})

	health := ports.NewHealthRegistry()

	err = health.Register(controller)
	if err == nil {
		err = health.RegisterOptional(quoteClient)
	}

	if err == nil && mode == domain.BackgroundModeRemote {
		err = health.RegisterOptional(photoClient)
	}

	if err != nil {
		controller.Close()
		return nil, fmt.Errorf("registering health checks: %w", err)
	}

	logger.Info("card assembled",
		slog.String("background_mode", string(mode)),
		slog.Bool("photo_key_configured", photoClient.Configured()),
	)

	return &cardStack{
		controller: controller,
		health:     health,
		gatherer:   registry,
	}, nil
}
