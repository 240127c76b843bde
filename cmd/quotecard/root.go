package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotecard/internal/platform/config"
	"github.com/jsamuelsen/quotecard/internal/platform/logging"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	profile   string
	configDir string
}

const rootLong = `quotecard shows a random quote over a background photo.

card.background_mode (APP_CARD_BACKGROUND_MODE) picks where backgrounds
come from:
  remote   a random Unsplash photo, credited on the card. Needs
           UNSPLASH_ACCESS_KEY; without it, or when Unsplash fails, a
           built-in fallback photo is shown with a setup notice.
  curated  a rotating set of built-in Unsplash images. No key needed.`

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	serve := newServeCmd(opts)

	cmd := &cobra.Command{
		Use:   "quotecard",
		Short: "Serve a quote card over a photographic background",
		Long:  rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cmd.PersistentFlags().StringVar(&opts.profile, "profile", profile, "config profile, loads {config-dir}/{profile}.yaml")
	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs", "directory holding base.yaml and profile files")

	cmd.AddCommand(serve, newCardCmd(opts), newVersionCmd())

	return cmd
}

// loadConfig loads and validates configuration, failing fast.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithOptions(config.Options{Profile: o.profile, Dir: o.configDir})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// openLogger builds the process logger from cfg, writing to w. The access
// key is redacted wherever it shows up.
func openLogger(cfg *config.Config, w io.Writer) (*slog.Logger, io.Closer) {
	return logging.Open(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
		Secrets: []string{cfg.Services.Photo.AccessKey},
	}, w)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quotecard %s (%s) built %s\n", Version, Commit, BuildTime)
		},
	}
}
