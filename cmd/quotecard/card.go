package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotecard/internal/adapters/render"
)

type cardOptions struct {
	format string
}

func newCardCmd(root *rootOptions) *cobra.Command {
	opts := &cardOptions{}

	cmd := &cobra.Command{
		Use:   "card",
		Short: "Run one refresh and print the card",
		Long: "card runs a single refresh cycle against the configured services " +
			"and prints the settled card. Logs go to stderr.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCard(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: "+strings.Join(render.Formats, ", "))

	return cmd
}

func runCard(cmd *cobra.Command, root *rootOptions, opts *cardOptions) error {
	w, err := render.New(opts.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	logger, logCloser := openLogger(cfg, cmd.ErrOrStderr())
	defer logCloser.Close()

	card, err := buildCard(cfg, logger)
	if err != nil {
		return err
	}
	defer card.controller.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	view, err := card.controller.Refresh(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("refreshing card: %w", err)
	}

	return w.Write(view)
}
