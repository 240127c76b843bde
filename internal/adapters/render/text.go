package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jsamuelsen/quotecard/internal/app"
)

// TextWriter prints the card for a terminal.
type TextWriter struct {
	output io.Writer
}

// NewTextWriter creates a TextWriter.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{output: output}
}

// ContentType implements Writer.
func (w *TextWriter) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Write implements Writer.
func (w *TextWriter) Write(view app.CardView) error {
	b := bufio.NewWriter(w.output)

	if view.Loading {
		fmt.Fprintln(b, "Loading...")
		return b.Flush()
	}

	if view.ShowQuote() {
		fmt.Fprintln(b, view.Quote.String())
		fmt.Fprintln(b)
	}

	if !view.Background.IsZero() {
		fmt.Fprintf(b, "Background: %s\n", view.Background.URL)
	}

	switch {
	case view.ShowAttribution():
		fmt.Fprintln(b, attributionLine(view))
		a := view.Attribution
		fmt.Fprintf(b, "  photographer: %s\n  photo:        %s\n  source:       %s\n",
			a.PhotographerProfileURL, a.PhotoPageURL, a.SourceHomepageURL)
	case view.ShowStatusDot():
		fmt.Fprintf(b, "● %s (%s)\n", view.Status, view.Mode)
	}

	if view.ShowHelpPanel() {
		fmt.Fprintln(b)
		fmt.Fprintln(b, app.HelpPanelTitle)

		if view.StatusDetail != "" {
			fmt.Fprintf(b, "  %s\n", view.StatusDetail)
		}

		for i, step := range app.HelpPanelSteps {
			fmt.Fprintf(b, "  %d. %s\n", i+1, step)
		}
	}

	return b.Flush()
}
