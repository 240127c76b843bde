package render

import (
	"io"

	"github.com/nao1215/markdown"

	"github.com/jsamuelsen/quotecard/internal/app"
)

// MarkdownWriter outputs the card as GitHub-flavored Markdown.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// ContentType implements Writer.
func (w *MarkdownWriter) ContentType() string {
	return "text/markdown; charset=utf-8"
}

// Write implements Writer.
func (w *MarkdownWriter) Write(view app.CardView) error {
	md := markdown.NewMarkdown(w.output)

	if view.Loading {
		md.PlainText("_Loading..._")
		return md.Build()
	}

	if view.ShowQuote() {
		md.Blockquote(view.Quote.String())
		md.PlainText("")
	}

	if !view.Background.IsZero() {
		md.PlainText(markdown.Image("background", view.Background.URL))
		md.PlainText("")
	}

	switch {
	case view.ShowAttribution():
		a := view.Attribution
		md.PlainTextf("Photo by %s on %s (%s)",
			markdown.Link(a.PhotographerName+" (@"+a.PhotographerHandle+")", a.PhotographerProfileURL),
			markdown.Link("Unsplash", a.SourceHomepageURL),
			markdown.Link("view photo", a.PhotoPageURL),
		)
		md.PlainText("")
	case view.ShowStatusDot():
		md.Table(markdown.TableSet{
			Header: []string{"Mode", "Status"},
			Rows:   [][]string{{string(view.Mode), view.Status.String()}},
		})
		md.PlainText("")
	}

	if view.ShowHelpPanel() {
		md.H2(app.HelpPanelTitle)
		md.PlainText("")

		if view.StatusDetail != "" {
			md.Warning(view.StatusDetail)
			md.PlainText("")
		}

		md.OrderedList(app.HelpPanelSteps...)
	}

	return md.Build()
}
