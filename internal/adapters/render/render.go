// Package render writes a card view as plain text, Markdown or JSON for the
// CLI and the API's non-HTML formats.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsamuelsen/quotecard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotecard/internal/app"
)

// Writer outputs a card in one format.
type Writer interface {
	Write(view app.CardView) error

	// ContentType is the MIME type of the output.
	ContentType() string
}

// Formats lists the accepted format names.
var Formats = []string{dto.FormatText, dto.FormatMarkdown, dto.FormatJSON}

// New returns the writer for format. An empty format means text.
func New(format string, w io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case "", dto.FormatText:
		return NewTextWriter(w), nil
	case dto.FormatMarkdown, "md":
		return NewMarkdownWriter(w), nil
	case dto.FormatJSON:
		return NewJSONWriter(w, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// attributionLine is the credit text shared by the text and Markdown writers.
func attributionLine(view app.CardView) string {
	a := view.Attribution
	return fmt.Sprintf("Photo by %s (@%s) on Unsplash", a.PhotographerName, a.PhotographerHandle)
}
