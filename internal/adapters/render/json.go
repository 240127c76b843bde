package render

import (
	"encoding/json"
	"io"

	"github.com/jsamuelsen/quotecard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotecard/internal/app"
)

// JSONWriter outputs the card in the same shape as GET /api/v1/card.
type JSONWriter struct {
	output io.Writer
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint indents output by two spaces.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = "  "
	}
}

// NewJSONWriter creates a JSONWriter. Output is compact unless an option
// says otherwise.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{output: output}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// ContentType implements Writer.
func (w *JSONWriter) ContentType() string {
	return "application/json; charset=utf-8"
}

// Write implements Writer.
func (w *JSONWriter) Write(view app.CardView) error {
	enc := json.NewEncoder(w.output)
	enc.SetIndent("", w.indent)

	return enc.Encode(dto.NewCardResponse(view))
}
