// Package domain contains core business entities and rules.
package domain

// Quote is a quotation with its author.
// It has no knowledge of the service it was fetched from.
type Quote struct {
	// Text is the quotation itself.
	Text string
	// Author is who said or wrote it.
	Author string
}

// String returns the display form: the text in double quotes followed by
// the em-dash prefixed author.
func (q Quote) String() string {
	return "\"" + q.Text + "\" — " + q.Author
}

// IsZero reports whether the quote has no text.
func (q Quote) IsZero() bool {
	return q.Text == ""
}
