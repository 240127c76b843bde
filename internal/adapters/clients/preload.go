package clients

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/http/httptrace"
	"strings"
	"sync"

	// Decoders registered for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/jsamuelsen/quotecard/internal/domain"
)

// defaultMaxPreloadBytes is the largest background image accepted.
const defaultMaxPreloadBytes = 16 << 20

// Preloader fetches an image and confirms it is renderable before the card
// commits it as background.
type Preloader struct {
	client   *Client
	maxBytes int64
}

// NewPreloader creates a preloader on top of an instrumented client.
// Images larger than maxBytes fail to preload; maxBytes <= 0 uses the
// default.
func NewPreloader(client *Client, maxBytes int64) *Preloader {
	if maxBytes <= 0 {
		maxBytes = defaultMaxPreloadBytes
	}

	return &Preloader{client: client, maxBytes: maxBytes}
}

// Preload starts downloading url and returns once the request has been
// written, or once it failed before that. wait reports the outcome.
func (p *Preloader) Preload(ctx context.Context, url string) (wait func() error) {
	sent := make(chan struct{})

	var once sync.Once

	markSent := func() { once.Do(func() { close(sent) }) }

	ctx = httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
		WroteRequest: func(httptrace.WroteRequestInfo) { markSent() },
	})

	done := make(chan error, 1)

	go func() {
		defer markSent()
		done <- p.load(ctx, url)
	}()

	<-sent

	return sync.OnceValue(func() error { return <-done })
}

// load succeeds when the response is 2xx, the body fits the size cap, and
// either the image header decodes or the server labels the body as an image.
func (p *Preloader) load(ctx context.Context, url string) error {
	resp, err := p.client.GetURL(ctx, url)
	if err != nil {
		return domain.NewUnavailableError("image", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.NewUnavailableError("image", fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	if resp.ContentLength > p.maxBytes {
		return tooLarge(url, p.maxBytes)
	}

	limited := &io.LimitedReader{R: resp.Body, N: p.maxBytes + 1}
	body := bufio.NewReader(limited)

	_, format, decodeErr := image.DecodeConfig(body)
	if decodeErr != nil && !isImageContentType(resp.Header.Get("Content-Type")) {
		return domain.NewValidationErrorWithValue("image", "body is not a decodable image", url)
	}

	if _, err := io.Copy(io.Discard, body); err != nil {
		return domain.NewUnavailableError("image", fmt.Sprintf("reading body: %v", err))
	}

	if limited.N == 0 {
		return tooLarge(url, p.maxBytes)
	}

	if decodeErr == nil {
		p.client.logger.DebugContext(ctx, "image preloaded", "format", format)
	}

	return nil
}

func tooLarge(url string, maxBytes int64) error {
	return domain.NewValidationErrorWithValue("image", fmt.Sprintf("larger than %d bytes", maxBytes), url)
}

func isImageContentType(ct string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ct)), "image/")
}
