package middleware

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// Compress encodes response bodies with brotli or gzip, whichever the
// client accepts. Health paths under /-/ are left alone; promhttp does its
// own negotiation.
func Compress() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/-/") || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		cw := &compressWriter{ResponseWriter: c.Writer, req: c.Request}
		c.Writer = cw

		defer func() {
			_ = cw.Close()
		}()

		c.Next()
	}
}

// compressWriter starts the encoder on the first body write, so responses
// without a body (redirects, 204) go out untouched.
type compressWriter struct {
	gin.ResponseWriter
	req *http.Request
	enc io.WriteCloser
}

func (w *compressWriter) Write(b []byte) (int, error) {
	if w.enc == nil {
		w.Header().Del("Content-Length")
		w.enc = brotli.HTTPCompressor(w.ResponseWriter, w.req)
	}

	return w.enc.Write(b)
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *compressWriter) Close() error {
	if w.enc == nil {
		return nil
	}

	return w.enc.Close()
}
