package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotecard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotecard/internal/platform/logging"
)

// Recovery turns a panic into a 500 and logs it with the stack. API and
// JSON-accepting clients get the error envelope, browsers get plain text.
// It must be the first middleware in the chain.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			ctx := c.Request.Context()

			var traceID string
			if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
				traceID = sc.TraceID().String()
			}

			logging.FromContext(ctx).ErrorContext(ctx, "panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			if wantsJSON(c.Request) {
				resp := dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred").WithTraceID(traceID)
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)

				return
			}

			c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8",
				[]byte("Something went wrong rendering the card. Please try again."))
			c.Abort()
		}()

		c.Next()
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
