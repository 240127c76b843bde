package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotecard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotecard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotecard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotecard/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API and refresh requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// ServiceName names the server spans.
	ServiceName string

	// HealthHandler serves the /-/ health endpoints.
	HealthHandler *handlers.HealthHandler

	// CardHandler serves the page and /api/v1/card.
	CardHandler *handlers.CardHandler

	// Timeout is the request deadline for API and refresh routes.
	Timeout time.Duration

	// Compression enables brotli/gzip response encoding.
	Compression bool
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing, then request metrics
//  5. Logging (skips /-/ health paths)
//  6. Compression, when enabled
//
// Route groups:
//   - /-/ health endpoints, no deadline
//   - / and /refresh, the page
//   - /api/v1/ the JSON API, with a deadline
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(),
	)

	if cfg.Compression {
		engine.Use(middleware.Compress())
	}

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	if cfg.CardHandler != nil {
		cfg.CardHandler.RegisterCardRoutes(
			engine.Group("", middleware.Deadline(timeout)),
			engine.Group("/api/v1", middleware.Deadline(timeout)),
		)
	}

	engine.NoRoute(func(c *gin.Context) {
		handlers.AbortWithErrorCode(c, dto.ErrorCodeNotFound, "no route for "+c.Request.URL.Path)
	})

	engine.NoMethod(func(c *gin.Context) {
		errResp := dto.NewErrorResponse(dto.ErrorCodeBadRequest, c.Request.Method+" is not allowed on "+c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, errResp.WithTraceID(dto.TraceID(c.Request.Context())))
	})
}

// SetupMinimalRouter sets up only the health endpoints.
func SetupMinimalRouter(engine *gin.Engine, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}
