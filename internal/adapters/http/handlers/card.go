package handlers

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	ginrender "github.com/gin-gonic/gin/render"

	"github.com/jsamuelsen/quotecard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotecard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotecard/internal/adapters/render"
	"github.com/jsamuelsen/quotecard/internal/app"
	"github.com/jsamuelsen/quotecard/internal/platform/logging"
)

// PageTitle is the <title> of the card page.
const PageTitle = "Quote Card"

//go:embed templates/card.html
var templateFS embed.FS

var cardTemplate = template.Must(template.ParseFS(templateFS, "templates/card.html"))

// CardController is the part of the controller the handlers drive.
type CardController interface {
	View(ctx context.Context) app.CardView
	Refresh(ctx context.Context) (app.CardView, error)
	RefreshAsync() uint64
}

// CardHandler serves the card page and its JSON API.
type CardHandler struct {
	controller CardController
}

// NewCardHandler creates a card handler.
func NewCardHandler(controller CardController) *CardHandler {
	return &CardHandler{controller: controller}
}

type pageData struct {
	Title string
	Card  dto.CardResponse
}

// Page handles GET /.
func (h *CardHandler) Page(c *gin.Context) {
	view := h.controller.View(c.Request.Context())
	setGeneration(c, view.Generation)

	c.Render(http.StatusOK, ginrender.HTML{
		Template: cardTemplate,
		Name:     "card.html",
		Data:     pageData{Title: PageTitle, Card: dto.NewCardResponse(view)},
	})
}

// PageRefresh handles POST /refresh from the page's form. It starts a
// cycle and redirects back to the page, which shows the loading state.
func (h *CardHandler) PageRefresh(c *gin.Context) {
	gen := h.controller.RefreshAsync()
	if gen == 0 {
		c.String(http.StatusServiceUnavailable, "The card is shutting down.")
		return
	}

	setGeneration(c, gen)
	c.Redirect(http.StatusSeeOther, "/")
}

// GetCard handles GET /api/v1/card.
func (h *CardHandler) GetCard(c *gin.Context) {
	var q dto.CardQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		RespondWithBindError(c, err)
		return
	}

	view := h.controller.View(c.Request.Context())
	setGeneration(c, view.Generation)

	if q.Format == "" || q.Format == dto.FormatJSON {
		c.JSON(http.StatusOK, dto.NewCardResponse(view))
		return
	}

	var buf bytes.Buffer

	w, err := render.New(q.Format, &buf)
	if err != nil {
		RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	if err := w.Write(view); err != nil {
		RespondWithError(c, err)
		return
	}

	c.Data(http.StatusOK, w.ContentType(), buf.Bytes())
}

// RefreshCard handles POST /api/v1/card/refresh. With wait=false it
// returns 202 and the loading view at once. Otherwise it waits for the
// cycle; if the request deadline passes first the cycle continues and
// the response is 202 with the view as it stands.
func (h *CardHandler) RefreshCard(c *gin.Context) {
	var q dto.RefreshQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		RespondWithBindError(c, err)
		return
	}

	ctx := c.Request.Context()

	if !q.ShouldWait() {
		if h.controller.RefreshAsync() == 0 {
			RespondWithErrorCode(c, dto.ErrorCodeUnavailable, "card is shutting down")
			return
		}

		view := h.controller.View(ctx)
		setGeneration(c, view.Generation)
		c.JSON(http.StatusAccepted, dto.NewCardResponse(view))

		return
	}

	view, err := h.controller.Refresh(ctx)
	setGeneration(c, view.Generation)

	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.NewCardResponse(view))
	case errors.Is(err, app.ErrClosed):
		RespondWithErrorCode(c, dto.ErrorCodeUnavailable, "card is shutting down")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		logging.FromContext(ctx).Info("refresh still running after request ended",
			"generation", view.Generation,
		)
		c.JSON(http.StatusAccepted, dto.NewCardResponse(view))
	default:
		RespondWithError(c, err)
	}
}

// RegisterCardRoutes registers the page routes on page and the API
// routes on api:
//   - GET  /
//   - POST /refresh
//   - GET  {api}/card
//   - POST {api}/card/refresh
func (h *CardHandler) RegisterCardRoutes(page, api gin.IRoutes) {
	page.GET("/", h.Page)
	page.POST("/refresh", h.PageRefresh)

	api.GET("/card", h.GetCard)
	api.POST("/card/refresh", h.RefreshCard)
}

func setGeneration(c *gin.Context, gen uint64) {
	c.Header(middleware.HeaderGeneration, strconv.FormatUint(gen, 10))
}
