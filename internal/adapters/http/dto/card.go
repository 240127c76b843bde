package dto

import (
	"time"

	"github.com/jsamuelsen/quotecard/internal/app"
)

// Output formats accepted by CardQuery.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// CardQuery selects how GET /api/v1/card encodes the card.
type CardQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=json markdown text"`
}

// RefreshQuery controls whether a refresh request waits for the cycle.
type RefreshQuery struct {
	Wait *bool `form:"wait"`
}

// ShouldWait defaults to true.
func (q RefreshQuery) ShouldWait() bool {
	return q.Wait == nil || *q.Wait
}

// CardResponse is the wire form of the card view.
type CardResponse struct {
	Generation  uint64               `json:"generation"`
	Loading     bool                 `json:"loading"`
	Mode        string               `json:"mode"`
	Status      string               `json:"status"`
	Quote       *QuoteResponse       `json:"quote,omitempty"`
	Background  BackgroundResponse   `json:"background"`
	Attribution *AttributionResponse `json:"attribution,omitempty"`
	HelpPanel   *HelpPanelResponse   `json:"helpPanel,omitempty"`
	RefreshedAt *time.Time           `json:"refreshedAt,omitempty"`
}

// QuoteResponse carries the quote and its display form.
type QuoteResponse struct {
	Text    string `json:"text"`
	Author  string `json:"author"`
	Display string `json:"display"`
}

// BackgroundResponse is the committed background. StatusDot is true when
// no attribution is shown.
type BackgroundResponse struct {
	URL       string `json:"url,omitempty"`
	StatusDot bool   `json:"statusDot"`
}

// AttributionResponse credits the photographer.
type AttributionResponse struct {
	Name       string `json:"name"`
	Handle     string `json:"handle"`
	ProfileURL string `json:"profileUrl"`
	PhotoURL   string `json:"photoUrl"`
	SourceURL  string `json:"sourceUrl"`
}

// HelpPanelResponse is the developer notice for a failed photo lookup.
type HelpPanelResponse struct {
	Title  string   `json:"title"`
	Steps  []string `json:"steps"`
	Detail string   `json:"detail,omitempty"`
}

// NewCardResponse converts a view. Quote, attribution and help panel are
// omitted while the card is loading.
func NewCardResponse(v app.CardView) CardResponse {
	resp := CardResponse{
		Generation: v.Generation,
		Loading:    v.Loading,
		Mode:       string(v.Mode),
		Status:     v.Status.String(),
		Background: BackgroundResponse{
			URL:       v.Background.URL,
			StatusDot: v.ShowStatusDot(),
		},
	}

	if v.ShowQuote() {
		resp.Quote = &QuoteResponse{
			Text:    v.Quote.Text,
			Author:  v.Quote.Author,
			Display: v.Quote.String(),
		}
	}

	if v.ShowAttribution() {
		a := v.Attribution
		resp.Attribution = &AttributionResponse{
			Name:       a.PhotographerName,
			Handle:     a.PhotographerHandle,
			ProfileURL: a.PhotographerProfileURL,
			PhotoURL:   a.PhotoPageURL,
			SourceURL:  a.SourceHomepageURL,
		}
	}

	if v.ShowHelpPanel() {
		resp.HelpPanel = &HelpPanelResponse{
			Title:  app.HelpPanelTitle,
			Steps:  app.HelpPanelSteps,
			Detail: v.StatusDetail,
		}
	}

	if !v.RefreshedAt.IsZero() {
		t := v.RefreshedAt.UTC()
		resp.RefreshedAt = &t
	}

	return resp
}
