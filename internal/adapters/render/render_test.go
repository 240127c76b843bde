package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotecard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotecard/internal/app"
	"github.com/jsamuelsen/quotecard/internal/domain"
)

func remoteView() app.CardView {
	attr := &domain.Attribution{
		PhotographerName:       "Jane Doe",
		PhotographerHandle:     "janedoe",
		PhotographerProfileURL: "https://unsplash.com/@janedoe",
		PhotoPageURL:           "https://unsplash.com/photos/abc",
		SourceHomepageURL:      "https://unsplash.com",
	}

	return app.CardView{
		Quote:       domain.Quote{Text: "Keep going.", Author: "Ada"},
		Background:  domain.BackgroundImage{URL: "https://images.unsplash.com/photo-abc", Attribution: attr},
		Attribution: attr,
		Status:      domain.FetchSucceeded,
		Mode:        domain.BackgroundModeRemote,
		Generation:  1,
		RefreshedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func failedView() app.CardView {
	return app.CardView{
		Quote:        domain.FallbackQuotes.At(0),
		Background:   domain.BackgroundImage{URL: domain.FallbackImageURLs.At(0) + "?t=1"},
		Status:       domain.FetchFailed,
		Mode:         domain.BackgroundModeRemote,
		HelpPanel:    true,
		StatusDetail: "UNSPLASH_ACCESS_KEY is not configured",
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	tests := map[string]Writer{
		"":         &TextWriter{},
		"text":     &TextWriter{},
		"TEXT":     &TextWriter{},
		"markdown": &MarkdownWriter{},
		"md":       &MarkdownWriter{},
		"json":     &JSONWriter{},
	}

	for format, want := range tests {
		t.Run(format, func(t *testing.T) {
			w, err := New(format, &buf)
			require.NoError(t, err)
			assert.IsType(t, want, w)
		})
	}

	_, err := New("yaml", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text, markdown, json")
}

func TestTextWriter(t *testing.T) {
	t.Run("remote settled", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTextWriter(&buf).Write(remoteView()))

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, `"Keep going." — Ada`))
		assert.Contains(t, out, "Background: https://images.unsplash.com/photo-abc")
		assert.Contains(t, out, "Photo by Jane Doe (@janedoe) on Unsplash")
		assert.Contains(t, out, "  photographer: https://unsplash.com/@janedoe\n")
		assert.Contains(t, out, "  photo:        https://unsplash.com/photos/abc\n")
		assert.Contains(t, out, "  source:       https://unsplash.com\n")
		assert.NotContains(t, out, "●")
	})

	t.Run("failed with help", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTextWriter(&buf).Write(failedView()))

		out := buf.String()
		assert.Contains(t, out, "● failed (remote)")
		assert.Contains(t, out, app.HelpPanelTitle)
		assert.Contains(t, out, "UNSPLASH_ACCESS_KEY is not configured")
		assert.Contains(t, out, "1. Go to https://unsplash.com/developers")
		assert.Contains(t, out, "4. Set UNSPLASH_ACCESS_KEY")
	})

	t.Run("loading", func(t *testing.T) {
		var buf bytes.Buffer

		view := remoteView()
		view.Loading = true

		require.NoError(t, NewTextWriter(&buf).Write(view))
		assert.Equal(t, "Loading...\n", buf.String())
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Run("remote settled", func(t *testing.T) {
		var buf bytes.Buffer

		w := NewMarkdownWriter(&buf)
		require.NoError(t, w.Write(remoteView()))

		out := buf.String()
		assert.Contains(t, out, `> "Keep going." — Ada`)
		assert.Contains(t, out, "![background](https://images.unsplash.com/photo-abc)")
		assert.Contains(t, out, "[Jane Doe (@janedoe)](https://unsplash.com/@janedoe)")
		assert.Contains(t, out, "on [Unsplash](https://unsplash.com) ([view photo](https://unsplash.com/photos/abc))")
		assert.Contains(t, w.ContentType(), "text/markdown")
	})

	t.Run("curated shows status table", func(t *testing.T) {
		var buf bytes.Buffer

		view := remoteView()
		view.Mode = domain.BackgroundModeCurated
		view.Attribution = nil

		require.NoError(t, NewMarkdownWriter(&buf).Write(view))

		out := buf.String()
		assert.Contains(t, out, "Mode")
		assert.Contains(t, out, "curated")
		assert.NotContains(t, out, "Photo by")
	})

	t.Run("failed with help", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewMarkdownWriter(&buf).Write(failedView()))

		out := buf.String()
		assert.Contains(t, out, "## "+app.HelpPanelTitle)
		assert.Contains(t, out, "[!WARNING]")
		assert.Contains(t, out, "1. Go to https://unsplash.com/developers")
	})
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer

	w := NewJSONWriter(&buf)
	require.NoError(t, w.Write(remoteView()))

	assert.NotContains(t, strings.TrimSpace(buf.String()), "\n")

	var resp dto.CardResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, dto.NewCardResponse(remoteView()), resp)

	var pretty bytes.Buffer
	require.NoError(t, NewJSONWriter(&pretty, WithPrettyPrint()).Write(failedView()))
	assert.Contains(t, pretty.String(), "\n  \"generation\"")
	assert.Contains(t, pretty.String(), `"helpPanel"`)
}
