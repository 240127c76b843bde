package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_String(t *testing.T) {
	q := Quote{Text: "Keep going.", Author: "Ada"}

	assert.Equal(t, `"Keep going." — Ada`, q.String())
	assert.False(t, q.IsZero())
	assert.True(t, Quote{}.IsZero())
}

func TestFetchStatus_String(t *testing.T) {
	tests := []struct {
		status   FetchStatus
		expected string
	}{
		{FetchPending, "pending"},
		{FetchSucceeded, "succeeded"},
		{FetchFailed, "failed"},
		{FetchStatus(42), "FetchStatus(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())

			text, err := tt.status.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(text))
		})
	}
}

func TestBackgroundResult_Constructors(t *testing.T) {
	img := BackgroundImage{URL: "https://example.com/a.jpg"}

	ok := Succeeded(img)
	assert.Equal(t, FetchSucceeded, ok.Status)
	assert.NoError(t, ok.Err)
	assert.Equal(t, img, ok.Image)

	cause := NewUnavailableError("photo-service", "HTTP 503")
	failed := FellBack(img, cause)
	assert.Equal(t, FetchFailed, failed.Status)
	require.ErrorIs(t, failed.Err, ErrUnavailable)
	assert.Equal(t, img, failed.Image)
}

func TestPlaceholderAttribution(t *testing.T) {
	attr := PlaceholderAttribution("https://unsplash.com")

	assert.Equal(t, "Unsplash Contributor", attr.PhotographerName)
	assert.Equal(t, "unsplash", attr.PhotographerHandle)
	assert.Equal(t, "https://unsplash.com", attr.PhotographerProfileURL)
	assert.Equal(t, "https://unsplash.com", attr.PhotoPageURL)
	assert.Equal(t, "https://unsplash.com", attr.SourceHomepageURL)
}

func TestPool_Pick(t *testing.T) {
	pool := NewPool("a", "b", "c", "d")

	tests := []struct {
		name     string
		picker   Picker
		expected string
	}{
		{"first", func(int) int { return 0 }, "a"},
		{"index 3", func(int) int { return 3 }, "d"},
		{"negative index clamps to first", func(int) int { return -1 }, "a"},
		{"out of range clamps to first", func(n int) int { return n }, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pool.Pick(tt.picker))
		})
	}
}

func TestPool_PickRandomStaysInPool(t *testing.T) {
	for range 100 {
		got := FallbackQuotes.Pick(nil)
		assert.True(t, FallbackQuotes.Contains(func(q Quote) bool { return q == got }))
	}
}

func TestPool_Empty(t *testing.T) {
	var pool Pool[string]

	assert.Equal(t, 0, pool.Len())
	assert.Empty(t, pool.Pick(nil))
}

func TestPool_IsImmutableCopy(t *testing.T) {
	items := []string{"x", "y"}
	pool := NewPool(items...)

	items[0] = "changed"

	assert.Equal(t, "x", pool.At(0))
}

func TestStaticPools(t *testing.T) {
	assert.Equal(t, 10, FallbackQuotes.Len())
	assert.Equal(t, 5, FallbackImageURLs.Len())
	assert.Equal(t, 15, CuratedImageIDs.Len())

	for i := range FallbackImageURLs.Len() {
		u := FallbackImageURLs.At(i)
		assert.True(t, strings.HasPrefix(u, "https://"), u)
		assert.NotContains(t, u, "?")
	}

	for i := range FallbackQuotes.Len() {
		q := FallbackQuotes.At(i)
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, q.Author)
	}
}
