package acl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotecard/internal/adapters/clients"
	"github.com/jsamuelsen/quotecard/internal/domain"
	"github.com/jsamuelsen/quotecard/internal/platform/config"
)

const photoJSON = `{
	"id": "abc123",
	"urls": {"regular": "https://images.unsplash.com/photo-abc?w=1080", "full": "https://images.unsplash.com/photo-abc"},
	"user": {"name": "Jane Doe", "username": "janedoe", "links": {"html": "https://unsplash.com/@janedoe"}},
	"links": {"html": "https://unsplash.com/photos/abc123"}
}`

var fixedNow = time.UnixMilli(1_700_000_000_123)

type photoServer struct {
	calls atomic.Int32
}

func setupPhotoClient(t *testing.T, accessKey string, handler http.HandlerFunc) (*PhotoClient, *photoServer) {
	t.Helper()

	ps := &photoServer{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{
		ServiceName: "photo-service",
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		Headers:     PhotoHeaders(),
		AuthFunc:    ClientIDAuth(accessKey),
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   1,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
	})
	require.NoError(t, err)

	return NewPhotoClient(PhotoClientConfig{
		Client:    client,
		AccessKey: accessKey,
		Homepage:  "https://unsplash.com",
		Now:       func() time.Time { return fixedNow },
	}), ps
}

func TestNewPhotoClient_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewPhotoClient(PhotoClientConfig{})
	})
}

func TestAccessKeyConfigured(t *testing.T) {
	assert.True(t, AccessKeyConfigured("real-key"))
	assert.False(t, AccessKeyConfigured(""))
	assert.False(t, AccessKeyConfigured("   "))
	assert.False(t, AccessKeyConfigured(PlaceholderAccessKey))
}

func TestPhotoClient_GetRandomPhoto_Success(t *testing.T) {
	pc, _ := setupPhotoClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/photos/random", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "landscape", q.Get("orientation"))
		assert.Equal(t, "nature,architecture", q.Get("query"))
		assert.Equal(t, "42", q.Get("sig"))
		assert.Equal(t, strconv.FormatInt(fixedNow.UnixMilli(), 10), q.Get("t"))

		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "v1", r.Header.Get("Accept-Version"))
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		assert.Equal(t, "no-cache", r.Header.Get("Pragma"))

		_, _ = w.Write([]byte(photoJSON))
	})

	img, err := pc.GetRandomPhoto(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "https://images.unsplash.com/photo-abc?w=1080", img.URL)
	require.NotNil(t, img.Attribution)
	assert.Equal(t, domain.Attribution{
		PhotographerName:       "Jane Doe",
		PhotographerHandle:     "janedoe",
		PhotographerProfileURL: "https://unsplash.com/@janedoe",
		PhotoPageURL:           "https://unsplash.com/photos/abc123",
		SourceHomepageURL:      "https://unsplash.com",
	}, *img.Attribution)
}

func TestPhotoClient_GetRandomPhoto_NotConfigured(t *testing.T) {
	for _, key := range []string{"", PlaceholderAccessKey} {
		t.Run("key="+key, func(t *testing.T) {
			pc, ps := setupPhotoClient(t, key, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(photoJSON))
			})

			img, err := pc.GetRandomPhoto(context.Background(), 1)

			require.Error(t, err)
			assert.Nil(t, img)
			assert.True(t, domain.IsNotConfigured(err))
			assert.False(t, pc.Configured())
			assert.Equal(t, int32(0), ps.calls.Load(), "no request may be made without a key")
		})
	}
}

func TestPhotoClient_GetRandomPhoto_Unauthorized(t *testing.T) {
	pc, ps := setupPhotoClient(t, "revoked-key", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":["OAuth error: The access token is invalid"]}`))
	})

	_, err := pc.GetRandomPhoto(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, domain.IsForbidden(err))
	assert.Equal(t, int32(1), ps.calls.Load())
}

func TestPhotoClient_GetRandomPhoto_MissingURL(t *testing.T) {
	pc, _ := setupPhotoClient(t, "test-key", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x","urls":{}}`))
	})

	_, err := pc.GetRandomPhoto(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestPhotoClient_GetRandomPhoto_ProfileFromUsername(t *testing.T) {
	pc, _ := setupPhotoClient(t, "test-key", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"urls":{"regular":"https://img/x"},"user":{"name":"A","username":"a"}}`))
	})

	img, err := pc.GetRandomPhoto(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "https://unsplash.com/@a", img.Attribution.PhotographerProfileURL)
	assert.Equal(t, "https://unsplash.com", img.Attribution.PhotoPageURL)
}

func TestPhotoClient_HealthCheck(t *testing.T) {
	pc, ps := setupPhotoClient(t, "test-key", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	assert.Equal(t, "photo-service", pc.Name())
	assert.Equal(t, "https://unsplash.com", pc.Homepage())
	require.NoError(t, pc.Check(context.Background()))
	assert.Equal(t, int32(0), ps.calls.Load())

	// One 5xx opens the breaker with MaxFailures=1.
	_, err := pc.GetRandomPhoto(context.Background(), 1)
	require.Error(t, err)

	err = pc.Check(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}
