package acl

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jsamuelsen/quotecard/internal/adapters/clients"
	"github.com/jsamuelsen/quotecard/internal/domain"
	"github.com/jsamuelsen/quotecard/internal/platform/logging"
)

const (
	randomPhotoPath = "/photos/random"

	// PlaceholderAccessKey is the value shipped in sample environment files.
	// It is treated the same as no key at all.
	PlaceholderAccessKey = "your_unsplash_access_key_here"

	// AccessKeySetting names the credential in NotConfigured errors.
	AccessKeySetting = "UNSPLASH_ACCESS_KEY"

	accessKeyHint = "create an application at https://unsplash.com/developers and set UNSPLASH_ACCESS_KEY"

	defaultOrientation = "landscape"
	defaultHomepage    = "https://unsplash.com"
)

// DefaultPhotoQuery are the search terms used when none are configured.
var DefaultPhotoQuery = []string{"nature", "architecture"}

// AccessKeyConfigured reports whether key is a usable credential.
func AccessKeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderAccessKey
}

// ClientIDAuth returns a clients.Config AuthFunc that sends the Unsplash
// public access key. It sends nothing for an unusable key.
func ClientIDAuth(accessKey string) func(*http.Request) {
	return func(req *http.Request) {
		if AccessKeyConfigured(accessKey) {
			req.Header.Set("Authorization", "Client-ID "+strings.TrimSpace(accessKey))
		}
	}
}

// PhotoHeaders are the static headers for every photo API request.
func PhotoHeaders() map[string]string {
	headers := map[string]string{"Accept-Version": "v1"}
	for k, v := range clients.NoCacheHeaders {
		headers[k] = v
	}

	return headers
}

// PhotoClientConfig contains configuration for the photo client.
type PhotoClientConfig struct {
	// Client must be built with ClientIDAuth and PhotoHeaders.
	Client *clients.Client

	// AccessKey is only inspected to short-circuit when it is unusable.
	AccessKey string

	Query       []string
	Orientation string

	// Homepage is linked from attribution.
	Homepage string

	// Now stamps the t cache-buster. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// PhotoClient implements ports.PhotoClient against the Unsplash API.
type PhotoClient struct {
	BaseAdapter

	configured  bool
	query       string
	orientation string
	homepage    string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPhotoClient creates a new photo client adapter.
// Panics if Client is nil.
func NewPhotoClient(cfg PhotoClientConfig) *PhotoClient {
	if cfg.Client == nil {
		panic("PhotoClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	query := cfg.Query
	if len(query) == 0 {
		query = DefaultPhotoQuery
	}

	orientation := cfg.Orientation
	if orientation == "" {
		orientation = defaultOrientation
	}

	homepage := cfg.Homepage
	if homepage == "" {
		homepage = defaultHomepage
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &PhotoClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		configured:  AccessKeyConfigured(cfg.AccessKey),
		query:       strings.Join(query, ","),
		orientation: orientation,
		homepage:    homepage,
		now:         now,
		logger:      logger,
	}
}

// unsplashPhoto is the subset of the Unsplash photo DTO we read.
type unsplashPhoto struct {
	ID   string `json:"id"`
	URLs struct {
		Raw     string `json:"raw"`
		Full    string `json:"full"`
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Links    struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"user"`
	Links struct {
		HTML string `json:"html"`
	} `json:"links"`
}

// Homepage returns the photo service homepage used for attribution.
func (c *PhotoClient) Homepage() string {
	return c.homepage
}

// Configured reports whether a usable access key was supplied.
func (c *PhotoClient) Configured() bool {
	return c.configured
}

// GetRandomPhoto looks up one random photo. Without a usable key it returns
// a NotConfiguredError and makes no request.
func (c *PhotoClient) GetRandomPhoto(ctx context.Context, refreshToken int64) (*domain.BackgroundImage, error) {
	if !c.configured {
		return nil, domain.NewNotConfiguredError(AccessKeySetting, accessKeyHint)
	}

	query := url.Values{
		"orientation": {c.orientation},
		"query":       {c.query},
		"sig":         {strconv.FormatInt(refreshToken, 10)},
		"t":           {strconv.FormatInt(c.now().UnixMilli(), 10)},
	}

	c.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", randomPhotoPath),
		slog.Int64("sig", refreshToken))

	body, err := c.Get(ctx, randomPhotoPath, query, "random photo", "")
	if err != nil {
		return nil, err
	}

	ext, err := Decode[unsplashPhoto](c.ServiceName(), body)
	if err != nil {
		return nil, err
	}

	img, err := c.translatePhoto(ext)
	if err != nil {
		return nil, err
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated external DTO to domain",
		slog.String("photo_id", ext.ID),
		slog.String("photographer", img.Attribution.PhotographerHandle))

	return img, nil
}

// translatePhoto converts the external DTO to a domain BackgroundImage.
func (c *PhotoClient) translatePhoto(ext *unsplashPhoto) (*domain.BackgroundImage, error) {
	if err := ValidateRequired(ext.URLs.Regular, "urls.regular"); err != nil {
		return nil, err
	}

	profile := ext.User.Links.HTML
	if profile == "" && ext.User.Username != "" {
		profile = c.homepage + "/@" + ext.User.Username
	}

	page := ext.Links.HTML
	if page == "" {
		page = c.homepage
	}

	return &domain.BackgroundImage{
		URL: ext.URLs.Regular,
		Attribution: &domain.Attribution{
			PhotographerName:       ext.User.Name,
			PhotographerHandle:     ext.User.Username,
			PhotographerProfileURL: profile,
			PhotoPageURL:           page,
			SourceHomepageURL:      c.homepage,
		},
	}, nil
}

// Name returns the health check name for this client.
func (c *PhotoClient) Name() string {
	return c.ServiceName()
}

// Check reports the circuit breaker state without calling the API; lookups
// are rate limited. A missing key is not a failure.
func (c *PhotoClient) Check(_ context.Context) error {
	if c.Client().CircuitState() == clients.StateOpen {
		return domain.NewUnavailableError(c.ServiceName(), "circuit breaker open")
	}

	return nil
}
