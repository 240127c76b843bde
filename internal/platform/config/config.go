// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 1

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 100

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 10

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultImageWidth and DefaultImageQuality shape curated image URLs.
	DefaultImageWidth   = 1920
	DefaultImageQuality = 80

	// DefaultPreloadMaxBytes caps how much of a background image is downloaded.
	DefaultPreloadMaxBytes = 16 << 20
)

// AccessKeyEnvVar is read in addition to the APP_ prefixed variables.
const AccessKeyEnvVar = "UNSPLASH_ACCESS_KEY"

// appName names the user config directory.
const appName = "quotecard"

// Background modes accepted in card.background_mode.
const (
	BackgroundModeRemote  = "remote"
	BackgroundModeCurated = "curated"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig         `koanf:"app"       validate:"required"`
	Server    ServerConfig      `koanf:"server"    validate:"required"`
	Log       LogConfig         `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig   `koanf:"telemetry"`
	Client    ClientConfig      `koanf:"client"    validate:"required"`
	Services  ServicesConfig    `koanf:"services"  validate:"required"`
	Card      CardConfig        `koanf:"card"      validate:"required"`
	Flags     map[string]string `koanf:"flags"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
	Compression     bool          `koanf:"compression"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// ClientConfig contains HTTP client settings for downstream services.
// Requests are never retried.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// ServicesConfig contains configuration for downstream services.
type ServicesConfig struct {
	Quote QuoteServiceConfig `koanf:"quote" validate:"required"`
	Photo PhotoServiceConfig `koanf:"photo" validate:"required"`
}

// QuoteServiceConfig points at the quotable.io compatible quote API.
type QuoteServiceConfig struct {
	BaseURL string   `koanf:"base_url" validate:"required,url"`
	Name    string   `koanf:"name"     validate:"required"`
	Tags    []string `koanf:"tags"`
}

// PhotoServiceConfig points at the Unsplash compatible photo API.
// AccessKey may be empty; the card then runs on fallback images.
type PhotoServiceConfig struct {
	BaseURL     string   `koanf:"base_url"    validate:"required,url"`
	Name        string   `koanf:"name"        validate:"required"`
	AccessKey   string   `koanf:"access_key"`
	Query       []string `koanf:"query"`
	Orientation string   `koanf:"orientation" validate:"omitempty,oneof=landscape portrait squarish"`
	Homepage    string   `koanf:"homepage"    validate:"required,url"`
}

// CardConfig controls how the quote card picks and loads its background.
type CardConfig struct {
	BackgroundMode  string        `koanf:"background_mode"   validate:"required,oneof=remote curated"`
	ImageBaseURL    string        `koanf:"image_base_url"    validate:"required,url"`
	ImageWidth      int           `koanf:"image_width"       validate:"required,min=1,max=8192"`
	ImageQuality    int           `koanf:"image_quality"     validate:"required,min=1,max=100"`
	PreloadTimeout  time.Duration `koanf:"preload_timeout"   validate:"required,min=100ms"`
	PreloadMaxBytes int64         `koanf:"preload_max_bytes" validate:"required,min=1024"`
	RefreshTimeout  time.Duration `koanf:"refresh_timeout"   validate:"required,gtefield=PreloadTimeout"`
	MountOnStart    bool          `koanf:"mount_on_start"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        appName,
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,
		"server.compression":      true,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quotecard.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  appName,
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      false,

		"client.timeout":                           "5s",
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"services.quote.base_url": "https://api.quotable.io",
		"services.quote.name":     "quote-service",
		"services.quote.tags":     []string{"inspirational", "motivational"},

		"services.photo.base_url":    "https://api.unsplash.com",
		"services.photo.name":        "photo-service",
		"services.photo.access_key":  "",
		"services.photo.query":       []string{"nature", "architecture"},
		"services.photo.orientation": "landscape",
		"services.photo.homepage":    "https://unsplash.com",

		"card.background_mode":   BackgroundModeRemote,
		"card.image_base_url":    "https://images.unsplash.com",
		"card.image_width":       DefaultImageWidth,
		"card.image_quality":     DefaultImageQuality,
		"card.preload_timeout":   "8s",
		"card.preload_max_bytes": DefaultPreloadMaxBytes,
		"card.refresh_timeout":   "15s",
		"card.mount_on_start":    true,

		"flags.config-help-panel":   "true",
		"flags.attribution-overlay": "true",
	}
}

// Options controls where Load looks for configuration files.
type Options struct {
	// Profile selects configs/{profile}.yaml.
	Profile string

	// Dir holds base.yaml and the profile files. Defaults to "configs".
	Dir string

	// UserFile is the per-user config file. Empty means
	// $XDG_CONFIG_HOME/quotecard/config.yaml if it exists.
	UserFile string
}

// Load loads configuration for a profile from the default locations.
func Load(profile string) (*Config, error) {
	return LoadWithOptions(Options{Profile: profile})
}

// LoadWithOptions loads configuration with the following precedence
// (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. UNSPLASH_ACCESS_KEY
//  3. Profile config file ({dir}/{profile}.yaml)
//  4. Base config file ({dir}/base.yaml)
//  5. User config file (XDG config home)
//  6. Default values
func LoadWithOptions(opts Options) (*Config, error) {
	if opts.Dir == "" {
		opts.Dir = "configs"
	}

	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	userFile := opts.UserFile
	if userFile == "" {
		userFile = findUserConfig()
	}

	if userFile != "" {
		err = loadFileIfExists(k, userFile)
		if err != nil {
			return nil, fmt.Errorf("loading user config %q: %w", userFile, err)
		}
	}

	err = loadFileIfExists(k, filepath.Join(opts.Dir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if opts.Profile != "" {
		err := loadFileIfExists(k, filepath.Join(opts.Dir, opts.Profile+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", opts.Profile, err)
		}
	}

	err = k.Load(env.Provider(AccessKeyEnvVar, ".", func(s string) string {
		if s != AccessKeyEnvVar {
			return ""
		}

		return "services.photo.access_key"
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", AccessKeyEnvVar, err)
	}

	err = k.Load(env.Provider("APP_", ".", envKeyMapper(k.Keys())), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_SERVICES_PHOTO_ACCESS_KEY to services.photo.access_key.
// Known keys are matched exactly so that underscores and dashes inside a key
// survive; unknown variables fall back to treating every underscore as a
// separator.
func envKeyMapper(known []string) func(string) string {
	normalize := strings.NewReplacer(".", "_", "-", "_")

	lookup := make(map[string]string, len(known))
	for _, key := range known {
		lookup[normalize.Replace(key)] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		if key, ok := lookup[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

// findUserConfig returns the per-user config file, or "" when there is none.
func findUserConfig() string {
	path, err := xdg.SearchConfigFile(filepath.Join(appName, "config.yaml"))
	if err != nil {
		return ""
	}

	return path
}

// UserConfigPath is where a per-user config file is expected.
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
