package types

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var languageCode = regexp.MustCompile(`^[a-z]{2,3}(-[a-z]+)?$`)

// HTTPConfig holds shared HTTP settings used by the provider clients.
type HTTPConfig struct {
	// Timeout is the HTTP client timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "profile-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RateLimit is the number of requests per second allowed per provider.
	// Zero disables rate limiting.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`
}

// BreakerConfig holds circuit breaker settings applied per provider.
type BreakerConfig struct {
	// MinRequests is the number of calls observed before the breaker may trip.
	MinRequests uint32 `json:"min_requests" yaml:"min_requests" mapstructure:"min_requests"`

	// FailureRatio trips the breaker once this share of calls failed.
	FailureRatio float64 `json:"failure_ratio" yaml:"failure_ratio" mapstructure:"failure_ratio"`

	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration `json:"open_timeout" yaml:"open_timeout" mapstructure:"open_timeout"`
}

// SearchConfig holds settings for the orchestration stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is the default size of the returned list (default 3).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Concurrency bounds the number of adapter calls in flight per orchestration.
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// CallTimeout bounds a single adapter call.
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout" mapstructure:"call_timeout"`

	// WebRegion is the region passed to the web provider for general queries.
	WebRegion string `json:"web_region" yaml:"web_region" mapstructure:"web_region"`

	// ShoppingRegion is the region passed to the web provider for product queries.
	ShoppingRegion string `json:"shopping_region" yaml:"shopping_region" mapstructure:"shopping_region"`

	// ShoppingFetch is the number of raw hits requested per product sub-query
	// before the shop allow-list filter is applied.
	ShoppingFetch int `json:"shopping_fetch" yaml:"shopping_fetch" mapstructure:"shopping_fetch"`

	Breaker BreakerConfig `json:"breaker" yaml:"breaker" mapstructure:"breaker"`
}

// EncyclopediaConfig holds settings for the encyclopedia provider.
type EncyclopediaConfig struct {
	// Language is the Wikipedia language edition (e.g. "en", "de").
	Language string `json:"language" yaml:"language" mapstructure:"language"`
}

// HistoryConfig holds settings for the search history store.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty disables history.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	Addr        string   `json:"addr" yaml:"addr" mapstructure:"addr"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// Config groups all settings of the profile-search binary.
type Config struct {
	Search       SearchConfig       `json:"search" yaml:"search" mapstructure:"search"`
	Encyclopedia EncyclopediaConfig `json:"encyclopedia" yaml:"encyclopedia" mapstructure:"encyclopedia"`
	History      HistoryConfig      `json:"history" yaml:"history" mapstructure:"history"`
	Server       ServerConfig       `json:"server" yaml:"server" mapstructure:"server"`
	Log          LogConfig          `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the settings used when no config file or flag overrides them.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: "profile-search/0.1",
				RateLimit: 2,
			},
			MaxResults:     3,
			Concurrency:    4,
			CallTimeout:    10 * time.Second,
			WebRegion:      "wt-wt",
			ShoppingRegion: "de-de",
			ShoppingFetch:  5,
			Breaker: BreakerConfig{
				MinRequests:  5,
				FailureRatio: 0.6,
				OpenTimeout:  30 * time.Second,
			},
		},
		Encyclopedia: EncyclopediaConfig{Language: "en"},
		History:      HistoryConfig{Path: "data/history.db"},
		Server: ServerConfig{
			Addr:        ":8090",
			CORSOrigins: []string{"*"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks ranges and required values.
func (c Config) Validate() error {
	return validation.Errors{
		"search":       c.Search.Validate(),
		"encyclopedia": validation.ValidateStruct(&c.Encyclopedia, validation.Field(&c.Encyclopedia.Language, validation.Required, validation.Match(languageCode))),
		"server":       validation.ValidateStruct(&c.Server, validation.Field(&c.Server.Addr, validation.Required)),
		"log":          validation.ValidateStruct(&c.Log, validation.Field(&c.Log.Level, validation.In("debug", "info", "warn", "error"))),
	}.Filter()
}

// Validate checks the orchestration settings.
func (c SearchConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxResults, validation.Min(0)),
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1), validation.Max(16)),
		validation.Field(&c.CallTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.ShoppingFetch, validation.Required, validation.Min(1), validation.Max(30)),
		validation.Field(&c.WebRegion, validation.Required),
		validation.Field(&c.ShoppingRegion, validation.Required),
		validation.Field(&c.RateLimit, validation.Min(0.0)),
	)
}
