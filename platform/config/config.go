// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"navermap_bot/platform/apperr"

	"github.com/joho/godotenv"
)

// Default upstream endpoints.
const (
	DefaultSearchEndpoint           = "http://openapi.naver.com/search"
	DefaultGeocodeEndpoint          = "http://openapi.map.naver.com/api/geocode.php"
	DefaultStaticMapEndpoint        = "http://openapi.naver.com/map/getStaticMap"
	DefaultUnofficialSearchEndpoint = "http://map.naver.com/search2/local.nhn"
	DefaultPlaceInfoEndpoint        = "http://map.naver.com/local/siteview.nhn"
	DefaultAppLinkEndpoint          = "http://map.naver.com/"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// SearchConfig provides settings for the official place search API.
type SearchConfig interface {
	GetSearchIdentifier() string
	GetSearchKey() string
	GetSearchEndpoint() string
}

// MapConfig provides settings for the geocode and static map APIs.
type MapConfig interface {
	GetMapIdentifier() string
	GetMapKey() string
	GetMapHost() string
	GetGeocodeEndpoint() string
	GetStaticMapEndpoint() string
}

// UnofficialSearchConfig provides settings for the undocumented search endpoint
// and the links built from its results.
type UnofficialSearchConfig interface {
	GetUnofficialSearchEndpoint() string
	GetPlaceInfoEndpoint() string
	GetAppLinkEndpoint() string
}

// ResolverConfig provides settings for the resolution pipeline.
type ResolverConfig interface {
	UseUnofficialPlaceSearch() bool
	GetUpstreamTimeout() time.Duration
}

// BotConfig provides settings for command matching.
type BotConfig interface {
	GetBotName() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetWebhookSecret() string
}

// DiscordConfig provides settings for the Discord surface.
type DiscordConfig interface {
	GetDiscordToken() string
	IsDiscordEnabled() bool
}

// WhatsAppConfig provides settings for the GoWA WhatsApp surface.
type WhatsAppConfig interface {
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetWhatsAppDeviceID() string
	IsWhatsAppEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	SearchIdentifier         string
	SearchKey                string
	MapIdentifier            string
	MapKey                   string
	UseUnofficialSearch      bool
	UnofficialSearchRaw      string
	SearchEndpoint           string
	GeocodeEndpoint          string
	StaticMapEndpoint        string
	UnofficialSearchEndpoint string
	PlaceInfoEndpoint        string
	AppLinkEndpoint          string
	UpstreamTimeout          time.Duration
	UpstreamTimeoutRaw       string
	BotName                  string
	WebhookSecret            string
	DiscordToken             string
	WhatsAppURL              string
	WhatsAppKey              string
	WhatsAppDeviceID         string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// SearchConfig implementation
func (c *Config) GetSearchIdentifier() string { return c.SearchIdentifier }
func (c *Config) GetSearchKey() string        { return c.SearchKey }
func (c *Config) GetSearchEndpoint() string   { return c.SearchEndpoint }

// MapConfig implementation
func (c *Config) GetMapIdentifier() string     { return c.MapIdentifier }
func (c *Config) GetMapKey() string            { return c.MapKey }
func (c *Config) GetGeocodeEndpoint() string   { return c.GeocodeEndpoint }
func (c *Config) GetStaticMapEndpoint() string { return c.StaticMapEndpoint }

// GetMapHost returns the host part of the map identifier, sent to the static
// map endpoint as its "uri" parameter.
func (c *Config) GetMapHost() string {
	parsed, err := url.Parse(c.MapIdentifier)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// UnofficialSearchConfig implementation
func (c *Config) GetUnofficialSearchEndpoint() string { return c.UnofficialSearchEndpoint }
func (c *Config) GetPlaceInfoEndpoint() string        { return c.PlaceInfoEndpoint }
func (c *Config) GetAppLinkEndpoint() string          { return c.AppLinkEndpoint }

// ResolverConfig implementation
func (c *Config) UseUnofficialPlaceSearch() bool    { return c.UseUnofficialSearch }
func (c *Config) GetUpstreamTimeout() time.Duration { return c.UpstreamTimeout }

// BotConfig implementation
func (c *Config) GetBotName() string { return c.BotName }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetWebhookSecret() string { return c.WebhookSecret }

// DiscordConfig implementation
func (c *Config) GetDiscordToken() string { return c.DiscordToken }
func (c *Config) IsDiscordEnabled() bool  { return c.DiscordToken != "" }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppURL() string      { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string      { return c.WhatsAppKey }
func (c *Config) GetWhatsAppDeviceID() string { return c.WhatsAppDeviceID }
func (c *Config) IsWhatsAppEnabled() bool     { return c.WhatsAppURL != "" }

// Load reads configuration from environment variables and validates it.
// All validation failures are joined into the returned error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := FromEnv(os.LookupEnv)
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, apperr.Wrap(apperr.KindConfig, "invalid configuration", errors.Join(errs...))
	}
	return cfg, nil
}

// FromEnv builds a Config from the given lookup function without validating it.
// Every NAVER_* variable is also read from its legacy HUBOT_NAVER_* name.
func FromEnv(lookup func(string) (string, bool)) *Config {
	get := func(key, fallback string) string {
		if val, ok := lookup(key); ok {
			return val
		}
		if val, ok := lookup("HUBOT_" + key); ok {
			return val
		}
		return fallback
	}

	unofficialRaw := strings.TrimSpace(get("NAVER_USE_UNOFFICIAL_PLACE_SEARCH_API", ""))
	timeoutRaw := get("UPSTREAM_TIMEOUT", "5s")

	return &Config{
		Env:                      get("APP_ENV", "development"),
		HTTPAddr:                 get("HTTP_ADDR", ":8080"),
		SearchIdentifier:         get("NAVER_SEARCH_IDENTIFIER", ""),
		SearchKey:                get("NAVER_SEARCH_KEY", ""),
		MapIdentifier:            get("NAVER_MAP_IDENTIFIER", ""),
		MapKey:                   get("NAVER_MAP_KEY", ""),
		UseUnofficialSearch:      parseFlag(unofficialRaw),
		UnofficialSearchRaw:      unofficialRaw,
		SearchEndpoint:           get("NAVER_SEARCH_ENDPOINT", DefaultSearchEndpoint),
		GeocodeEndpoint:          get("NAVER_GEOCODE_ENDPOINT", DefaultGeocodeEndpoint),
		StaticMapEndpoint:        get("NAVER_STATIC_MAP_ENDPOINT", DefaultStaticMapEndpoint),
		UnofficialSearchEndpoint: get("NAVER_UNOFFICIAL_SEARCH_ENDPOINT", DefaultUnofficialSearchEndpoint),
		PlaceInfoEndpoint:        get("NAVER_PLACE_INFO_ENDPOINT", DefaultPlaceInfoEndpoint),
		AppLinkEndpoint:          get("NAVER_APP_LINK_ENDPOINT", DefaultAppLinkEndpoint),
		UpstreamTimeout:          mustDuration(timeoutRaw),
		UpstreamTimeoutRaw:       timeoutRaw,
		BotName:                  get("BOT_NAME", "hubot"),
		WebhookSecret:            get("BOT_WEBHOOK_SECRET", ""),
		DiscordToken:             get("DISCORD_BOT_TOKEN", ""),
		WhatsAppURL:              get("WHATSAPP_URL", ""),
		WhatsAppKey:              get("WHATSAPP_KEY", ""),
		WhatsAppDeviceID:         get("WHATSAPP_DEVICE_ID", ""),
	}
}

// Validate reports every problem with the configuration. It has no side
// effects; the caller decides whether to abort.
func (c *Config) Validate() []error {
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"NAVER_SEARCH_IDENTIFIER", c.SearchIdentifier},
		{"NAVER_SEARCH_KEY", c.SearchKey},
		{"NAVER_MAP_IDENTIFIER", c.MapIdentifier},
		{"NAVER_MAP_KEY", c.MapKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, apperr.Config(fmt.Sprintf("%s is required", r.name)))
		}
	}

	identifiers := []struct {
		name  string
		value string
	}{
		{"NAVER_SEARCH_IDENTIFIER", c.SearchIdentifier},
		{"NAVER_MAP_IDENTIFIER", c.MapIdentifier},
	}
	for _, id := range identifiers {
		if id.value == "" {
			continue
		}
		if !isAbsoluteURL(id.value) {
			errs = append(errs, apperr.Config(fmt.Sprintf("%s must be an absolute url, got %q", id.name, id.value)))
		}
	}

	if c.UnofficialSearchRaw != "" {
		if _, err := strconv.ParseBool(c.UnofficialSearchRaw); err != nil {
			errs = append(errs, apperr.Config(fmt.Sprintf("NAVER_USE_UNOFFICIAL_PLACE_SEARCH_API must be a boolean, got %q", c.UnofficialSearchRaw)))
		}
	}

	if c.UpstreamTimeout <= 0 {
		errs = append(errs, apperr.Config(fmt.Sprintf("UPSTREAM_TIMEOUT must be a positive duration, got %q", c.UpstreamTimeoutRaw)))
	}

	endpoints := []struct {
		name  string
		value string
	}{
		{"NAVER_SEARCH_ENDPOINT", c.SearchEndpoint},
		{"NAVER_GEOCODE_ENDPOINT", c.GeocodeEndpoint},
		{"NAVER_STATIC_MAP_ENDPOINT", c.StaticMapEndpoint},
		{"NAVER_UNOFFICIAL_SEARCH_ENDPOINT", c.UnofficialSearchEndpoint},
		{"NAVER_PLACE_INFO_ENDPOINT", c.PlaceInfoEndpoint},
		{"NAVER_APP_LINK_ENDPOINT", c.AppLinkEndpoint},
	}
	for _, ep := range endpoints {
		if !isAbsoluteURL(ep.value) {
			errs = append(errs, apperr.Config(fmt.Sprintf("%s must be an absolute url, got %q", ep.name, ep.value)))
		}
	}

	if c.WhatsAppURL != "" && !isAbsoluteURL(c.WhatsAppURL) {
		errs = append(errs, apperr.Config(fmt.Sprintf("WHATSAPP_URL must be an absolute url, got %q", c.WhatsAppURL)))
	}

	return errs
}

func isAbsoluteURL(value string) bool {
	parsed, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

func parseFlag(value string) bool {
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return enabled
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}
