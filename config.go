package calendarApi

import (
	"errors"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL      = "http://localhost:8080"
	defaultAPIPrefix    = "/api"
	defaultTimeout      = 10 * time.Second
	defaultCacheTTL     = 30 * time.Minute
	defaultCacheSize    = 256
	defaultCountryCode  = "KR"
	defaultSyncSchedule = "@every 24h"
)

// Config holds everything needed to talk to the calendar backend.
// Zero values are replaced by the defaults when the client is built.
type Config struct {
	BaseURL   string `env:"CALENDAR_API_URL" envDefault:"http://localhost:8080"`
	APIPrefix string `env:"CALENDAR_API_PREFIX" envDefault:"/api"`
	// ServicePaths addresses resources directly under BaseURL, without APIPrefix
	ServicePaths bool          `env:"CALENDAR_SERVICE_PATHS"`
	Timeout      time.Duration `env:"CALENDAR_REQUEST_TIMEOUT" envDefault:"10s"`

	CacheTTL     time.Duration `env:"CALENDAR_CACHE_TTL" envDefault:"30m"`
	CacheSize    int           `env:"CALENDAR_CACHE_SIZE" envDefault:"256"`
	CountryCode  string        `env:"CALENDAR_COUNTRY_CODE" envDefault:"KR"`
	SyncSchedule string        `env:"CALENDAR_SYNC_SCHEDULE" envDefault:"@every 24h"`

	AdminEmail      string `env:"CALENDAR_ADMIN_EMAIL"`
	AdminPassword   string `env:"CALENDAR_ADMIN_PASSWORD"`
	AdminTOTPSecret string `env:"CALENDAR_ADMIN_TOTP_SECRET"`

	// SettingsFile is an optional YAML document with the display settings
	SettingsFile string `env:"CALENDAR_SETTINGS_FILE"`

	LogLevel string `env:"CALENDAR_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads the configuration from the environment. Variables found in
// the given dotenv files (".env" when none is given) are loaded first, a
// missing file is not an error.
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load dotenv file")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "error getting env configs")
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.APIPrefix == "" {
		c.APIPrefix = defaultAPIPrefix
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.CacheSize <= 0 {
		c.CacheSize = defaultCacheSize
	}
	if c.CountryCode == "" {
		c.CountryCode = defaultCountryCode
	}
	if c.SyncSchedule == "" {
		c.SyncSchedule = defaultSyncSchedule
	}
	return c
}

// endpoint is the URL every resource path is appended to
func (c Config) endpoint() (string, error) {
	base, err := normalizeBaseURL(c.BaseURL)
	if err != nil {
		return "", err
	}
	prefix := strings.Trim(c.APIPrefix, "/")
	if c.ServicePaths || prefix == "" {
		return base, nil
	}
	return base + "/" + prefix, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", eris.New("empty base url")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", eris.Wrapf(err, "invalid base url %q", raw)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", eris.Errorf("base url %q must include scheme and host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}
