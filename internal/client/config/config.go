package config

import (
	"errors"
	"time"

	"github.com/boabp/dashboard/internal/client/storage"
	"github.com/boabp/dashboard/internal/logging"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Config holds runtime settings for the dashboard CLI.
//
// Fields:
//   - APIURL: base URL of the marketplace REST API.
//   - GRPCAddr: optional gRPC endpoint checked by ping alongside the API.
//   - Storage: which backend holds the session token.
//   - DBPath: SQLite file backing the persistent storage.
//   - RedisAddr, RedisPassword: Redis server backing the tab storage.
//   - TabID, TabTTL: tab namespace and its idle lifetime.
//   - SignInRoute: route the client returns to when a session ends.
//   - SessionCheckInterval: how often the CLI re-checks token expiry.
//   - RequestTimeout: per-request HTTP timeout.
//   - LogLevel, LogFormat: logger settings.
type Config struct {
	APIURL               string
	GRPCAddr             string
	Storage              storage.Kind
	DBPath               string
	RedisAddr            string
	RedisPassword        string
	TabID                string
	TabTTL               time.Duration
	SignInRoute          string
	SessionCheckInterval time.Duration
	RequestTimeout       time.Duration
	LogLevel             string
	LogFormat            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:8080"
	c.Storage = storage.KindPersistent
	c.DBPath = "dashboard.db"
	c.TabTTL = 30 * time.Minute
	c.SignInRoute = "/auth/signin"
	c.SessionCheckInterval = 30 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogFormat = logging.FormatText
}

var errRedisRequired = errors.New("is required for tab storage")

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIURL, validation.Required, is.URL),
		validation.Field(&c.Storage, validation.Required,
			validation.In(storage.KindPersistent, storage.KindTab, storage.KindMemory)),
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.RedisAddr, validation.By(func(any) error {
			if c.Storage == storage.KindTab && c.RedisAddr == "" {
				return errRedisRequired
			}
			return nil
		})),
		validation.Field(&c.TabTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SignInRoute, validation.Required),
		validation.Field(&c.SessionCheckInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In(logging.FormatText, logging.FormatJSON, logging.FormatZap)),
	)
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given) and command-line flags.
// Later sources take precedence over earlier ones. Malformed input panics
// as in parseJson; a well-formed but invalid result is returned as an error.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
