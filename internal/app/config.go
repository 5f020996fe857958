package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	ConsoleIdleTTL     time.Duration `envconfig:"CONSOLE_IDLE_TTL" default:"30m"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8000/api"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`

	PageSize          int           `envconfig:"PAGE_SIZE" default:"50"`
	LowStockThreshold int           `envconfig:"LOW_STOCK_THRESHOLD" default:"10"`
	SearchDebounce    time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"300ms"`
	NotificationTTL   time.Duration `envconfig:"NOTIFICATION_TTL" default:"3s"`
	Locale            string        `envconfig:"CONSOLE_LOCALE" default:"en"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	CSRFSecret string `envconfig:"CSRF_SECRET"`
}

// LoadClientConfig reads the settings needed to talk to the inventory API.
// Session and CSRF secrets are not required.
func LoadClientConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validateClient(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads configuration for the web console from environment variables.
func LoadConfig() (*Config, error) {
	cfg, err := LoadClientConfig()
	if err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	return cfg, nil
}

func (c *Config) validateClient() error {
	if c.APIBaseURL == "" {
		return errors.New("api base url must be provided")
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return errors.New("page size must be between 1 and 100")
	}
	if c.LowStockThreshold < 0 {
		return errors.New("low stock threshold must not be negative")
	}
	if c.SearchDebounce < 0 {
		return errors.New("search debounce must not be negative")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
