package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the filechat CLI.
type Config struct {
	// ServerURL is the base URL of the backend API.
	ServerURL string `validate:"required,url"`
	// OnlineCheckInterval is how often the client probes server reachability.
	OnlineCheckInterval time.Duration `validate:"gt=0"`
	// RequestTimeout bounds every API call; chat answers can take a while.
	RequestTimeout time.Duration `validate:"gt=0"`
	PageSize       int           `validate:"min=1,max=100"`
	// DataDir holds the session database.
	DataDir    string `validate:"required"`
	LogLevel   string `validate:"oneof=debug info warn error"`
	LogBackend string `validate:"oneof=slog zap"`
	// LogFile, when set, receives the log instead of stderr. A relative path
	// is placed in DataDir.
	LogFile          string
	UploadSuccessTTL time.Duration `validate:"gt=0"`
	UploadErrorTTL   time.Duration `validate:"gt=0"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 60 * time.Second
	c.PageSize = 20
	c.DataDir = "~/.filechat"
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.LogFile = ""
	c.UploadSuccessTTL = 3 * time.Second
	c.UploadErrorTTL = 5 * time.Second
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig constructs a Config from defaults, the environment, JSON (if
// present) and command-line flags (if present), in that order of increasing
// precedence, and validates the result.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
