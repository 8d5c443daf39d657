package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "FILECHAT_"

// envFile is loaded into the environment when present. Variables already
// set take precedence over the file.
var envFile = ".env"

// parseEnv overlays Config with FILECHAT_* environment variables.
func parseEnv(cfg *Config) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	text := map[string]*string{
		"SERVER_URL":  &cfg.ServerURL,
		"DATA_DIR":    &cfg.DataDir,
		"LOG_LEVEL":   &cfg.LogLevel,
		"LOG_BACKEND": &cfg.LogBackend,
		"LOG_FILE":    &cfg.LogFile,
	}
	for name, dst := range text {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ONLINE_CHECK_INTERVAL": &cfg.OnlineCheckInterval,
		"REQUEST_TIMEOUT":       &cfg.RequestTimeout,
		"UPLOAD_SUCCESS_TTL":    &cfg.UploadSuccessTTL,
		"UPLOAD_ERROR_TTL":      &cfg.UploadErrorTTL,
	}
	for name, dst := range durations {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = d
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPAGE_SIZE: %w", envPrefix, err)
		}
		cfg.PageSize = n
	}
	return nil
}
