package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/filechat/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero", so only keys present in the file
// override earlier values.
type JsonConfig struct {
	ServerURL           *string         `json:"server_url"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	PageSize            *int            `json:"page_size"`
	DataDir             *string         `json:"data_dir"`
	LogLevel            *string         `json:"log_level"`
	LogBackend          *string         `json:"log_backend"`
	LogFile             *string         `json:"log_file"`
	UploadSuccessTTL    *timex.Duration `json:"upload_success_ttl"`
	UploadErrorTTL      *timex.Duration `json:"upload_error_ttl"`
}

// jsonConfigPath extracts the config file path given via -c or -config.
// Other arguments are ignored. An empty string means no file.
func jsonConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(filterArgs(args, []string{"-c", "-config"}))

	return path
}

// parseJson overlays Config with values loaded from the JSON file named on
// the command line, if any.
func parseJson(cfg *Config, args []string) error {
	path := jsonConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogFile, jc.LogFile)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.UploadSuccessTTL, jc.UploadSuccessTTL)
	setDuration(&cfg.UploadErrorTTL, jc.UploadErrorTTL)
	if jc.PageSize != nil {
		cfg.PageSize = *jc.PageSize
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
