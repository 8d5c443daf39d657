// Package config loads runtime configuration for the filechat CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed FILECHAT_, optionally from a .env file
//     in the working directory (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// The merged Config is validated before it is returned.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-i int      online status check interval (seconds)
//	-p int      files per roster page
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "online_check_interval": "3s",
//	  "request_timeout": "60s",
//	  "page_size": 20,
//	  "data_dir": "~/.filechat",
//	  "log_level": "info",
//	  "log_backend": "zap",
//	  "log_file": "filechat.log",
//	  "upload_success_ttl": "3s",
//	  "upload_error_ttl": "5s"
//	}
//
// Only keys present in the file override earlier values. A relative log_file
// is placed in data_dir.
package config
