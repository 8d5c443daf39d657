package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonConfigPath(t *testing.T) {
	assert.Equal(t, "", jsonConfigPath(nil))
	assert.Equal(t, "a.json", jsonConfigPath([]string{"-a", "http://x", "-c", "a.json"}))
	assert.Equal(t, "b.json", jsonConfigPath([]string{"-config=b.json", "-p", "5"}))
}

func TestParseJson_OnlyPresentKeysOverride(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_url":            "http://json:8000",
		"online_check_interval": 2000000000,
		"upload_success_ttl":    "1s",
	})

	cfg := defaults()
	require.NoError(t, parseJson(&cfg, []string{"-c", path}))

	assert.Equal(t, "http://json:8000", cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, time.Second, cfg.UploadSuccessTTL)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, "slog", cfg.LogBackend)
}

func TestParseJson_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	cfg := defaults()
	require.Error(t, parseJson(&cfg, []string{"-c", path}))
}
