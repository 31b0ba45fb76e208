package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"15m"`), &d))
	assert.Equal(t, 15*time.Minute, time.Duration(d))
}

func TestDuration_UnmarshalNumber(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, time.Duration(d))
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var d Duration
	assert.Error(t, json.Unmarshal([]byte(`"not-a-duration"`), &d))
}

func TestParseJSON_FullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"auth": {
			"access_token_secret": "access-secret",
			"refresh_token_secret": "refresh-secret",
			"access_token_ttl": "15m",
			"otp_ttl_seconds": 180
		},
		"limiter": {
			"failure_threshold": 5,
			"failure_window": "15m",
			"lock_duration_seconds": 900
		},
		"storage": {
			"db": {"dsn": "postgres://localhost/foodify"},
			"redis": {"addr": "localhost:6379"}
		},
		"server": {"http_address": ":8080", "request_timeout": "30s"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "access-secret", cfg.Auth.AccessTokenSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 180, cfg.Auth.OTPTTLSeconds)
	assert.Equal(t, 5, cfg.Limiter.FailureThreshold)
	assert.Equal(t, 900, cfg.Limiter.LockDurationSeconds)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON("/nonexistent/config.json")
	assert.Error(t, err)
}
