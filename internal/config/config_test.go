package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Web.Addr)
	assert.Equal(t, "http://localhost:8000", cfg.Web.APIBaseURL)
	assert.Empty(t, cfg.Web.SessionDSN)
	assert.Equal(t, 12*time.Hour, cfg.Web.SessionLifetime)
	assert.Equal(t, 30*time.Second, cfg.Web.RequestTimeout)
	assert.Equal(t, ":8000", cfg.API.Addr)
	assert.Equal(t, time.Hour, cfg.API.TokenTTL)
	assert.Equal(t, []string{"http://localhost:4000"}, cfg.API.CORSOrigins)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"API_BASE_URL":                "https://api.example.com/",
		"SESSION_LIFETIME":            "30m",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "15",
		"CORS_ORIGINS":                "https://a.example.com, https://b.example.com,",
		"LOG_FORMAT":                  "json",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Web.APIBaseURL)
	assert.Equal(t, 30*time.Minute, cfg.Web.SessionLifetime)
	assert.Equal(t, 15*time.Minute, cfg.API.TokenTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.API.CORSOrigins)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestFromLookupRejectsBadValues(t *testing.T) {
	_, err := FromLookup(lookupFrom(map[string]string{"SESSION_LIFETIME": "forever"}))
	assert.Error(t, err)

	_, err = FromLookup(lookupFrom(map[string]string{"ACCESS_TOKEN_EXPIRE_MINUTES": "-1"}))
	assert.Error(t, err)
}
