package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(envOf(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StorageBadger, cfg.Storage)
	assert.Equal(t, 20*time.Second, cfg.HomeCacheTTL)
	assert.Equal(t, CacheRistretto, cfg.CacheBackend)
	assert.Equal(t, 336*time.Hour, cfg.SessionTTL)
	assert.Len(t, cfg.CSRFKey, 32)
	assert.False(t, cfg.Debug)
}

func TestParseEnvAndFlags(t *testing.T) {
	env := envOf(map[string]string{
		"ADDR":           ":9000",
		"HOME_CACHE_TTL": "5s",
		"CACHE_BACKEND":  "memory",
		"CSRF_KEY":       "0123456789abcdef0123456789abcdef",
		"DEBUG":          "true",
	})
	cfg, err := parse(env, []string{"-addr", ":9100"})
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Addr, "flags win over env")
	assert.Equal(t, 5*time.Second, cfg.HomeCacheTTL)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), cfg.CSRFKey)
	assert.True(t, cfg.Debug)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad duration", map[string]string{"HOME_CACHE_TTL": "soon"}, nil},
		{"zero ttl", map[string]string{"HOME_CACHE_TTL": "0s"}, nil},
		{"bad bool", map[string]string{"DEBUG": "maybe"}, nil},
		{"unknown storage", map[string]string{"STORAGE": "sqlite"}, nil},
		{"postgres without url", map[string]string{"STORAGE": "postgres"}, nil},
		{"unknown cache", nil, []string{"-cache", "redis"}},
		{"short csrf key", map[string]string{"CSRF_KEY": "short"}, nil},
		{"unknown flag", nil, []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(envOf(tt.env), tt.args)
			assert.Error(t, err)
		})
	}
}

func TestParsePostgres(t *testing.T) {
	cfg, err := parse(envOf(map[string]string{
		"STORAGE":      "postgres",
		"DATABASE_URL": "postgres://localhost/yatube",
	}), nil)
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage)
}
