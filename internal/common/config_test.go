package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("AUTH_TOKENS", "")
	t.Setenv("RATE_WINDOW", "")

	cfg := LoadConfig()

	assert.Equal(t, defaultSQLiteDSN, cfg.Database.DSN)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "/", cfg.Server.LandingPath)
	assert.Equal(t, "/jobs", cfg.Server.ListPath)
	assert.Equal(t, "header", cfg.Auth.Mode)
	assert.Equal(t, time.Minute, cfg.Redis.RateWindow)
	assert.Equal(t, "jobs.events", cfg.Events.Exchange)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_TokenMode(t *testing.T) {
	t.Setenv("AUTH_MODE", "token")
	t.Setenv("AUTH_TOKENS", "abc:user_a, def:user_b,broken,:x")

	cfg := LoadConfig()

	assert.Equal(t, map[string]string{"abc": "user_a", "def": "user_b"}, cfg.Auth.Tokens)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Auth.Mode = "cookie"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "CONFIG_ERROR", ErrorCode(err))

	cfg = LoadConfig()
	cfg.Stats.Timezone = "Not/AZone"
	require.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Tokens = map[string]string{}
	require.Error(t, cfg.Validate())
}
