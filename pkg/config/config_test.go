package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("COMMAND_PREFIX", "")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGODB_DATABASE", "")
	t.Setenv("GENERATION_DELAY_MS", "")
	t.Setenv("SESSION_IDLE_MINUTES", "")
	t.Setenv("SESSION_SWEEP_MINUTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, 2*time.Second, cfg.GenerationDelay)
	assert.Equal(t, time.Hour, cfg.SessionIdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepEvery)
	assert.Equal(t, "recipebot_dev", cfg.MongoDBDatabase)
	assert.False(t, cfg.CookbookEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("COMMAND_PREFIX", "?")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "")
	t.Setenv("GENERATION_DELAY_MS", "250")
	t.Setenv("SESSION_IDLE_MINUTES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "?", cfg.CommandPrefix)
	assert.Equal(t, 250*time.Millisecond, cfg.GenerationDelay)
	assert.Equal(t, time.Hour, cfg.SessionIdleTimeout, "bad input falls back to default")
	assert.Equal(t, "recipebot", cfg.MongoDBDatabase)
	assert.True(t, cfg.CookbookEnabled())
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsNegativeDelay(t *testing.T) {
	cfg := &Config{
		DiscordToken:       "token",
		CommandPrefix:      "!",
		GenerationDelay:    -time.Second,
		SessionIdleTimeout: time.Minute,
		SessionSweepEvery:  time.Minute,
	}
	assert.Error(t, cfg.Validate())

	cfg.GenerationDelay = 0
	assert.NoError(t, cfg.Validate())
}
