package config

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "https://api.x.ink/v1", cfg.API.BaseURL)
	assert.Equal(t, "eip155:42161", cfg.API.ChainID)
	assert.Equal(t, 4, cfg.API.Entries)
	assert.Equal(t, 60*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.Rewards.Attempts)
	assert.Equal(t, 2*time.Second, cfg.Rewards.Delay)
	assert.Equal(t, 3, cfg.Handshake.Attempts)
	assert.Equal(t, 15*time.Second, cfg.Batch.AccountDelay.Min)
	assert.Equal(t, 30*time.Second, cfg.Batch.AccountDelay.Max)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "account.txt", cfg.Storage.AccountsFile)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XOS_API_URL", "http://localhost:9000/v1")
	t.Setenv("XOS_REWARD_ATTEMPTS", "5")
	t.Setenv("XOS_ACCOUNT_DELAY_MIN", "1s")
	t.Setenv("XOS_ACCOUNT_DELAY_MAX", "2s")
	t.Setenv("XOS_REFERRAL_CODE", "FRIEND")
	t.Setenv("XOS_HANDSHAKE_ATTEMPTS", "not-a-number")
	t.Setenv("XOS_EVENTS", "redis")
	t.Setenv("XOS_STORE", "redis")

	cfg := Load()

	assert.Equal(t, "http://localhost:9000/v1", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.Rewards.Attempts)
	assert.Equal(t, time.Second, cfg.Batch.AccountDelay.Min)
	assert.Equal(t, 2*time.Second, cfg.Batch.AccountDelay.Max)
	assert.Equal(t, "FRIEND", cfg.API.ReferralCode)
	assert.Equal(t, 3, cfg.Handshake.Attempts)
	assert.Equal(t, "redis", cfg.Events)
	assert.Equal(t, "redis", cfg.Storage.Backend)
}

func TestDelayRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("WithinBounds", func(t *testing.T) {
		r := DelayRange{Min: 15 * time.Second, Max: 30 * time.Second}
		for i := 0; i < 1000; i++ {
			d := r.RandomDelay(rng)
			assert.GreaterOrEqual(t, d, r.Min)
			assert.LessOrEqual(t, d, r.Max)
		}
	})

	t.Run("EmptyRange", func(t *testing.T) {
		r := DelayRange{Min: 5 * time.Second, Max: time.Second}
		assert.Equal(t, 5*time.Second, r.RandomDelay(rng))
	})

	t.Run("Zero", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), DelayRange{}.RandomDelay(rng))
	})
}
