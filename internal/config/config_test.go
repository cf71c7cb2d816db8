package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Table.StartBank)
	assert.Equal(t, 50, cfg.Table.DefaultBet)
	assert.Equal(t, 10, cfg.Table.MinBet)
	assert.Equal(t, 500, cfg.Table.MaxBet)
	assert.Equal(t, 500*time.Millisecond, cfg.Pacing.DealerDraw)
	assert.ErrorIs(t, cfg.RequireBotToken(), ErrMissingToken)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "blackjack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
httpAddr: ":9000"
seed: 7
table:
  startBank: 2000
  defaultBet: 100
  minBet: 10
  maxBet: 500
  betStep: 25
pacing:
  deal: 1s
`), 0o600))

	t.Setenv("BLACKJACK_BOT_TOKEN", "token")
	t.Setenv("BLACKJACK_TABLE_BET_STEP", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 2000, cfg.Table.StartBank)
	assert.Equal(t, 100, cfg.Table.DefaultBet)
	assert.Equal(t, 5, cfg.Table.BetStep)
	assert.Equal(t, time.Second, cfg.Pacing.Deal)
	assert.Equal(t, 50*time.Millisecond, cfg.Pacing.FirstDeal)
	assert.NoError(t, cfg.RequireBotToken())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min bet", func(c *Config) { c.Table.MinBet = 0 }},
		{"max below min", func(c *Config) { c.Table.MaxBet = 5 }},
		{"zero step", func(c *Config) { c.Table.BetStep = 0 }},
		{"bank below min", func(c *Config) { c.Table.StartBank = 5 }},
		{"default bet too high", func(c *Config) { c.Table.DefaultBet = 600 }},
		{"negative delay", func(c *Config) { c.Pacing.Deal = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
