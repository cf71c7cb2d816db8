package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"blackjack-coach/internal/game"
)

var ErrMissingToken = errors.New("BLACKJACK_BOT_TOKEN is not set")

type Config struct {
	BotToken     string      `yaml:"botToken" envconfig:"bot_token"`
	DatabasePath string      `yaml:"databasePath" envconfig:"database_path"`
	HTTPAddr     string      `yaml:"httpAddr" envconfig:"http_addr"`
	LogLevel     string      `yaml:"logLevel" envconfig:"log_level"`
	Seed         int64       `yaml:"seed" envconfig:"seed"`
	Table        game.Rules  `yaml:"table" envconfig:"table"`
	Pacing       game.Pacing `yaml:"pacing" envconfig:"pacing"`
}

func Default() Config {
	return Config{
		DatabasePath: "file::memory:?cache=shared",
		HTTPAddr:     ":8080",
		LogLevel:     "info",
		Table:        game.DefaultRules(),
		Pacing:       game.DefaultPacing(),
	}
}

// Load layers .env, the optional YAML file at path and BLACKJACK_* variables
// over the defaults. A missing file is only an error when path was given
// explicitly.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("BLACKJACK_CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("blackjack", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	r := c.Table
	switch {
	case r.MinBet <= 0:
		return fmt.Errorf("table.minBet must be positive, got %d", r.MinBet)
	case r.MaxBet < r.MinBet:
		return fmt.Errorf("table.maxBet %d is below table.minBet %d", r.MaxBet, r.MinBet)
	case r.BetStep <= 0:
		return fmt.Errorf("table.betStep must be positive, got %d", r.BetStep)
	case r.StartBank < r.MinBet:
		return fmt.Errorf("table.startBank %d is below table.minBet %d", r.StartBank, r.MinBet)
	case r.DefaultBet < r.MinBet || r.DefaultBet > r.MaxBet:
		return fmt.Errorf("table.defaultBet %d is outside [%d, %d]", r.DefaultBet, r.MinBet, r.MaxBet)
	}

	p := c.Pacing
	if p.FirstDeal < 0 || p.Deal < 0 || p.DealerDraw < 0 {
		return errors.New("pacing delays cannot be negative")
	}
	return nil
}

// RequireBotToken is checked by the Telegram entry point only.
func (c *Config) RequireBotToken() error {
	if c.BotToken == "" {
		return ErrMissingToken
	}
	return nil
}
