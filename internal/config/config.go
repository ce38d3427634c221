package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the bot, loaded from the environment.
type Config struct {
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"gatekeeper.db"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	// Owner used for deep-link buttons; the username form is preferred
	// because it supports prefilled text.
	OwnerID       int64  `env:"OWNER_ID" envDefault:"0"`
	OwnerUsername string `env:"OWNER_USERNAME"`

	SocialYT string `env:"SOCIAL_YT" envDefault:"https://www.youtube.com/@caperftbl"`
	SocialIG string `env:"SOCIAL_IG" envDefault:"https://www.instagram.com/onlyveloz_"`

	// Seed list for the required-channel set, applied when the store is empty.
	RequiredChannels []string `env:"REQUIRED_CHANNELS" envSeparator:","`

	MainAdminID     int64   `env:"MAIN_ADMIN_ID" envDefault:"0"`
	SecondaryAdmins []int64 `env:"SECONDARY_ADMINS" envSeparator:","`

	StartSocialPromo bool `env:"START_SOCIAL_PROMO" envDefault:"true"`

	// Minimum gap between broadcast sends, to stay under flood limits.
	BroadcastInterval time.Duration `env:"BROADCAST_INTERVAL" envDefault:"50ms"`

	// HH:MM for the daily admin digest; empty disables it.
	DigestTime string `env:"DIGEST_TIME" envDefault:""`
}

// Load reads .env if present, then parses the environment.
func Load() (Config, error) {
	// Missing .env is fine; production sets variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	cfg.OwnerUsername = strings.TrimPrefix(strings.TrimSpace(cfg.OwnerUsername), "@")

	for i, ch := range cfg.RequiredChannels {
		cfg.RequiredChannels[i] = strings.TrimSpace(ch)
	}

	if cfg.BroadcastInterval <= 0 {
		return cfg, fmt.Errorf("BROADCAST_INTERVAL must be positive")
	}

	return cfg, nil
}
