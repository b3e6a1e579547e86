// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Mode     string  `yaml:"mode"` // polling | webhook (future)
	Username string  `yaml:"username"`
	Workers  int     `yaml:"workers"` // polling workers
	AdminIDs []int64 `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port      int           `yaml:"port"`
	APIKey    string        `yaml:"api_key"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

type WalletConfig struct {
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"base_url"`
	WebhookURL string        `yaml:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout"`
	BatchSize  int           `yaml:"batch_size"`
	Title      string        `yaml:"title"`
}

type VoucherConfig struct {
	ClaimAmountSats int64   `yaml:"claim_amount_sats"`
	BonusEnabled    bool    `yaml:"bonus_enabled"`
	BonusAmountSats int64   `yaml:"bonus_amount_sats"`
	BonusOddsPct    float64 `yaml:"bonus_odds_pct"` // 0..100
	BonusCount      int     `yaml:"bonus_count"`    // bonus vouchers minted per batch
}

type SchedulerConfig struct {
	RefillInterval time.Duration `yaml:"refill_interval"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Voucher   VoucherConfig   `yaml:"voucher"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Wallet.Timeout <= 0 {
		cfg.Wallet.Timeout = 10 * time.Second
	}
	if cfg.Wallet.BatchSize <= 0 {
		cfg.Wallet.BatchSize = 100
	}
	if cfg.Wallet.Title == "" {
		cfg.Wallet.Title = "LN Voucher"
	}
	if cfg.Voucher.ClaimAmountSats <= 0 {
		cfg.Voucher.ClaimAmountSats = 21
	}
	if cfg.Voucher.BonusAmountSats <= 0 {
		cfg.Voucher.BonusAmountSats = 10000
	}
	if cfg.Voucher.BonusCount <= 0 {
		cfg.Voucher.BonusCount = 5
	}
	if cfg.Redis.LockTTL <= 0 {
		cfg.Redis.LockTTL = 30 * time.Second
	}
	if cfg.Scheduler.RefillInterval <= 0 {
		cfg.Scheduler.RefillInterval = 5 * time.Minute
	}
	if cfg.Admin.TokenTTL <= 0 {
		cfg.Admin.TokenTTL = 30 * time.Minute
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Wallet.APIKey == "" {
		return nil, errors.New("wallet.api_key is required")
	}
	if cfg.Wallet.BaseURL == "" {
		return nil, errors.New("wallet.base_url is required")
	}
	if cfg.Voucher.BonusOddsPct < 0 || cfg.Voucher.BonusOddsPct > 100 {
		return nil, errors.New("voucher.bonus_odds_pct must be between 0 and 100")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
