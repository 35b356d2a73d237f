package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 服务配置，全部来自环境变量
type Config struct {
	Addr          string        `env:"DUEL_ADDR" envDefault:":8000"`
	RedisAddr     string        `env:"DUEL_REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string        `env:"DUEL_REDIS_PASSWORD"`
	RedisDB       int           `env:"DUEL_REDIS_DB" envDefault:"0"`
	HandSize      int           `env:"DUEL_HAND_SIZE" envDefault:"5"`
	MaxHandSize   int           `env:"DUEL_MAX_HAND_SIZE" envDefault:"10"`
	CatalogPath   string        `env:"DUEL_CATALOG_PATH"`
	JWTSecret     string        `env:"DUEL_JWT_SECRET"`
	LogLevel      string        `env:"DUEL_LOG_LEVEL" envDefault:"info"`
	IdleTimeout   time.Duration `env:"DUEL_IDLE_TIMEOUT" envDefault:"30m"`
	SweepInterval time.Duration `env:"DUEL_SWEEP_INTERVAL" envDefault:"1m"`
	Seed          uint64        `env:"DUEL_SEED"`
}

// Load 解析环境变量并校验
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxHandSize <= 0 {
		return fmt.Errorf("DUEL_MAX_HAND_SIZE must be positive, got %d", c.MaxHandSize)
	}
	if c.HandSize <= 0 || c.HandSize > c.MaxHandSize {
		return fmt.Errorf("DUEL_HAND_SIZE must be in 1..%d, got %d", c.MaxHandSize, c.HandSize)
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("DUEL_IDLE_TIMEOUT must be positive, got %s", c.IdleTimeout)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("DUEL_SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	return nil
}
