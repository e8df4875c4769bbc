package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          int    `envconfig:"PORT" default:"3001"`
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"*"`

	DatabaseURL string `envconfig:"DATABASE_URL"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	UploadDir         string `envconfig:"UPLOAD_DIR" default:"uploads"`
	SummaryTTLSeconds int    `envconfig:"SUMMARY_TTL_SECONDS" default:"30"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.SummaryTTLSeconds < 1 {
		cfg.SummaryTTLSeconds = 30
	}

	return &cfg, nil
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
