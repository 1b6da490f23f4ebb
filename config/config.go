package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DevMode          bool   `env:"DEV_MODE" envDefault:"false"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT"`
	SQSEndpoint      string `env:"SQS_ENDPOINT"`
	RedisEndpoint    string `env:"REDIS_ENDPOINT" envDefault:"localhost:6379"`

	UsersTable   string `env:"USERS_TABLE" envDefault:"Users"`
	BlogsTable   string `env:"BLOGS_TABLE" envDefault:"Blogs"`
	RepairQueue  string `env:"REPAIR_QUEUE" envDefault:"BacklinkRepairQueue"`
	CreateTables bool   `env:"CREATE_TABLES" envDefault:"false"`

	HostPort      string `env:"HOST_PORT" envDefault:"8080"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`
	BcryptCost    int    `env:"BCRYPT_COST" envDefault:"10"`

	// Per client IP, applied to sign-up and login
	AuthRatePerSec float64 `env:"AUTH_RATE_PER_SEC" envDefault:"1"`
	AuthRateBurst  int     `env:"AUTH_RATE_BURST" envDefault:"5"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DevMode && cfg.DynamoDBEndpoint == "" {
		return Config{}, fmt.Errorf("DYNAMODB_ENDPOINT is required in dev mode")
	}
	if cfg.AuthRatePerSec <= 0 || cfg.AuthRateBurst <= 0 {
		return Config{}, fmt.Errorf("auth rate limit must be positive")
	}
	return cfg, nil
}
