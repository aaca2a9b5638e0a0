// Package config reads service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// GRPCDisabled as GRPC_PORT turns the grpc transport off.
const GRPCDisabled = "off"

type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"development" validate:"oneof=development production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"        validate:"oneof=debug info warn error"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlite"       validate:"oneof=sqlite postgres"`
	SQLitePath     string `env:"SQLITE_PATH"     envDefault:"baby_data.db" validate:"required_if=StorageBackend sqlite"`
	DatabaseURL    string `env:"DATABASE_URL"                              validate:"required_if=StorageBackend postgres"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`

	BotToken string `env:"BOT_TOKEN"`
	GRPCPort string `env:"GRPC_PORT" envDefault:"50051" validate:"required,numeric|eq=off"`
	WebPort  string `env:"WEB_PORT"                     validate:"omitempty,numeric"`
	Locale   string `env:"LOCALE"    envDefault:"ru"    validate:"oneof=ru en"`

	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS"   envDefault:"2"   validate:"gt=0"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"5"   validate:"gte=1"`
	LockTTL        time.Duration `env:"LOCK_TTL"         envDefault:"10s" validate:"gt=0"`
}

func (c Config) Production() bool { return c.AppEnv == "production" }

func (c Config) TelegramEnabled() bool { return c.BotToken != "" }

func (c Config) GRPCEnabled() bool { return c.GRPCPort != GRPCDisabled }

func (c Config) RedisEnabled() bool { return c.RedisAddr != "" }

// WebEnabled reports whether the grpc-web bridge should run. It forwards
// to the grpc server, so that must be on too.
func (c Config) WebEnabled() bool { return c.WebPort != "" && c.GRPCEnabled() }

var validate = validator.New()

// Load reads .env files (missing ones are ignored) and then parses the
// environment. Variables already set win over the files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads and validates the current environment.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
