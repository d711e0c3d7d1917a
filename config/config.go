package config

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HttpPort        uint16        `envconfig:"VITALS_HTTP_SERVER_PORT" default:"8080" required:"true" validate:"gt=0"`
	RefreshRate     float64       `envconfig:"VITALS_REFRESH_RATE" default:"1" validate:"gt=0"`
	RefreshBurst    int           `envconfig:"VITALS_REFRESH_BURST" default:"1" validate:"gte=1"`
	ShutdownTimeout time.Duration `envconfig:"VITALS_SHUTDOWN_TIMEOUT" default:"10s" validate:"gte=0"`
}

func New() *Config {
	return &Config{}
}

func (c *Config) LoadFromEnv() error {
	return Process(c)
}

var (
	loadDotEnv sync.Once
	validate   = validator.New(validator.WithRequiredStructEnabled())
)

// Process populates the tagged struct cfg from the environment and validates the result.
// A .env file in the working directory, if any, is loaded once before the first call.
func Process(cfg any) error {
	loadDotEnv.Do(func() {
		// A missing .env is the normal case outside of local development
		_ = godotenv.Load()
	})
	if err := envconfig.Process("", cfg); err != nil {
		return err
	}
	return validate.Struct(cfg)
}
