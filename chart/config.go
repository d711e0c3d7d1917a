package chart

import "github.com/tidepool-org/vitals/config"

type Config struct {
	Width     int     `envconfig:"VITALS_CHART_WIDTH" default:"720" validate:"gt=0"`
	Height    int     `envconfig:"VITALS_CHART_HEIGHT" default:"320" validate:"gt=0"`
	MinY      float64 `envconfig:"VITALS_CHART_MIN_Y" default:"40"`
	MaxY      float64 `envconfig:"VITALS_CHART_MAX_Y" default:"160" validate:"gtfield=MinY"`
	CacheSize int     `envconfig:"VITALS_CHART_CACHE_SIZE" default:"32" validate:"gt=0"`
}

func DefaultConfig() Config {
	return Config{
		Width:     720,
		Height:    320,
		MinY:      40,
		MaxY:      160,
		CacheSize: 32,
	}
}

func NewConfig() (Config, error) {
	cfg := Config{}
	err := config.Process(&cfg)
	return cfg, err
}
