package dashboard

import "github.com/tidepool-org/vitals/config"

type Config struct {
	Target string `envconfig:"VITALS_TARGET_PATIENT" default:"Jessica Taylor" validate:"required"`

	// FailOnNotFound makes a cycle that cannot find the target return NoMatchingPatients
	FailOnNotFound bool `envconfig:"VITALS_FAIL_ON_NOT_FOUND" default:"false"`
}

func NewConfig() (Config, error) {
	cfg := Config{}
	err := config.Process(&cfg)
	return cfg, err
}
