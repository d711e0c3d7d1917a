package source

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/TwiN/deepmerge"
	"gopkg.in/yaml.v3"

	"github.com/tidepool-org/vitals/config"
)

type AuthMode string

const (
	AuthNone   AuthMode = "none"
	AuthBasic  AuthMode = "basic"
	AuthApiKey AuthMode = "apikey"
	AuthBearer AuthMode = "bearer"
	AuthJwt    AuthMode = "jwt"
	AuthOAuth2 AuthMode = "oauth2"
)

const defaultHeaders = "Content-Type: application/json\n"

type Config struct {
	BaseUrl string        `envconfig:"VITALS_SOURCE_BASE_URL" default:"https://fedskillstest.coalitiontechnologies.workers.dev" validate:"required,url"`
	Path    string        `envconfig:"VITALS_SOURCE_PATH"`
	Headers string        `envconfig:"VITALS_SOURCE_HEADERS"`
	Timeout time.Duration `envconfig:"VITALS_SOURCE_TIMEOUT" default:"0s" validate:"gte=0"`

	Auth AuthMode `envconfig:"VITALS_SOURCE_AUTH" default:"none" validate:"oneof=none basic apikey bearer jwt oauth2"`

	Username string `envconfig:"VITALS_SOURCE_USERNAME" validate:"required_if=Auth basic"`
	Password string `envconfig:"VITALS_SOURCE_PASSWORD"`

	ApiKey       string `envconfig:"VITALS_SOURCE_API_KEY" validate:"required_if=Auth apikey"`
	ApiKeyHeader string `envconfig:"VITALS_SOURCE_API_KEY_HEADER" default:"x-api-key"`

	BearerToken string `envconfig:"VITALS_SOURCE_BEARER_TOKEN" validate:"required_if=Auth bearer"`

	JwtSecret   string        `envconfig:"VITALS_SOURCE_JWT_SECRET" validate:"required_if=Auth jwt"`
	JwtIssuer   string        `envconfig:"VITALS_SOURCE_JWT_ISSUER" default:"vitals"`
	JwtSubject  string        `envconfig:"VITALS_SOURCE_JWT_SUBJECT"`
	JwtAudience string        `envconfig:"VITALS_SOURCE_JWT_AUDIENCE"`
	JwtTtl      time.Duration `envconfig:"VITALS_SOURCE_JWT_TTL" default:"5m" validate:"gt=0"`

	ClientId     string   `envconfig:"VITALS_SOURCE_CLIENT_ID" validate:"required_if=Auth oauth2"`
	ClientSecret string   `envconfig:"VITALS_SOURCE_CLIENT_SECRET" validate:"required_if=Auth oauth2"`
	TokenUrl     string   `envconfig:"VITALS_SOURCE_TOKEN_URL" validate:"required_if=Auth oauth2"`
	Scopes       []string `envconfig:"VITALS_SOURCE_SCOPES"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Process(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Url is the address of the patient list
func (c *Config) Url() string {
	if c.Path == "" {
		return c.BaseUrl
	}
	return strings.TrimRight(c.BaseUrl, "/") + "/" + strings.TrimLeft(c.Path, "/")
}

// RequestHeaders merges the configured headers, given as a YAML or JSON map, over the defaults.
// Keys are canonicalized so that a configured header replaces the default regardless of case.
func (c *Config) RequestHeaders() (http.Header, error) {
	configured, err := canonicalize([]byte(c.Headers))
	if err != nil {
		return nil, fmt.Errorf("invalid source headers: %w", err)
	}

	merged, err := deepmerge.YAML([]byte(defaultHeaders), configured, deepmerge.Config{
		PreventMultipleDefinitionsOfKeysWithPrimitiveValue: false,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to merge source headers: %w", err)
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(merged, &values); err != nil {
		return nil, fmt.Errorf("invalid source headers: %w", err)
	}

	headers := http.Header{}
	for key, value := range values {
		headers.Set(key, value)
	}
	return headers, nil
}

func canonicalize(document []byte) ([]byte, error) {
	values := map[string]string{}
	if err := yaml.Unmarshal(document, &values); err != nil {
		return nil, err
	}

	canonical := make(map[string]string, len(values))
	for key, value := range values {
		canonical[http.CanonicalHeaderKey(key)] = value
	}
	return yaml.Marshal(canonical)
}
