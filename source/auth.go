package source

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "

	gracePeriod = time.Second * 30
)

// Credentials attach authentication to an outgoing request
type Credentials interface {
	Attach(ctx context.Context, req *http.Request) error
}

// NewCredentials returns the strategy selected by the configured auth mode
func NewCredentials(cfg *Config) (Credentials, error) {
	switch cfg.Auth {
	case AuthNone, "":
		return anonymous{}, nil
	case AuthBasic:
		return basicCredentials{username: cfg.Username, password: cfg.Password}, nil
	case AuthApiKey:
		return apiKeyCredentials{header: cfg.ApiKeyHeader, key: cfg.ApiKey}, nil
	case AuthBearer:
		return bearerCredentials{token: cfg.BearerToken}, nil
	case AuthJwt:
		return newJwtCredentials(cfg), nil
	case AuthOAuth2:
		return newAuthenticator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported source auth mode %q", cfg.Auth)
	}
}

type anonymous struct{}

func (anonymous) Attach(context.Context, *http.Request) error {
	return nil
}

type basicCredentials struct {
	username string
	password string
}

func (b basicCredentials) Attach(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(b.username, b.password)
	return nil
}

type apiKeyCredentials struct {
	header string
	key    string
}

func (a apiKeyCredentials) Attach(_ context.Context, req *http.Request) error {
	req.Header.Set(a.header, a.key)
	return nil
}

type bearerCredentials struct {
	token string
}

func (b bearerCredentials) Attach(_ context.Context, req *http.Request) error {
	req.Header.Set(authorizationHeader, bearerPrefix+b.token)
	return nil
}

// jwtCredentials signs a short lived HS256 service token for every request
type jwtCredentials struct {
	secret   []byte
	issuer   string
	subject  string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func newJwtCredentials(cfg *Config) *jwtCredentials {
	return &jwtCredentials{
		secret:   []byte(cfg.JwtSecret),
		issuer:   cfg.JwtIssuer,
		subject:  cfg.JwtSubject,
		audience: cfg.JwtAudience,
		ttl:      cfg.JwtTtl,
		now:      time.Now,
	}
}

func (j *jwtCredentials) Attach(_ context.Context, req *http.Request) error {
	now := j.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    j.issuer,
		Subject:   j.subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}
	if j.audience != "" {
		claims.Audience = jwt.ClaimStrings{j.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return fmt.Errorf("unable to sign service token: %w", err)
	}
	req.Header.Set(authorizationHeader, bearerPrefix+signed)
	return nil
}

// authenticator obtains client credentials tokens and reuses them until they are about to expire
type authenticator struct {
	config *clientcredentials.Config
	mu     *sync.Mutex

	token *oauth2.Token
}

func newAuthenticator(cfg *Config) *authenticator {
	return &authenticator{
		config: &clientcredentials.Config{
			ClientID:     cfg.ClientId,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenUrl,
			Scopes:       cfg.Scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		mu: &sync.Mutex{},
	}
}

func (a *authenticator) GetToken(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.tokenIsValid() {
		token, err := a.config.Token(ctx)
		if err != nil {
			return nil, err
		}

		a.token = token
	}

	return a.token, nil
}

func (a *authenticator) tokenIsValid() bool {
	if a.token == nil || a.token.AccessToken == "" {
		return false
	}
	if a.token.Expiry.IsZero() {
		return true
	}

	return a.token.Expiry.Add(-gracePeriod).After(time.Now())
}

func (a *authenticator) Attach(ctx context.Context, req *http.Request) error {
	token, err := a.GetToken(ctx)
	if err != nil {
		return err
	}

	req.Header.Set(authorizationHeader, bearerPrefix+token.AccessToken)
	return nil
}
