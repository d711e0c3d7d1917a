// Package source retrieves the raw patient list from the remote service
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	errs "github.com/tidepool-org/vitals/errors"
)

//go:generate mockgen --build_flags=--mod=mod -source=./client.go -destination=./test/mock_source.go -package test

// Client fetches the undecoded payload of the patient list
type Client interface {
	Fetch(ctx context.Context) (any, error)
}

// TransportError is returned when the service responds with a non success status
type TransportError struct {
	StatusCode int
	Body       string
}

func (t *TransportError) Error() string {
	return fmt.Sprintf("API Error: %d - %s", t.StatusCode, t.Body)
}

func (t *TransportError) Unwrap() error {
	return errs.TransportFailure
}

type httpClient struct {
	url         string
	headers     http.Header
	credentials Credentials
	client      *http.Client
	logger      *zap.SugaredLogger
}

var _ Client = &httpClient{}

func NewClient(cfg *Config, credentials Credentials, logger *zap.SugaredLogger) (Client, error) {
	headers, err := cfg.RequestHeaders()
	if err != nil {
		return nil, err
	}

	return &httpClient{
		url:         cfg.Url(),
		headers:     headers,
		credentials: credentials,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}, nil
}

func (h *httpClient) Fetch(ctx context.Context) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create request: %w", errs.TransportFailure, err)
	}
	for key, values := range h.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if err := h.credentials.Attach(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: unable to authenticate request: %w", errs.TransportFailure, err)
	}

	h.logger.Debugw("fetching patient list", "url", h.url)
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.TransportFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	payload, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Decode reads a JSON document keeping numbers in their textual form
func Decode(r io.Reader) (any, error) {
	var payload any
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w: unable to decode response body: %w", errs.TransportFailure, errs.MalformedPayload, err)
	}
	return payload, nil
}
