package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

const (
	PatientsEndpoint = "/patients"
	TokenEndpoint    = "/oauth2/token"

	OAuth2Token  = "oauth2-token"
	ClientId     = "client-id"
	ClientSecret = "client-secret"
)

// SourceServer serves a fixed patient list and records the headers of every request
type SourceServer struct {
	*httptest.Server

	mu          sync.Mutex
	body        []byte
	status      int
	requests    []http.Header
	tokenIssued int
}

func (s *SourceServer) SetResponse(status int, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = body
}

func (s *SourceServer) Requests() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.requests...)
}

func (s *SourceServer) LastRequest() http.Header {
	requests := s.Requests()
	if len(requests) == 0 {
		return nil
	}
	return requests[len(requests)-1]
}

func (s *SourceServer) TokensIssued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenIssued
}

func ServerStub() *SourceServer {
	source := &SourceServer{status: http.StatusOK, body: []byte("[]")}
	source.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		source.mu.Lock()
		defer source.mu.Unlock()

		if r.Method == http.MethodGet && r.URL.Path == PatientsEndpoint {
			source.requests = append(source.requests, r.Header.Clone())
			w.Header().Add("content-type", "application/json")
			w.WriteHeader(source.status)
			w.Write(source.body)
		} else if r.Method == http.MethodPost && r.URL.Path == TokenEndpoint {
			id, secret, ok := r.BasicAuth()
			if !ok || id != ClientId || secret != ClientSecret {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			source.tokenIssued++
			token := map[string]interface{}{
				"access_token": OAuth2Token,
				"token_type":   "bearer",
				"expires_in":   3600,
			}
			body, err := json.Marshal(token)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Add("content-type", "application/json")
			w.Write(body)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return source
}
