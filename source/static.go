package source

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/mohae/deepcopy"
)

type staticClient struct {
	payload any
}

var _ Client = &staticClient{}

// NewStaticClient serves the same payload on every fetch. Callers get their own copy and may
// modify it freely.
func NewStaticClient(payload any) Client {
	return &staticClient{payload: payload}
}

// NewFileClient serves the JSON document stored in path
func NewFileClient(path string) (Client, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read payload: %w", err)
	}
	payload, err := Decode(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return NewStaticClient(payload), nil
}

func (s *staticClient) Fetch(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return deepcopy.Copy(s.payload), nil
}
