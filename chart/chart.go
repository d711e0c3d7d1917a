// Package chart renders blood pressure series as SVG line charts
package chart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tidepool-org/vitals/vitals"
)

//go:generate mockgen --build_flags=--mod=mod -source=./chart.go -destination=./test/mock_chart.go -package test

type Renderer interface {
	Render(series vitals.Series) (*Instance, error)
}

// Instance is a rendered chart. It must be released before another instance takes its place.
type Instance struct {
	Id          string
	Fingerprint string
	Series      vitals.Series

	svg       []byte
	once      sync.Once
	onRelease func(*Instance)
	released  bool
	mu        sync.RWMutex
}

func NewInstance(series vitals.Series, svg []byte, onRelease func(*Instance)) *Instance {
	return &Instance{
		Id:          uuid.NewString(),
		Fingerprint: series.Fingerprint(),
		Series:      series,
		svg:         svg,
		onRelease:   onRelease,
	}
}

// SVG returns the rendered document, or nil once the instance is released
func (i *Instance) SVG() []byte {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.released {
		return nil
	}
	return i.svg
}

func (i *Instance) Released() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.released
}

// Release is idempotent
func (i *Instance) Release() {
	i.once.Do(func() {
		i.mu.Lock()
		i.released = true
		i.svg = nil
		i.mu.Unlock()
		if i.onRelease != nil {
			i.onRelease(i)
		}
	})
}
