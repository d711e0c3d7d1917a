package chart

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Slot owns at most one live chart instance
type Slot struct {
	mu      sync.Mutex
	current *Instance
	logger  *zap.SugaredLogger
}

func NewSlot(logger *zap.SugaredLogger, lifecycle fx.Lifecycle) *Slot {
	slot := &Slot{logger: logger}

	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slot.Clear()
			return nil
		},
	})

	return slot
}

// Replace releases the current instance and then installs the one returned by acquire. When
// acquire fails the slot is left empty.
func (s *Slot) Replace(acquire func() (*Instance, error)) (*Instance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseCurrent()

	instance, err := acquire()
	if err != nil {
		return nil, err
	}
	s.current = instance
	s.logger.Debugw("chart replaced", "instanceId", instance.Id, "samples", len(instance.Series))
	return instance, nil
}

func (s *Slot) Current() *Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Clear releases the current instance, if any
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseCurrent()
}

func (s *Slot) releaseCurrent() {
	if s.current != nil {
		s.current.Release()
		s.current = nil
	}
}
