// Package assets owns the active model and reloads it from disk in the
// background without stalling the render loop.
package assets

import (
	"sync"

	"github.com/Faultbox/stlview/internal/engine/model"
)

// Slot holds the model the renderer draws. It is shared between the
// interactive goroutine, which reads it every frame, and load goroutines,
// which publish into it. The mutex is only held for pointer swaps and flag
// reads, never across file I/O or GPU calls.
type Slot struct {
	mu sync.Mutex

	model     *model.NormalizedModel
	published uint64 // generation of model, 0 for the initial model
	issued    uint64 // highest generation handed out
	pending   bool   // newest request has not settled yet
	lastErr   error  // failure of the newest settled request
}

// NewSlot creates a slot holding initial, which may be nil.
func NewSlot(initial *model.NormalizedModel) *Slot {
	return &Slot{model: initial}
}

// Current returns the active model and the generation that published it.
// The returned model is immutable; use it after the call without locking.
func (s *Slot) Current() (*model.NormalizedModel, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model, s.published
}

// Loading reports whether the newest submitted load is still running.
func (s *Slot) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// LastError returns the error of the newest settled load, or nil if it succeeded.
func (s *Slot) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// begin issues the next generation and marks the slot loading.
func (s *Slot) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.pending = true
	return s.issued
}

// publish settles load gen. The model is installed only if gen is still the
// newest generation issued; anything older is dropped. It reports whether the
// result was discarded as stale.
func (s *Slot) publish(gen uint64, m *model.NormalizedModel, err error) (stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.issued || gen <= s.published {
		return true
	}

	s.pending = false
	s.lastErr = err
	if err != nil {
		return false
	}
	s.model = m
	s.published = gen
	return false
}
