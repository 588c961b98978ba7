package testutil

import (
	"context"
	"sync"

	"github.com/theaarondumas/unitflow/internal/export"
)

// MemorySink records delivered artifacts in order. It satisfies export.Sink.
type MemorySink struct {
	mu        sync.Mutex
	artifacts []export.Artifact

	// Err, when set, is returned by Deliver and nothing is recorded.
	Err error
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Deliver records a.
func (s *MemorySink) Deliver(_ context.Context, a export.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.artifacts = append(s.artifacts, a)
	return nil
}

// Artifacts returns a copy of everything delivered so far.
func (s *MemorySink) Artifacts() []export.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]export.Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// Last returns the most recent artifact. ok is false when nothing was delivered.
func (s *MemorySink) Last() (a export.Artifact, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.artifacts) == 0 {
		return export.Artifact{}, false
	}
	return s.artifacts[len(s.artifacts)-1], true
}

// Reset forgets delivered artifacts.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = nil
}
