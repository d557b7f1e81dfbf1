// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"sync"
)

// MemoryStore keeps encoded runs in memory, so saved runs are not aliased
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string][]byte
	sums        map[string]RunSummary
}

// NewMemoryStore returns an empty store, usable after Init
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Init allocates the run maps. Calling it again keeps the saved runs.
func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.runs = make(map[string][]byte)
	s.sums = make(map[string]RunSummary)
	return nil
}

// SaveRun validates and stores an encoded copy of run, replacing any run with the same ID
func (s *MemoryStore) SaveRun(_ context.Context, run *Run) error {
	if err := run.Validate(); err != nil {
		return err
	}
	payload, err := EncodeRun(run)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.runs[run.ID] = payload
	s.sums[run.ID] = run.Summary()
	return nil
}

// GetRun decodes the run with given id, found false if it is not stored
func (s *MemoryStore) GetRun(_ context.Context, id string) (*Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, ErrNotInitialized
	}
	payload, ok := s.runs[id]
	if !ok {
		return nil, false, nil
	}
	run, err := DecodeRun(payload)
	if err != nil {
		return nil, false, err
	}
	return run, true, nil
}

// ListRuns returns the summaries of all stored runs, oldest first
func (s *MemoryStore) ListRuns(_ context.Context) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	sums := make([]RunSummary, 0, len(s.sums))
	for _, sm := range s.sums {
		sums = append(sums, sm)
	}
	sortSummaries(sums)
	return sums, nil
}

// DeleteRun removes the run with given id, if any
func (s *MemoryStore) DeleteRun(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	delete(s.runs, id)
	delete(s.sums, id)
	return nil
}
