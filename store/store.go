// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package store persists the data recorded by a simulation run.

A Run is identified by a uuid string and holds the gathered spikes, traces and
stimulus event times. Backends are an in-memory map and a sqlite database
(modernc.org/sqlite, no cgo).
*/
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Store is a persistent collection of runs
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, bool, error)
	ListRuns(ctx context.Context) ([]RunSummary, error)
	DeleteRun(ctx context.Context, id string) error
}

// ErrNotInitialized is returned by all operations before Init
var ErrNotInitialized = errors.New("store is not initialized")

// Run is the recorded data of one simulation run
type Run struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Created time.Time `json:"created"`

	// simulated duration and time step, msec
	Duration float64 `json:"duration"`
	Dt       float64 `json:"dt"`

	// number of cells in the network
	NCells int `json:"nCells"`

	// spike times and gids, in time order
	SpkTimes []float64 `json:"spkt"`
	SpkGids  []float64 `json:"spkid"`

	// trace samples by trace label, then by cell key
	Traces map[string]map[string][]float64 `json:"traces,omitempty"`

	// stimulus event times by cell key, then by stimulus label
	Stims map[string]map[string][]float64 `json:"stims,omitempty"`
}

// NewRun returns an empty run with a new ID and the current time
func NewRun(label string) *Run {
	return &Run{ID: NewRunID(), Label: label, Created: time.Now().UTC()}
}

// NewRunID returns a new random run ID
func NewRunID() string {
	return uuid.NewString()
}

// Summary returns the listing entry of the run
func (r *Run) Summary() RunSummary {
	return RunSummary{ID: r.ID, Label: r.Label, Created: r.Created, NCells: r.NCells, NSpikes: len(r.SpkTimes)}
}

// Validate checks the run before saving
func (r *Run) Validate() error {
	if r.ID == "" {
		return errors.New("run id is required")
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("run id %q: %w", r.ID, err)
	}
	if len(r.SpkTimes) != len(r.SpkGids) {
		return fmt.Errorf("run %s: %d spike times for %d spike gids", r.ID, len(r.SpkTimes), len(r.SpkGids))
	}
	return nil
}

// RunSummary is the listing entry of a stored run
type RunSummary struct {
	ID      string
	Label   string
	Created time.Time
	NCells  int
	NSpikes int
}

func sortSummaries(sums []RunSummary) {
	sort.Slice(sums, func(i, j int) bool {
		if sums[i].Created.Equal(sums[j].Created) {
			return sums[i].ID < sums[j].ID
		}
		return sums[i].Created.Before(sums[j].Created)
	})
}

// NewStore returns a store of given kind: "memory" (or "") or "sqlite" at path
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes the store if it has a Close method
func CloseIfSupported(st Store) error {
	closer, ok := st.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
