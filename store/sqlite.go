// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps runs in a sqlite database file
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a store on the database file at path, opened by Init
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the runs table if needed.
// It is a no-op if the database is already open.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// SaveRun validates run and upserts it by ID
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if err := run.Validate(); err != nil {
		return err
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRun(run)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, label, created, n_cells, n_spikes, codec_version, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			created = excluded.created,
			n_cells = excluded.n_cells,
			n_spikes = excluded.n_spikes,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, run.ID, run.Label, run.Created.UnixNano(), run.NCells, len(run.SpkTimes), CurrentCodecVersion, payload)
	return err
}

// GetRun decodes the run with given id, found false if there is no such row
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	run, err := DecodeRun(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

// ListRuns returns the summaries of all stored runs, oldest first, without decoding payloads
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]RunSummary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, label, created, n_cells, n_spikes FROM runs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sums []RunSummary
	for rows.Next() {
		var sm RunSummary
		var created int64
		if err := rows.Scan(&sm.ID, &sm.Label, &created, &sm.NCells, &sm.NSpikes); err != nil {
			return nil, err
		}
		sm.Created = time.Unix(0, created).UTC()
		sums = append(sums, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortSummaries(sums)
	return sums, nil
}

// DeleteRun removes the run with given id, if any
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}

// Close closes the database. Init may be called again afterwards.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			created INTEGER NOT NULL,
			n_cells INTEGER NOT NULL,
			n_spikes INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
