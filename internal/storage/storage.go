// Package storage keeps a history of classifier evaluation runs.
// It uses BoltDB as the underlying storage engine. Only run summaries are
// stored (settings, counts and rates); fitted models are never persisted.
//
// Keys are ordered by run time so that listing and range queries return runs
// in the order they were recorded.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const (
	runsBucket = "runs"
	dbFile     = "shopping-runs.db"
)

// Run is the summary of one evaluation.
type Run struct {
	ID          uuid.UUID `json:"id"`
	Time        time.Time `json:"time"`
	Source      string    `json:"source"`
	Seed        int64     `json:"seed"`
	TestSize    float64   `json:"test_size"`
	Stratified  bool      `json:"stratified"`
	Neighbors   int       `json:"neighbors"`
	Metric      string    `json:"metric"`
	Train       int       `json:"train"`
	Test        int       `json:"test"`
	Correct     int       `json:"correct"`
	Incorrect   int       `json:"incorrect"`
	Sensitivity float64   `json:"sensitivity"`
	Specificity float64   `json:"specificity"`
}

// Store provides persistent storage for run history using BoltDB.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the run database inside dataPath.
// The directory must already exist.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, dbFile)

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(runsBucket)); err != nil {
			return fmt.Errorf("create runs bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores a run. A missing ID or time is filled in, and the stored
// run is returned.
func (s *Store) RecordRun(run Run) (Run, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Time.IsZero() {
		run.Time = time.Now()
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(runsBucket))

		data, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("marshal run: %w", err)
		}

		return b.Put(runKey(run.Time, run.ID), data)
	})
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// Runs returns every recorded run, oldest first.
func (s *Store) Runs() ([]Run, error) {
	var runs []Run

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).ForEach(func(_, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return nil // Skip malformed records
			}
			runs = append(runs, run)
			return nil
		})
	})

	return runs, err
}

// RunsInRange returns the runs recorded between start and end, inclusive,
// oldest first.
func (s *Store) RunsInRange(start, end time.Time) ([]Run, error) {
	var runs []Run

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(runsBucket)).Cursor()

		startKey := timePrefix(start)
		endKey := timePrefix(end)

		for k, v := c.Seek(startKey); k != nil && bytes.Compare(k[:len(endKey)], endKey) <= 0; k, v = c.Next() {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				continue
			}
			runs = append(runs, run)
		}
		return nil
	})

	return runs, err
}

// runKey orders runs by time; the ID keeps keys unique within a nanosecond.
func runKey(t time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s_%s", timePrefix(t), id))
}

// timePrefix is zero padded so byte order matches time order.
func timePrefix(t time.Time) []byte {
	return []byte(fmt.Sprintf("%020d", t.UnixNano()))
}
