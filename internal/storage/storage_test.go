package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	tempDir := t.TempDir()

	store, err := New(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if store.db == nil {
		t.Error("Store database is nil")
	}

	// Check if database file was created
	dbPath := filepath.Join(tempDir, dbFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_InvalidPath(t *testing.T) {
	invalidPath := filepath.Join(t.TempDir(), "nonexistent", "path")

	_, err := New(invalidPath)
	if err == nil {
		t.Error("Expected error for invalid path, got nil")
	}
}

func TestStore_Close(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Errorf("Error closing store: %v", err)
	}

	// Test closing already closed store
	if err := store.Close(); err != nil {
		t.Errorf("Error closing already closed store: %v", err)
	}
}

func TestStore_CloseNilDB(t *testing.T) {
	store := &Store{db: nil}
	if err := store.Close(); err != nil {
		t.Errorf("Expected no error for nil db, got: %v", err)
	}
}

func TestRecordRun_FillsIDAndTime(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	stored, err := store.RecordRun(Run{Source: "shopping.csv", Correct: 10})
	if err != nil {
		t.Fatalf("Failed to record run: %v", err)
	}

	if stored.ID == uuid.Nil {
		t.Error("Expected run ID to be generated")
	}
	if stored.Time.IsZero() {
		t.Error("Expected run time to be set")
	}
}

func TestRuns_RoundTripInOrder(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{Time: base.Add(2 * time.Second), Source: "c.csv", Seed: 3},
		{Time: base, Source: "a.csv", Seed: 1, TestSize: 0.4, Neighbors: 1, Metric: "euclidean",
			Train: 6, Test: 4, Correct: 3, Incorrect: 1, Sensitivity: 0.5, Specificity: 1},
		{Time: base.Add(time.Second), Source: "b.csv", Seed: 2, Stratified: true},
	}
	for _, run := range runs {
		if _, err := store.RecordRun(run); err != nil {
			t.Fatalf("Failed to record run: %v", err)
		}
	}

	got, err := store.Runs()
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(got))
	}

	wantSources := []string{"a.csv", "b.csv", "c.csv"}
	for i, want := range wantSources {
		if got[i].Source != want {
			t.Errorf("Run %d: expected source %s, got %s", i, want, got[i].Source)
		}
	}

	first := got[0]
	if first.Correct != 3 || first.Incorrect != 1 || first.Train != 6 || first.Test != 4 {
		t.Errorf("Unexpected counts: %+v", first)
	}
	if first.Sensitivity != 0.5 || first.Specificity != 1 {
		t.Errorf("Unexpected rates: %+v", first)
	}
	if !first.Time.Equal(base) {
		t.Errorf("Expected time %v, got %v", base, first.Time)
	}
	if !got[1].Stratified {
		t.Error("Expected stratified flag to round trip")
	}
}

func TestRuns_Empty(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	runs, err := store.Runs()
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected empty result, got %d runs", len(runs))
	}
}

func TestRunsInRange(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	now := time.Now()
	for i, offset := range []time.Duration{0, time.Second, 2 * time.Second, 10 * time.Second} {
		run := Run{Time: now.Add(offset), Seed: int64(i)}
		if _, err := store.RecordRun(run); err != nil {
			t.Fatalf("Failed to record run: %v", err)
		}
	}

	got, err := store.RunsInRange(now, now.Add(2*time.Second))
	if err != nil {
		t.Fatalf("Failed to query runs: %v", err)
	}

	// The run 10 seconds later is outside the range
	if len(got) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(got))
	}
	for i, run := range got {
		if run.Seed != int64(i) {
			t.Errorf("Expected seed %d at position %d, got %d", i, i, run.Seed)
		}
	}

	none, err := store.RunsInRange(now.Add(-time.Hour), now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("Failed to query runs: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no runs, got %d", len(none))
	}
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	stored, err := store.RecordRun(Run{Source: "shopping.csv"})
	if err != nil {
		t.Fatalf("Failed to record run: %v", err)
	}
	store.Close()

	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.Runs()
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != stored.ID {
		t.Errorf("Expected persisted run %s, got %+v", stored.ID, runs)
	}
}
