package repositories_test

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/myrjola/terratracker/internal/sqlite"
	"github.com/myrjola/terratracker/internal/testhelpers"
)

//go:embed testdata/fixtures.sql
var testFixtures string

// newTestDB creates a new in-memory database for testing purposes.
func newTestDB(t *testing.T, withFixtures bool) *sqlite.Database {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	db, err := sqlite.NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	if err != nil {
		cancel()
		t.Fatal(err)
	}

	if withFixtures {
		if _, err = db.ReadWrite.Exec(testFixtures); err != nil {
			cancel()
			t.Fatal(err)
		}
	}

	t.Cleanup(func() {
		cancel()
		if err = db.Close(); err != nil {
			t.Error(err)
		}
	})

	return db
}

// newBenchmarkDB creates a file backed database for benchmarking purposes.
func newBenchmarkDB(b *testing.B) *sqlite.Database {
	b.Helper()
	benchmarkDBPath := "./benchmark.sqlite"
	ctx, cancel := context.WithCancel(context.Background())
	db, err := sqlite.NewDatabase(ctx, benchmarkDBPath, testhelpers.NewLogger(io.Discard))
	if err != nil {
		cancel()
		b.Fatal(err)
	}

	b.Cleanup(func() {
		cancel()
		if err = db.Close(); err != nil {
			b.Error(err)
		}
		_ = os.Remove(benchmarkDBPath)
		_ = os.Remove(fmt.Sprintf("%s-shm", benchmarkDBPath))
		_ = os.Remove(fmt.Sprintf("%s-wal", benchmarkDBPath))
	})

	return db
}
