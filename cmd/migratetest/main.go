package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/terratracker/internal/errors"
	"github.com/myrjola/terratracker/internal/sqlite"
	"github.com/myrjola/terratracker/internal/testhelpers"
)

// requiredTables must survive every migration.
var requiredTables = []string{"sessions", "case_files"}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("TERRA_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "TERRA_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}
	if err = db.CheckVersion(ctx); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "schema version mismatch", errors.SlogError(err))
		os.Exit(1)
	}

	for _, table := range requiredTables {
		var count int
		if err = db.ReadOnly.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM sqlite_schema WHERE type = 'table' AND name = ?`, table); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "error inspecting schema", errors.SlogError(err))
			os.Exit(1)
		}
		if count != 1 {
			logger.LogAttrs(ctx, slog.LevelError, "table missing after migration", slog.String("table", table))
			os.Exit(1)
		}
	}

	// The archive must still be readable after migrating, a simple check that rows survived.
	var solved int
	if err = db.ReadOnly.GetContext(ctx, &solved, `SELECT COUNT(*) FROM case_files`); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error counting case files", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "case file count", slog.Int("count", solved))

	if err = db.Close(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error closing database", errors.SlogError(err))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
