// Package sqlite opens the application database and keeps its schema in sync with schema.sql.
package sqlite

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 driver
	"github.com/myrjola/terratracker/internal/errors"
	"github.com/myrjola/terratracker/internal/random"
)

//go:embed schema.sql
var schemaDefinition string

// SchemaVersion is stored in PRAGMA user_version after a successful migration.
const SchemaVersion = 1

var ErrSchemaVersion = errors.NewSentinel("unexpected schema version")

type Database struct {
	ReadWrite *sqlx.DB
	ReadOnly  *sqlx.DB
	logger    *slog.Logger
}

// NewDatabase connects to database, synchronizes the schema and starts the hourly optimizer that stops with ctx.
//
// The url parameter is the path to the SQLite database file or ":memory:" for an in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(url, logger)
	if err != nil {
		return nil, err
	}
	if err = db.migrateTo(ctx, schemaDefinition); err != nil {
		return nil, errors.Wrap(err, "synchronize schema")
	}
	if _, err = db.ReadWrite.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return nil, errors.Wrap(err, "set user version")
	}
	go db.startDatabaseOptimizer(ctx)
	return db, nil
}

// connect establishes two connection pools, one for read/write operations and one for read-only operations.
// This is a best practice mentioned in https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995
func connect(url string, logger *slog.Logger) (*Database, error) {
	var (
		err         error
		readWriteDB *sqlx.DB
		readDB      *sqlx.DB
	)

	// For in-memory databases, we need shared cache mode so that every connection sees the same data.
	//
	// For parallel tests, we need to use a different database for each test to avoid sharing data.
	// See https://www.sqlite.org/inmemorydb.html.
	isInMemory := strings.Contains(url, ":memory:")
	inMemoryConfig := ""
	if isInMemory {
		var (
			randomID     string
			dbNameLength uint = 20
		)
		if randomID, err = random.Letters(dbNameLength); err != nil {
			return nil, errors.Wrap(err, "generate random ID")
		}
		url = randomID
		inMemoryConfig = "&mode=memory&cache=shared"
	}
	commonConfig := strings.Join([]string{
		// Write-ahead logging enables higher performance and concurrent readers.
		"_journal_mode=wal",
		// Avoids SQLITE_BUSY errors when database is under load.
		"_busy_timeout=5000",
		// Increases performance at the cost of durability https://www.sqlite.org/pragma.html#pragma_synchronous.
		"_synchronous=normal",
		"_foreign_keys=on",
		"_temp_store=memory",
	}, "&")

	// The options prefixed with underscore '_' are SQLite pragmas documented at https://www.sqlite.org/pragma.html.
	// The options without leading underscore are SQLite URI parameters documented at https://www.sqlite.org/uri.html.
	readWriteConfig := fmt.Sprintf("file:%s?_txlock=immediate&%s", url, commonConfig)
	if isInMemory {
		readWriteConfig += inMemoryConfig
	} else {
		readWriteConfig += "&mode=rwc"
	}
	if readWriteDB, err = sqlx.Open("sqlite3", readWriteConfig); err != nil {
		return nil, errors.Wrap(err, "open read-write database")
	}
	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(0)
	readWriteDB.SetConnMaxIdleTime(0)

	// A shared-cache memory database vanishes with its last connection and does not honour mode=ro, so the single
	// read-write connection serves reads too.
	if isInMemory {
		readDB = readWriteDB
	} else {
		readConfig := fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s", url, commonConfig)
		if readDB, err = sqlx.Open("sqlite3", readConfig); err != nil {
			return nil, errors.Wrap(err, "open read database")
		}
		maxReadConns := 10
		readDB.SetMaxOpenConns(maxReadConns)
		readDB.SetMaxIdleConns(maxReadConns)
		readDB.SetConnMaxLifetime(time.Hour)
		readDB.SetConnMaxIdleTime(time.Hour)
	}

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// CheckVersion verifies that the schema was migrated by this build.
func (db *Database) CheckVersion(ctx context.Context) error {
	var version int
	if err := db.ReadOnly.GetContext(ctx, &version, "PRAGMA user_version"); err != nil {
		return errors.Wrap(err, "query user version")
	}
	if version != SchemaVersion {
		return errors.Wrap(ErrSchemaVersion, "check version", slog.Int("got", version),
			slog.Int("want", SchemaVersion))
	}
	return nil
}

// Close closes both pools.
func (db *Database) Close() error {
	var errs []error
	if db.ReadOnly != db.ReadWrite {
		if err := db.ReadOnly.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close read database"))
		}
	}
	if err := db.ReadWrite.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close read-write database"))
	}
	return errors.Join(errs...)
}
