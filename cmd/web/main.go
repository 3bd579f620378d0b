package main

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/terratracker/internal/clues"
	"github.com/myrjola/terratracker/internal/dialogue"
	"github.com/myrjola/terratracker/internal/envstruct"
	"github.com/myrjola/terratracker/internal/errors"
	"github.com/myrjola/terratracker/internal/logging"
	"github.com/myrjola/terratracker/internal/narration"
	"github.com/myrjola/terratracker/internal/pprofserver"
	"github.com/myrjola/terratracker/internal/repositories"
	"github.com/myrjola/terratracker/internal/sqlite"
	"github.com/myrjola/terratracker/internal/vegetation"
	"golang.org/x/sync/singleflight"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	templates      map[string]*template.Template
	tree           *dialogue.Tree
	timeline       clues.Timeline
	narrator       *narration.Narrator
	cases          *repositories.CaseRepository
	vegetation     *vegetation.Client
	ndvi           ndviCache
	cfg            config
}

type config struct {
	// Addr is the address the HTTP server listens on. Use localhost:0 for a random port.
	Addr string `env:"TERRA_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the path to the SQLite database file or ":memory:".
	SqliteURL string `env:"TERRA_SQLITE_URL" envDefault:"./terratracker.sqlite"`
	// PprofAddr enables the profiling server on the given loopback address when set.
	PprofAddr string `env:"TERRA_PPROF_ADDR" envDefault:""`
	// NDVIURL is a MODIS subset endpoint. Empty serves the demo series.
	NDVIURL           string        `env:"TERRA_NDVI_URL" envDefault:""`
	TimelineStartYear int           `env:"TERRA_TIMELINE_START_YEAR" envDefault:"2018"`
	TimelineEndYear   int           `env:"TERRA_TIMELINE_END_YEAR" envDefault:"2024"`
	AutoplayInterval  time.Duration `env:"TERRA_AUTOPLAY_INTERVAL" envDefault:"900ms"`
	NarrationDelay    time.Duration `env:"TERRA_NARRATION_DELAY" envDefault:"40ms"`
}

// ndviCache keeps the NDVI series around so that clue views do not call NASA on every request.
type ndviCache struct {
	group   singleflight.Group
	mu      sync.Mutex
	series  vegetation.Series
	fetched time.Time
}

// fresh returns the cached series unless it has expired. Demo data expires sooner so that NASA is retried.
func (c *ndviCache) fresh(now time.Time) (vegetation.Series, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ttl := ndviCacheTTL
	if c.series.Source == vegetation.SourceDemo {
		ttl = ndviDemoTTL
	}
	if c.fetched.IsZero() || now.Sub(c.fetched) > ttl {
		return vegetation.Series{}, false //nolint:exhaustruct // nothing cached
	}
	return c.series, true
}

func (c *ndviCache) store(series vegetation.Series, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = series
	c.fetched = now
}

const (
	ndviCacheTTL           = time.Hour
	ndviDemoTTL            = time.Minute
	narrationTimeout       = time.Minute
	sessionCleanupInterval = 24 * time.Hour
	sessionLifetime        = 12 * time.Hour
)

var ErrInvalidTimeline = errors.NewSentinel("timeline end year precedes start year")

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		err error
		cfg config
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}
	timeline := clues.Timeline{StartYear: cfg.TimelineStartYear, EndYear: cfg.TimelineEndYear}
	if !timeline.Valid() {
		return errors.Wrap(ErrInvalidTimeline, "validate config",
			slog.Int("start", timeline.StartYear), slog.Int("end", timeline.EndYear))
	}

	if cfg.PprofAddr != "" {
		if err = pprofserver.Launch(ctx, cfg.PprofAddr, logger); err != nil {
			return errors.Wrap(err, "launch pprof server")
		}
	}

	var tree *dialogue.Tree
	if tree, err = dialogue.NewAmazonTree(); err != nil {
		return errors.Wrap(err, "build dialogue tree")
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()

	sessionStore := sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, sessionCleanupInterval)
	defer sessionStore.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = sessionStore
	sessionManager.Lifetime = sessionLifetime
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	var templates map[string]*template.Template
	if templates, err = parseTemplates(); err != nil {
		return errors.Wrap(err, "parse templates")
	}

	narrator := narration.NewNarrator(cfg.NarrationDelay, narrationTimeout)
	go narrator.Start()
	defer narrator.Stop()

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		templates:      templates,
		tree:           tree,
		timeline:       timeline,
		narrator:       narrator,
		cases:          repositories.NewCaseRepository(db, logger),
		vegetation:     vegetation.NewClient(cfg.NDVIURL, logger),
		ndvi:           ndviCache{}, //nolint:exhaustruct // filled on first use
		cfg:            cfg,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// The .env file is optional, real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelWarn, "failed to load .env", errors.SlogError(err))
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		stop()
		os.Exit(1)
	}
	stop()
}
