package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fknsrs.biz/p/sorm"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni/v2"
	"go.etcd.io/bbolt"

	"fknsrs.biz/p/ytbrowse/handlers"
	"fknsrs.biz/p/ytbrowse/internal/blocklist"
	"fknsrs.biz/p/ytbrowse/internal/config"
	"fknsrs.biz/p/ytbrowse/internal/configreader"
	"fknsrs.biz/p/ytbrowse/internal/ctxconfig"
	"fknsrs.biz/p/ytbrowse/internal/ctxfeed"
	"fknsrs.biz/p/ytbrowse/internal/ctxhttpclient"
	"fknsrs.biz/p/ytbrowse/internal/ctxlogger"
	"fknsrs.biz/p/ytbrowse/internal/ctxprefs"
	"fknsrs.biz/p/ytbrowse/internal/feed"
	"fknsrs.biz/p/ytbrowse/internal/history"
	"fknsrs.biz/p/ytbrowse/internal/httpcache"
	"fknsrs.biz/p/ytbrowse/internal/prefstore"
	"fknsrs.biz/p/ytbrowse/internal/sqllog"
	"fknsrs.biz/p/ytbrowse/internal/ytapi"
)

var cfg = config.Config{
	LogLevel:             logrus.InfoLevel,
	LogSORM:              false,
	ApplicationAddr:      ":8080",
	ApplicationCachePath: "cache.db",
	ApplicationStatePath: "state.db",
	StateBackend:         config.StateBackendBBolt,
	APIBaseURL:           ytapi.DefaultBaseURL,
	DefaultQuery:         "Next.js 15",
	CachePruneSchedule:   "@hourly",
}

func init() {
	for _, configPath := range []string{"config.toml", "config.yaml", "config.yml"} {
		if st, err := os.Stat(configPath); err == nil && st != nil && !st.IsDir() {
			cfg.Config = configPath
		}
	}
}

type simpleQueryLogger struct {
	logger logrus.FieldLogger
}

func (s *simpleQueryLogger) LogQuery(query string, args []interface{}) {
	fields := logrus.Fields{
		"db.query":      query,
		"db.args.count": len(args),
	}

	for i, e := range args {
		fields[fmt.Sprintf("db.args.%d", i)] = e
	}

	s.logger.WithFields(fields).Debug("sorm query start")
}

func (s *simpleQueryLogger) LogQueryAfter(query string, args []interface{}, duration time.Duration, err error) {
	fields := logrus.Fields{
		"db.query":      query,
		"db.duration":   duration,
		"db.error":      err,
		"db.args.count": len(args),
	}

	for i, e := range args {
		fields[fmt.Sprintf("db.args.%d", i)] = e
	}

	s.logger.WithFields(fields).Info("sorm query finish")
}

func main() {
	if err := configreader.Read(os.Args[0], os.Args[1:], os.Environ(), &cfg); err != nil {
		panic(err)
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)

	logger.WithFields(logrus.Fields{
		"config.config":                  cfg.Config,
		"config.log_level":               cfg.LogLevel,
		"config.log_sorm":                cfg.LogSORM,
		"config.log_queries":             cfg.LogQueries,
		"config.log_queries_slower_than": cfg.LogQueriesSlowerThan,
		"config.application_addr":        cfg.ApplicationAddr,
		"config.application_cache_path":  cfg.ApplicationCachePath,
		"config.application_state_path":  cfg.ApplicationStatePath,
		"config.state_backend":           cfg.StateBackend,
		"config.api_base_url":            cfg.APIBaseURL,
		"config.api_key_set":             cfg.APIKey != "",
		"config.api_requests_per_second": cfg.APIRequestsPerSecond,
		"config.default_query":           cfg.DefaultQuery,
		"config.cache_prune_schedule":    cfg.CachePruneSchedule,
	}).Info("program starting")

	if cfg.LogSORM {
		sorm.SetQueryLogger(&simpleQueryLogger{logger})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = ctxlogger.WithLogger(ctx, logger)
	ctx = ctxconfig.WithConfig(ctx, cfg)

	cacheDB, err := bbolt.Open(cfg.ApplicationCachePath, 0600, &bbolt.Options{Timeout: time.Second * 5})
	if err != nil {
		panic(err)
	}
	defer cacheDB.Close()

	cacheStorage := httpcache.NewBBoltStorage(cacheDB)

	ctx = ctxhttpclient.WithHTTPClient(ctx, &http.Client{
		Timeout:   time.Second * 30,
		Transport: httpcache.NewTransport(nil, cacheStorage, ytapi.CacheMaxAge),
	})

	store, closeStore, err := openStateStore(ctx, cfg, cacheDB)
	if err != nil {
		panic(err)
	}
	defer closeStore()

	blockFilter := blocklist.New(store)
	if err := blockFilter.Load(ctx); err != nil {
		panic(err)
	}

	searchHistory := history.New(store)
	if err := searchHistory.Load(ctx); err != nil {
		panic(err)
	}

	aggregator := feed.NewAggregator(ytapi.New(ytapi.Options{
		BaseURL:           cfg.APIBaseURL,
		APIKey:            cfg.APIKey,
		RequestsPerSecond: cfg.APIRequestsPerSecond,
	}))

	n := negroni.New()
	n.Use(negroni.NewRecovery())
	n.UseFunc(ctxlogger.Register(logger))
	n.UseFunc(ctxlogger.Log())
	n.UseFunc(ctxconfig.Register(cfg))
	n.UseFunc(ctxhttpclient.Register(ctxhttpclient.GetHTTPClient(ctx)))
	n.UseFunc(ctxfeed.Register(aggregator, feed.NewSession()))
	n.UseFunc(ctxprefs.Register(blockFilter, searchHistory))
	n.UseHandler(handlers.Router())

	workers := []worker{
		{
			name: "application",
			run: func(ctx context.Context) error {
				return runApplicationWorker(ctx, cfg.ApplicationAddr, n)
			},
		},
	}

	if cfg.CachePruneSchedule != "" {
		workers = append(workers, worker{
			name: "cache_prune",
			run: func(ctx context.Context) error {
				return runCachePruneWorker(ctx, cfg.CachePruneSchedule, cacheStorage)
			},
		})
	}

	if err := runAllWorkers(ctx, workers); err != nil {
		logger.WithError(err).Error("program failed")
		os.Exit(1)
	}

	logger.Info("program finished")
}

// openStateStore opens the configured preference backend. A bbolt state file
// at the same path as the cache shares its handle, since bbolt only allows one
// open handle per file.
func openStateStore(ctx context.Context, cfg config.Config, cacheDB *bbolt.DB) (prefstore.Store, func(), error) {
	switch cfg.StateBackend {
	case config.StateBackendSQLite:
		driverName := "sqlite3"
		if cfg.LogQueries {
			driverName = "sqlite3:logged"
			sql.Register(driverName, sqllog.New(&sqlite3.SQLiteDriver{}, time.Duration(cfg.LogQueriesSlowerThan)))
		}

		db, err := sql.Open(driverName, cfg.ApplicationStatePath)
		if err != nil {
			return nil, nil, fmt.Errorf("openStateStore: %w", err)
		}

		s, err := prefstore.NewSQLite(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("openStateStore: %w", err)
		}

		return s, func() { db.Close() }, nil
	default:
		if cfg.ApplicationStatePath == cfg.ApplicationCachePath {
			return prefstore.NewBBolt(cacheDB), func() {}, nil
		}

		db, err := bbolt.Open(cfg.ApplicationStatePath, 0600, &bbolt.Options{Timeout: time.Second * 5})
		if err != nil {
			return nil, nil, fmt.Errorf("openStateStore: %w", err)
		}

		return prefstore.NewBBolt(db), func() { db.Close() }, nil
	}
}

func runApplicationWorker(ctx context.Context, addr string, handler http.Handler) error {
	l := ctxlogger.GetLogger(ctx)

	l.WithFields(logrus.Fields{
		"args.addr": addr,
	}).Info("running application worker")

	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second * 10,
	}

	errs := make(chan error, 1)
	go func() { errs <- s.ListenAndServe() }()

	select {
	case err := <-errs:
		return fmt.Errorf("runApplicationWorker: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("runApplicationWorker: could not shut down: %w", err)
	}

	return nil
}
