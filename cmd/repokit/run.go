package main

import (
	"context"
	"os"
	"sync"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-kit/cache"
	"github.com/goliatone/go-repository-kit/cli"
	"github.com/goliatone/go-repository-kit/events"
	"github.com/goliatone/go-repository-kit/finder"
	"github.com/goliatone/go-repository-kit/internal/config"
	"github.com/goliatone/go-repository-kit/internal/store"
	"github.com/goliatone/go-repository-kit/pkg/di"
	"github.com/goliatone/go-repository-kit/pkg/logger"
	"github.com/goliatone/go-repository-kit/validator"
)

// storageService is the container name of the raw cache storage.
const storageService = "storage"

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(configPath(args))
	if err != nil {
		return err
	}

	log := logger.NewWithWriter("cli", os.Stderr, logger.ParseLevel(cfg.Log.Level))
	ctx = log.WithContext(ctx)

	shared := events.NewSharedManager()
	cli.Register(shared)

	container, err := di.NewContainer(cfg.Cache,
		di.WithLogger(log),
		di.WithSharedEvents(shared),
		di.WithCLI(cfg.CLI.Name, cfg.CLI.Version),
	)
	if err != nil {
		log.Err(err).Msg("error building container")
		return err
	}

	storage, err := cache.NewStorage(cfg.Cache)
	if err != nil {
		return err
	}
	container.Set(storageService, storage)

	storageCache, err := di.NewStorageCache(container, storageService)
	if err != nil {
		return err
	}
	container.Set(cli.ServiceCache, storageCache)

	db := &lazyDB{cfg: cfg.Database, log: log}
	defer db.Close()

	rows := validator.FinderFunc[map[string]any](func(ctx context.Context, criteria map[string]any) (map[string]any, bool, error) {
		f, err := db.Finder(ctx)
		if err != nil {
			return nil, false, err
		}
		return f.FindOneBy(ctx, criteria)
	})
	container.Set(cli.ServiceFinder, cli.RowFinder(
		di.NewNamedCachedFinder[map[string]any](container, cfg.Database.Table, rows),
	))

	root, err := di.NewCLI(ctx, container)
	if err != nil {
		log.Err(err).Msg("error building command line application")
		return err
	}
	root.PersistentFlags().StringP("config", "c", "", "configuration file (yaml, json or toml)")

	if err := cli.Execute(ctx, root, args); err != nil {
		log.Debug().Err(err).Msg("command failed")
		return err
	}
	return nil
}

// lazyDB opens the database on first use so commands that never query it
// do not need a reachable database.
type lazyDB struct {
	cfg config.Database
	log *logger.Logger

	once   sync.Once
	db     *bun.DB
	finder *finder.SQLFinder
	err    error
}

func (l *lazyDB) Finder(ctx context.Context) (*finder.SQLFinder, error) {
	l.once.Do(func() {
		l.db, l.err = store.Open(ctx, l.cfg.Store(), l.log)
		if l.err != nil {
			return
		}

		opts := []finder.SQLOption{finder.WithColumns(l.cfg.Columns...)}
		if l.cfg.Driver == store.DriverPostgres {
			opts = append(opts, finder.WithDollarPlaceholders())
		}
		l.finder, l.err = finder.NewSQLFinder(l.db.DB, l.cfg.Table, opts...)
	})
	return l.finder, l.err
}

func (l *lazyDB) Close() {
	if l.db == nil {
		return
	}
	if err := l.db.Close(); err != nil {
		l.log.Err(err).Msg("error closing database")
	}
}
