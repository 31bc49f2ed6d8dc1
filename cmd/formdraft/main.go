package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alexanderramin/formdraft/internal/cli"
	"github.com/alexanderramin/formdraft/internal/config"
	"github.com/alexanderramin/formdraft/internal/db"
	"github.com/alexanderramin/formdraft/internal/form"
	"github.com/alexanderramin/formdraft/internal/kvstore"
	"github.com/alexanderramin/formdraft/internal/logging"
	"github.com/alexanderramin/formdraft/internal/notify"
	"github.com/alexanderramin/formdraft/internal/repository"
	"github.com/alexanderramin/formdraft/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath pulls --config out of the arguments before cobra runs, since
// the store must be open before the command tree exists.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("formdraft", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	store, closeStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	schema, err := form.LoadSchema(cfg.Form.SchemaPath)
	if err != nil {
		return err
	}

	engine := service.NewEngine(ctx,
		repository.NewKVSubmissionRepo(store),
		repository.NewKVDraftSlotRepo(store),
		notify.NewBus(),
		service.WithLogger(logger.Named("engine")),
		service.WithObserver(service.NewZapUseCaseObserver(logger)),
	)

	app := &cli.App{
		Services: service.NewServices(engine),
		Config:   cfg,
		Logger:   logger,
		Schema:   schema,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// openStore opens the configured backend and scopes it to the key prefix.
func openStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (kvstore.Store, func(), error) {
	var (
		store   kvstore.Store
		closeFn = func() {}
	)
	switch cfg.Backend {
	case config.BackendMemory:
		store = kvstore.NewMemoryStore()
	case config.BackendRedis:
		rs, err := kvstore.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		store = rs
		closeFn = func() { _ = rs.Close() }
	default:
		database, err := db.OpenDB(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		store = kvstore.NewSQLiteStore(database)
		closeFn = func() { _ = database.Close() }
	}
	log.Debug("store opened", zap.String("backend", cfg.Backend), zap.String("prefix", cfg.Prefix))
	return kvstore.Prefixed(store, cfg.Prefix), closeFn, nil
}
