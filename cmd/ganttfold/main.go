package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/ganttfold/internal/cli"
	"github.com/alexanderramin/ganttfold/internal/config"
	"github.com/alexanderramin/ganttfold/internal/db"
	"github.com/alexanderramin/ganttfold/internal/repository"
	"github.com/alexanderramin/ganttfold/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	snapshotRepo := repository.NewSQLiteSnapshotRepo(database)
	itemRepo := repository.NewSQLiteItemRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogCalls {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	app := &cli.App{
		Snapshots: service.NewSnapshotService(snapshotRepo, itemRepo, uow, observer),
		Trees:     service.NewTreeService(snapshotRepo, itemRepo, cfg.HierarchyOptions(), observer),
	}

	// Detect interactive terminal for prompts and the viewer.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
