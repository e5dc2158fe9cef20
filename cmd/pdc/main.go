package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Fred49680/PDC-sub001/internal/calendar"
	"github.com/Fred49680/PDC-sub001/internal/cli"
	"github.com/Fred49680/PDC-sub001/internal/config"
	"github.com/Fred49680/PDC-sub001/internal/db"
	"github.com/Fred49680/PDC-sub001/internal/repository"
	"github.com/Fred49680/PDC-sub001/internal/service"
	"github.com/Fred49680/PDC-sub001/internal/syncer"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine config path: env var or default ~/.pdc/config.yaml
	cfgPath := os.Getenv("PDC_CONFIG")
	if cfgPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		cfgPath = filepath.Join(home, ".pdc", "config.yaml")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// Determine DB path: env var wins, then config, then ~/.pdc/pdc.db
	dbPath := os.Getenv("PDC_DB")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".pdc", "pdc.db")
	}

	// Drop colors when output is piped.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	var obs service.UseCaseObserver = service.NoopUseCaseObserver{}
	if os.Getenv("PDC_VERBOSE") != "" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		obs = service.NewLogUseCaseObserver(os.Stderr)
	}

	holidays, err := cfg.HolidayDates()
	if err != nil {
		return err
	}
	cal := calendar.New(holidays)

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire the change feed and repositories
	feed := repository.NewChangeFeed(logger)
	demandRepo := repository.NewSQLiteDemandRepo(database, feed)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database, feed)
	absenceRepo := repository.NewSQLiteAbsenceRepo(database, feed)
	resourceRepo := repository.NewSQLiteResourceRepo(database)
	transferRepo := repository.NewSQLiteTransferRepo(database, feed)
	alertRepo := repository.NewSQLiteAlertRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	// The syncer doubles as the consolidation Reloader, so it is created
	// before the services and handed its writers afterwards.
	sync := syncer.New(feed, demandRepo, assignmentRepo, absenceRepo, cfg.Debounce(), logger)

	transferSvc := service.NewTransferService(transferRepo, assignmentRepo, resourceRepo, alertRepo, obs)
	demandSvc := service.NewDemandService(uow, demandRepo, assignmentRepo, cal, cfg.Sites, sync, obs)
	assignmentSvc := service.NewAssignmentService(
		uow, assignmentRepo, demandRepo, absenceRepo, resourceRepo, alertRepo,
		transferSvc, cal, cfg.Sites, sync, obs)

	sync.SetWriters(syncer.Writers{
		SaveDemand:       demandSvc.Save,
		SaveAssignment:   assignmentSvc.Save,
		DeleteDemand:     demandSvc.Delete,
		DeleteAssignment: assignmentSvc.Delete,
	})

	ctx := context.Background()
	if err := sync.Start(ctx); err != nil {
		return fmt.Errorf("starting sync layer: %w", err)
	}
	defer sync.Stop(ctx)

	app := &cli.App{
		Demands:     demandSvc,
		Assignments: assignmentSvc,
		Transfers:   transferSvc,
		Alerts:      alertRepo,
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
