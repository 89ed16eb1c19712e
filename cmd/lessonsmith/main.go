package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/lessonsmith/internal/app"
	"github.com/alexanderramin/lessonsmith/internal/assembler"
	"github.com/alexanderramin/lessonsmith/internal/cli"
	"github.com/alexanderramin/lessonsmith/internal/config"
	"github.com/alexanderramin/lessonsmith/internal/db"
	"github.com/alexanderramin/lessonsmith/internal/logging"
	"github.com/alexanderramin/lessonsmith/internal/phrase"
	"github.com/alexanderramin/lessonsmith/internal/repository"
	"github.com/alexanderramin/lessonsmith/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags picks --config and --verbose out of args before the command
// tree exists, since both decide how the App is built.
func globalFlags(args []string) (configPath string, verbose bool) {
	fs := pflag.NewFlagSet("lessonsmith", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.StringVar(&configPath, "config", "", "")
	fs.BoolVarP(&verbose, "verbose", "v", false, "")
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)

	if configPath == "" {
		configPath = config.DefaultPath()
	}
	return configPath, verbose
}

func run(args []string) error {
	configPath, verbose := globalFlags(args)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	defer log.Sync()

	lib, err := phrase.Load(cfg.ContentPath(cfg.Library.Path))
	if err != nil {
		return err
	}
	asm, err := assembler.New(lib, cfg.Assembly)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	noteRepo := repository.NewSQLiteNoteRepo(database)
	questionRepo := repository.NewSQLiteAssessmentRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	observer := service.NewLogUseCaseObserver(log)
	layout := service.ContentLayout{
		Root:     cfg.Content.Root,
		ListFile: cfg.Content.ListFile,
		Glob:     cfg.Content.Glob,
	}
	catalogSvc := service.NewCatalogService(cfg.CatalogPath(), observer)

	rebuildDefaults := app.NewRebuildRequest()
	rebuildDefaults.Jobs = cfg.Content.Jobs
	if err := rebuildDefaults.MissingDomain.Set(cfg.Content.MissingDomain); err != nil {
		return fmt.Errorf("content.missing_domain: %w", err)
	}

	application := &cli.App{
		Notes:           service.NewNoteService(noteRepo, observer),
		Assessments:     service.NewAssessmentService(questionRepo, uow, observer),
		Rebuild:         service.NewRebuildService(asm, layout, log, observer),
		Scaffold:        service.NewScaffoldService(catalogSvc, asm, layout, observer),
		Catalog:         catalogSvc,
		Library:         lib,
		Policy:          cfg.Assembly,
		UserID:          cfg.Notes.UserID,
		RebuildDefaults: rebuildDefaults,
		Log:             log,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug("starting", "config", configPath, "db", cfg.Database.Path, "content_root", cfg.Content.Root)

	rootCmd := cli.NewRootCmd(application)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
