package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mrlokans/goodreads-backup/internal/backup"
	"github.com/mrlokans/goodreads-backup/internal/goodreads"
	"github.com/mrlokans/goodreads-backup/internal/scheduler"
)

// ScheduleCommand keeps the process alive and backs up on a cron
// schedule until interrupted.
type ScheduleCommand struct {
	UserID     string
	APIKey     string
	OutputDir  string
	ConfigPath string
	Listings   string
	DBPath     string
	Cron       string
	KeepEmpty  bool
}

func NewScheduleCommand() *ScheduleCommand {
	return &ScheduleCommand{}
}

func (cmd *ScheduleCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)

	fs.StringVar(&cmd.UserID, "user-id", "", "Goodreads user ID")
	fs.StringVar(&cmd.APIKey, "api-key", "", "Goodreads API key")
	fs.StringVar(&cmd.OutputDir, "output", "", "Output directory for backup files")
	fs.StringVar(&cmd.ConfigPath, "config", "", "Path to a JSON config file")
	fs.StringVar(&cmd.Listings, "listings", "reviews,shelves,statuses", "Comma-separated listing types to export")
	fs.StringVar(&cmd.DBPath, "db", "", "Path to the credential store database")
	fs.StringVar(&cmd.Cron, "cron", "", "Cron schedule (default from config: \"0 */6 * * *\")")
	fs.BoolVar(&cmd.KeepEmpty, "keep-empty", false, "Keep reviews without a rating or review text")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s schedule [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Run backups periodically on a cron schedule. Runs until interrupted.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  # Nightly backup at 03:00:\n")
		fmt.Fprintf(os.Stderr, "  %s schedule -cron \"0 3 * * *\" -output ~/backups/goodreads\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *ScheduleCommand) Run() error {
	export := &ExportCommand{
		UserID:     cmd.UserID,
		APIKey:     cmd.APIKey,
		OutputDir:  cmd.OutputDir,
		ConfigPath: cmd.ConfigPath,
		Listings:   cmd.Listings,
		DBPath:     cmd.DBPath,
		KeepEmpty:  cmd.KeepEmpty,
	}

	cfg, err := export.loadConfig()
	if err != nil {
		return err
	}

	listings, err := parseListings(cmd.Listings)
	if err != nil {
		return err
	}

	// Resolve once up front so a configuration problem surfaces
	// immediately instead of at the first tick.
	creds, err := export.resolveCredentials(cfg)
	if err != nil {
		return err
	}

	outputDir := cfg.Output.Dir
	if cmd.OutputDir != "" {
		outputDir = cmd.OutputDir
	}
	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for output: %w", err)
	}

	schedule := cfg.Schedule.Cron
	if cmd.Cron != "" {
		schedule = cmd.Cron
	}

	runner := &backup.Runner{
		Client:    goodreads.NewClient(goodreads.ClientConfig{PageSize: cfg.Goodreads.PageSize}),
		Creds:     creds,
		OutputDir: absOutputDir,
		KeepEmpty: cmd.KeepEmpty || cfg.Output.KeepEmpty,
		Header:    cfg.Output.Header,
		Listings:  listings,
	}

	sched := scheduler.New(schedule, func(ctx context.Context) error {
		summary, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		if failed := summary.Failed(); len(failed) > 0 {
			return fmt.Errorf("%d listing type(s) failed to export", len(failed))
		}
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		return err
	}

	fmt.Printf("Scheduled backups with '%s'. Press Ctrl-C to stop.\n", schedule)
	<-ctx.Done()
	sched.Stop()

	return nil
}
