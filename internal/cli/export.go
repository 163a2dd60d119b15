package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/goodreads-backup/internal/backup"
	"github.com/mrlokans/goodreads-backup/internal/config"
	"github.com/mrlokans/goodreads-backup/internal/credstore"
	"github.com/mrlokans/goodreads-backup/internal/entities"
	"github.com/mrlokans/goodreads-backup/internal/goodreads"
)

// ExportCommand backs up the configured listing types to local files.
type ExportCommand struct {
	UserID     string
	APIKey     string
	OutputDir  string
	ConfigPath string
	Listings   string
	DBPath     string
	KeepEmpty  bool
	NoHeader   bool
	Verbose    bool
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.UserID, "user-id", "", "Goodreads user ID")
	fs.StringVar(&cmd.APIKey, "api-key", "", "Goodreads API key (https://www.goodreads.com/api/keys)")
	fs.StringVar(&cmd.OutputDir, "output", "", "Output directory for backup files")
	fs.StringVar(&cmd.ConfigPath, "config", "", "Path to a JSON config file (keys: user_id, api_key, output_dir)")
	fs.StringVar(&cmd.Listings, "listings", "reviews,shelves,statuses", "Comma-separated listing types to export")
	fs.StringVar(&cmd.DBPath, "db", "", "Path to the credential store database")
	fs.BoolVar(&cmd.KeepEmpty, "keep-empty", false, "Keep reviews without a rating or review text")
	fs.BoolVar(&cmd.NoHeader, "no-header", false, "Omit header rows from CSV files")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Back up your Goodreads reviews, shelves, and reading statuses to local files.\n\n")
		fmt.Fprintf(os.Stderr, "Credentials are resolved in order: flags, config file, credential store.\n")
		fmt.Fprintf(os.Stderr, "Use '%s store-credentials' to save them once so flags become optional.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Full backup into ./backup:\n")
		fmt.Fprintf(os.Stderr, "  %s export -user-id 12345678 -api-key KEY -output ./backup\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Reviews only, with stored credentials:\n")
		fmt.Fprintf(os.Stderr, "  %s export -listings reviews\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *ExportCommand) Run() error {
	cfg, err := cmd.loadConfig()
	if err != nil {
		return err
	}

	listings, err := parseListings(cmd.Listings)
	if err != nil {
		return err
	}

	creds, err := cmd.resolveCredentials(cfg)
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

	if cmd.Verbose {
		fmt.Printf("User ID: %s\n", creds.UserID)
		fmt.Printf("Output:  %s\n", absOutputDir)
		fmt.Printf("Listings: %s\n", cmd.Listings)
	}

	runner := &backup.Runner{
		Client:    goodreads.NewClient(goodreads.ClientConfig{PageSize: cfg.Goodreads.PageSize}),
		Creds:     creds,
		OutputDir: absOutputDir,
		KeepEmpty: cmd.KeepEmpty || cfg.Output.KeepEmpty,
		Header:    cfg.Output.Header && !cmd.NoHeader,
		Listings:  listings,
	}

	summary, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	printSummary(summary)

	if failed := summary.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d listing type(s) failed to export", len(failed))
	}

	fmt.Println("\nBackup complete!")
	return nil
}

func (cmd *ExportCommand) loadConfig() (*config.Config, error) {
	path := cmd.ConfigPath
	if path == "" {
		path = os.Getenv("BACKUP_CONFIG_FILE")
	}
	if path != "" {
		return config.NewConfigFromFile(path)
	}
	return config.NewConfig(), nil
}

// resolveCredentials builds the precedence chain: flags beat the config
// file, which beats the credential store. The store is only opened when
// earlier sources left a field unresolved.
func (cmd *ExportCommand) resolveCredentials(cfg *config.Config) (goodreads.Credentials, error) {
	sources := []backup.CredentialSource{
		backup.StaticSource{
			SourceName: "flags",
			Creds:      goodreads.Credentials{UserID: cmd.UserID, APIKey: cmd.APIKey},
		},
		backup.StaticSource{
			SourceName: "config",
			Creds:      goodreads.Credentials{UserID: cfg.Goodreads.UserID, APIKey: cfg.Goodreads.APIKey},
		},
	}

	needStore := (cmd.UserID == "" && cfg.Goodreads.UserID == "") ||
		(cmd.APIKey == "" && cfg.Goodreads.APIKey == "")
	if needStore {
		store, err := openStore(cmd.DBPath, cfg)
		if err != nil {
			if cmd.Verbose {
				fmt.Printf("Credential store unavailable: %v\n", err)
			}
		} else {
			defer store.Close()
			sources = append(sources, backup.StoreSource{Store: store})
		}
	}

	return backup.Resolve(sources...)
}

func openStore(dbPath string, cfg *config.Config) (*credstore.Store, error) {
	if dbPath == "" {
		dbPath = cfg.CredStore.DatabasePath
	}
	return credstore.New(credstore.Config{
		DatabasePath: dbPath,
		KeyFilePath:  cfg.CredStore.KeyFilePath,
	})
}

func parseListings(value string) ([]entities.ListingType, error) {
	known := map[entities.ListingType]bool{
		entities.ListingReviews:  true,
		entities.ListingShelves:  true,
		entities.ListingStatuses: true,
	}

	var listings []entities.ListingType
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		listing := entities.ListingType(part)
		if !known[listing] {
			return nil, fmt.Errorf("unknown listing type %q (use reviews, shelves, statuses)", part)
		}
		listings = append(listings, listing)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("no listing types selected")
	}
	return listings, nil
}

func printSummary(summary backup.Summary) {
	fmt.Println("\n=== Backup Summary ===")
	for _, r := range summary.Results {
		if r.Err != nil {
			fmt.Printf("%-10s [FAILED] %v\n", r.Listing, r.Err)
			continue
		}
		fmt.Printf("%-10s %d records, %d file(s)\n", r.Listing, r.Records, r.Files)
	}
}
