package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/goodreads-backup/internal/config"
	"github.com/mrlokans/goodreads-backup/internal/credstore"
)

// StoreCredentialsCommand saves the user ID and API key into the
// encrypted credential store so later runs don't need flags.
type StoreCredentialsCommand struct {
	UserID string
	APIKey string
	DBPath string
}

func NewStoreCredentialsCommand() *StoreCredentialsCommand {
	return &StoreCredentialsCommand{}
}

func (cmd *StoreCredentialsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("store-credentials", flag.ExitOnError)

	fs.StringVar(&cmd.UserID, "user-id", "", "Goodreads user ID to store")
	fs.StringVar(&cmd.APIKey, "api-key", "", "Goodreads API key to store")
	fs.StringVar(&cmd.DBPath, "db", "", "Path to the credential store database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s store-credentials [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Save Goodreads credentials into the local encrypted store.\n")
		fmt.Fprintf(os.Stderr, "Values are AES-256-GCM encrypted; the key file lives in your home directory.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.UserID == "" && cmd.APIKey == "" {
		return fmt.Errorf("nothing to store: provide -user-id and/or -api-key")
	}

	return nil
}

func (cmd *StoreCredentialsCommand) Run() error {
	cfg := config.NewConfig()

	store, err := openStore(cmd.DBPath, cfg)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer store.Close()

	if cmd.UserID != "" {
		if err := store.Set(credstore.ServiceGoodreads, credstore.KeyUserID, cmd.UserID); err != nil {
			return err
		}
		fmt.Println("Stored user ID")
	}
	if cmd.APIKey != "" {
		if err := store.Set(credstore.ServiceGoodreads, credstore.KeyAPIKey, cmd.APIKey); err != nil {
			return err
		}
		fmt.Println("Stored API key")
	}

	return nil
}
