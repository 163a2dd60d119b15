package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Goodreads
		Output
		CredStore
		Schedule
	}

	Goodreads struct {
		UserID   string
		APIKey   string
		PageSize int
	}
	Output struct {
		Dir       string
		KeepEmpty bool // keep reviews without a rating or text
		Header    bool // write CSV header rows
	}
	CredStore struct {
		DatabasePath string
		KeyFilePath  string
	}
	Schedule struct {
		Cron string // cron format: "0 */6 * * *" = every 6 hours
	}
)

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("goodreads_user_id", "")
	v.SetDefault("goodreads_api_key", "")
	v.SetDefault("backup_page_size", DefaultPageSize)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("keep_empty_reviews", false)
	v.SetDefault("csv_header", true)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("key_file_path", "")
	v.SetDefault("backup_schedule", DefaultSchedule)
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Goodreads: Goodreads{
			UserID:   v.GetString("GOODREADS_USER_ID"),
			APIKey:   v.GetString("GOODREADS_API_KEY"),
			PageSize: v.GetInt("BACKUP_PAGE_SIZE"),
		},
		Output: Output{
			Dir:       v.GetString("OUTPUT_DIR"),
			KeepEmpty: v.GetBool("KEEP_EMPTY_REVIEWS"),
			Header:    v.GetBool("CSV_HEADER"),
		},
		CredStore: CredStore{
			DatabasePath: v.GetString("DATABASE_PATH"),
			KeyFilePath:  v.GetString("KEY_FILE_PATH"),
		},
		Schedule: Schedule{
			Cron: v.GetString("BACKUP_SCHEDULE"),
		},
	}
}

// NewConfig builds configuration from environment variables and
// defaults.
func NewConfig() *Config {
	return fromViper(newViper())
}

// NewConfigFromFile layers a JSON config file under the environment.
// Recognized file keys: user_id, api_key, output_dir.
func NewConfigFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := fromViper(v)

	// File keys use the short names the original config format defined.
	if cfg.Goodreads.UserID == "" {
		cfg.Goodreads.UserID = v.GetString("user_id")
	}
	if cfg.Goodreads.APIKey == "" {
		cfg.Goodreads.APIKey = v.GetString("api_key")
	}
	if dir := v.GetString("output_dir"); dir != "" {
		cfg.Output.Dir = dir
	}

	return cfg, nil
}
