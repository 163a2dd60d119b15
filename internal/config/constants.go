package config

const (
	// DefaultOutputDir matches the original script: back up into the
	// current directory unless told otherwise.
	DefaultOutputDir = "."

	// DefaultDatabasePath is where the credential store lives.
	DefaultDatabasePath = "./goodreads-backup.db"

	// DefaultPageSize is the per_page value sent to the API.
	DefaultPageSize = 200

	// DefaultSchedule runs a scheduled backup every six hours.
	DefaultSchedule = "0 */6 * * *"
)
