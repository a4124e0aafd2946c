// Package config loads application settings from environment variables.
// Defaults reproduce the fixed relative paths the tool has always used, so
// running with an empty environment needs no setup.
package config

// Config holds all application configuration.
type Config struct {
	Storage StorageConfig
	Logging LoggingConfig
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	// Backend is "sqlite" or "file" (default: sqlite)
	Backend string `env:"STORAGE_BACKEND" default:"sqlite"`

	// SQLitePath is the database file for the sqlite backend (default: database.db)
	SQLitePath string `env:"SQLITE_PATH" default:"database.db"`

	// TablesDir holds one file per table for the file backend (default: tables)
	TablesDir string `env:"TABLES_DIR" default:"tables"`

	// ContactsFile is the contact list for the file backend (default: contacts.txt)
	ContactsFile string `env:"CONTACTS_FILE" default:"contacts.txt"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the console log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// SeqURL ships logs to a Seq server when set
	SeqURL string `env:"SEQ_URL"`
}
