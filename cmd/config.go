package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"d1-migrate/internal/dialect"
	"d1-migrate/internal/dump"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// resolveDSN picks the target connection string: database.dsn (flag, config
// or DATABASE_URL) first, then the active profile under databases.
func resolveDSN() (string, error) {
	if s := viper.GetString("database.dsn"); s != "" {
		return s, nil
	}

	config, err := GetActiveDBConfig()
	if err != nil {
		return "", fmt.Errorf("no target database: provide --dsn, set DATABASE_URL or configure databases (%w)", err)
	}
	if config.Driver != "" && config.Driver != "mysql" {
		return "", fmt.Errorf("database %q uses driver %q, only mysql is supported", config.Name, config.Driver)
	}
	log.Printf("Using database profile %q", config.Name)
	return config.DSN, nil
}

// openTarget connects to the target MySQL database.
func openTarget(ctx context.Context) (*sql.DB, error) {
	raw, err := resolveDSN()
	if err != nil {
		return nil, err
	}
	connStr, err := dialect.MySQLDSN(raw)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	log.Printf("Connected to %s", dialect.RedactDSN(raw))
	return db, nil
}

// loadMapping builds the table mapping from the defaults plus the mapping
// and settings.batch_size keys of the config.
func loadMapping() (*dump.Mapping, error) {
	var o dump.Overrides
	if err := viper.UnmarshalKey("mapping", &o); err != nil {
		return nil, fmt.Errorf("failed to parse mapping config: %w", err)
	}
	if o.BatchSize == 0 {
		o.BatchSize = viper.GetInt("settings.batch_size")
	}
	return dump.DefaultMapping().WithOverrides(o), nil
}

// readDump loads the whole dump file; dump.path when path is empty.
func readDump(path string) (string, error) {
	if path == "" {
		path = viper.GetString("dump.path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read dump: %w", err)
	}
	log.Printf("SQL file: %s (%d bytes)", path, len(data))
	return string(data), nil
}
