// Package cli defines the cobra command tree for imobly.
package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/imobly/imobly/internal/config"
	"github.com/imobly/imobly/internal/db"
	"github.com/imobly/imobly/internal/imagestore"
	"github.com/imobly/imobly/internal/property"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "imobly",
		Short:         "Real-estate listing backend",
		Long:          "Manage real-estate listings, record sales, and serve the JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.imobly/listings.db)")

	root.AddCommand(
		newServeCmd(),
		newListCmd(),
		newStatsCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads the environment configuration, with --db taking
// precedence over IMOBLY_DB.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
		if os.Getenv("IMOBLY_UPLOAD_DIR") == "" {
			cfg.UploadDir = filepath.Join(filepath.Dir(flagDB), "uploads")
		}
	}
	return cfg, nil
}

// newListingStore opens the database and wires a listing store over it.
func newListingStore() (*property.Store, *sql.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	images, err := imagestore.NewFileStore(cfg.UploadDir)
	if err != nil {
		closeDB(database)
		return nil, nil, err
	}

	return property.NewStore(database, images), database, nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
