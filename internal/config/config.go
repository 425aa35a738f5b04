// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the listing backend.
type Config struct {
	Port        int
	DBPath      string
	UploadDir   string
	JWTSecret   string
	CORSOrigins []string
	DevMode     bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	port := 8080
	if v := os.Getenv("IMOBLY_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid IMOBLY_PORT %q: %w", v, err)
		}
		port = p
	}

	dbPath := os.Getenv("IMOBLY_DB")
	if dbPath == "" {
		var err error
		dbPath, err = defaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	uploadDir := os.Getenv("IMOBLY_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = filepath.Join(filepath.Dir(dbPath), "uploads")
	}

	origins := []string{"*"}
	if v := os.Getenv("IMOBLY_CORS_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		Port:        port,
		DBPath:      dbPath,
		UploadDir:   uploadDir,
		JWTSecret:   os.Getenv("IMOBLY_JWT_SECRET"),
		CORSOrigins: origins,
		DevMode:     os.Getenv("IMOBLY_DEV") == "true",
	}, nil
}

// defaultDBPath returns ~/.imobly/listings.db.
func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".imobly", "listings.db"), nil
}
