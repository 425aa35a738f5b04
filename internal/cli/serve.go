package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imobly/imobly/internal/db"
	"github.com/imobly/imobly/internal/logging"
	"github.com/imobly/imobly/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP server for the listing API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: IMOBLY_PORT or 8080)")

	return cmd
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}

	logging.Setup(cfg.DevMode)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeDB(database)

	srv, err := web.NewServer(database, web.Options{
		UploadDir:   cfg.UploadDir,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Listening on http://localhost:%d\n", cfg.Port)
	return srv.ListenAndServe(cfg.Port)
}
