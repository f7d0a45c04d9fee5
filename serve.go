package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"booktracker/library"
	"booktracker/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := server.LoadConfig()
		if err != nil {
			return err
		}

		db, err := library.NewDatabase(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		srv := server.New(cfg, db)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Listen() }()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

		log.Printf("booktracker listening on %s (db: %s)", cfg.Addr, cfg.DBPath)
		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			log.Printf("received %s, shutting down", sig)
			return srv.Shutdown()
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
