package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pms/m/internal/api"
	"pms/m/internal/inventory"
	"pms/m/internal/seed"
)

var (
	seedPath string
	port     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Connect to the database, apply the schema and serve the JSON API until
interrupted. With --seed the catalog CSV is loaded before serving.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&port, "port", "", "HTTP port (overrides HTTP_PORT)")
	serveCmd.Flags().StringVar(&seedPath, "seed", "", "Medicine catalog CSV to load before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg := loadConfig()
	if port != "" {
		cfg.HTTPPort = port
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	c, closeCache := openCache(ctx, cfg)
	defer closeCache()

	if seedPath != "" {
		if _, err := seed.LoadMedicinesFile(ctx, inventory.NewService(db, c), seedPath); err != nil {
			return err
		}
	}

	handler := api.New(db, c, cfg)
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{"port": cfg.HTTPPort, "driver": cfg.DBDriver}).Info("pharmacy server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
