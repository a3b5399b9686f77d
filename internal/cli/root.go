// Package cli is the pms command line: serve the API, migrate, seed and extract.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pms/m/internal/cache"
	"pms/m/internal/config"
	"pms/m/internal/database"
	"pms/m/internal/migrations"
)

var (
	// Global flags
	dbDriver string
	dbDSN    string
)

var rootCmd = &cobra.Command{
	Use:   "pms",
	Short: "Pharmacy management service",
	Long: `pms runs the pharmacy management JSON API and its maintenance tasks.

Configuration is read from the environment (and a .env file when present).
--driver and --dsn override DB_DRIVER and DATABASE_DSN.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Database driver: sqlite, postgres or mysql")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "dsn", "", "Database connection string")
}

// loadConfig applies command line overrides on top of the environment.
func loadConfig() config.Config {
	cfg := config.Load()
	if dbDriver != "" {
		cfg.DBDriver = dbDriver
		if dbDSN == "" && os.Getenv("DATABASE_DSN") == "" {
			cfg.DatabaseDSN = config.DefaultDSN(dbDriver)
		}
	}
	if dbDSN != "" {
		cfg.DatabaseDSN = dbDSN
	}
	cfg.ConfigureLogging()
	return cfg
}

// openDB connects and brings the schema up to date.
func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// openCache returns redis when configured and reachable, otherwise a no-op cache.
func openCache(ctx context.Context, cfg config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		return cache.Noop{}, func() {}
	}
	rc, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		logrus.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unavailable, report caching disabled")
		return cache.Noop{}, func() {}
	}
	return rc, func() { _ = rc.Close() }
}
