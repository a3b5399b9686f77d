package cli

import (
	"github.com/spf13/cobra"

	"pms/m/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		stmts, err := migrations.Statements(cfg.DBDriver)
		if err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "schema up to date (%d tables, %s)", len(stmts), db.DriverName())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
