package cli

import (
	"github.com/spf13/cobra"

	"pms/m/internal/accounts"
	"pms/m/internal/inventory"
	"pms/m/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed <catalog.csv>",
	Short: "Load a medicine catalog CSV",
	Long: `Load rows of name,stock,symptom,brand,price (after a header line) into
the inventory. A row matching an existing name and brand adds to its stock.

Example:
  pms seed assets/medicines.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		c, closeCache := openCache(cmd.Context(), cfg)
		defer closeCache()

		res, err := seed.LoadMedicinesFile(cmd.Context(), inventory.NewService(db, c), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		success(out, "%d inserted, %d merged", res.Inserted, res.Merged)
		if res.Skipped > 0 {
			warning(out, "%d rows skipped", res.Skipped)
		}
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin <username> <password>",
	Short: "Create an administrator account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := accounts.NewService(db).AddAdmin(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "admin %s created", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
}
