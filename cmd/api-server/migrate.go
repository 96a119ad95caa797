package main

import (
	"fmt"

	"estatehub/db/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, dbConn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := migrations.Run(cmd.Context(), dbConn.DB); err != nil {
			return err
		}
		fmt.Println("✓ Migrations applied")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, dbConn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return migrations.Status(cmd.Context(), dbConn.DB)
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
}
