package main

import (
	"fmt"

	"estatehub/db"
	"estatehub/internal/auth"
	"estatehub/internal/service"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative commands",
}

var grantAdminCmd = &cobra.Command{
	Use:   "grant [email]",
	Short: "Grant the admin role to a registered user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dbConn, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer dbConn.Close()

		svc := service.New(db.NewStorage(dbConn), auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL))
		if err := svc.GrantAdmin(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to grant admin: %w", err)
		}

		fmt.Printf("✓ %s is now an admin\n", args[0])
		return nil
	},
}

func init() {
	adminCmd.AddCommand(grantAdminCmd)
}
