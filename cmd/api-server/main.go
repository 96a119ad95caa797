package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"estatehub/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "estatehub",
	Short: "estatehub - real estate listings and tender bidding API",
	Long: `estatehub serves the real estate listings and tender bidding API.

Use "estatehub serve" to start the HTTP server, "estatehub migrate" to manage the
database schema and "estatehub admin" for administrative tasks.`,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, adminCmd)
}

// connect загружает конфигурацию и открывает соединение с базой
func connect(ctx context.Context) (*config.Config, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	dbConn, err := sqlx.ConnectContext(ctx, "postgres", cfg.PostgresConn)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot connect to DB: %w", err)
	}
	return cfg, dbConn, nil
}
