// cmd/service/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"repo-searcher/internal/config"
	"repo-searcher/internal/database"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

var (
	rootCmd = &cobra.Command{
		Use:           "repo-searcher",
		Short:         "Search GitHub repositories and keep a local catalogue of the results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and run the API server",
		RunE:  runServe,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	upCmd = &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrateUp,
	}
	downCmd = &cobra.Command{
		Use:   "down",
		Short: "Revert all applied migrations",
		RunE:  runMigrateDown,
	}
)

func init() {
	migrateCmd.AddCommand(upCmd, downCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// bootstrap loads configuration and installs the JSON logger as the default.
func bootstrap() (*config.Config, *slog.Logger, error) {
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")

	return cfg, logger, nil
}

func openPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return dbpool, nil
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd.Context(), func(mg *database.Migrator) error { return mg.Up() })
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd.Context(), func(mg *database.Migrator) error { return mg.Down() })
}

func withMigrator(ctx context.Context, step func(*database.Migrator) error) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	dbpool, err := openPool(ctx, cfg.DBURL)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	mg, err := database.NewMigrator(dbpool)
	if err != nil {
		return err
	}
	if err := step(mg); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")
	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
