package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go-membership-api/internal/app"
	"go-membership-api/internal/config"
	"go-membership-api/internal/logger"
)

// NewRootCmd creates the root command. Without a subcommand it serves.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "membership-api",
		Short:         "Multi-tenant membership API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.LogFormat, level))

	application, err := app.New(cmd.Context(), cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		return err
	}

	if err := application.Run(cmd.Context()); err != nil {
		slog.Error("application run failed", "error", err)
		return err
	}
	return nil
}
