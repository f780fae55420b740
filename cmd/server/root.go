package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dayflow/hr-engine/config"
	"github.com/dayflow/hr-engine/logging"
	"github.com/dayflow/hr-engine/store/sqlstore"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "hr-engine",
	Short:         "Time-off and salary service",
	Long:          `Tracks time-off balances and requests, and computes salary breakdowns.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file or directory containing config.yml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(initTypesCmd)
	rootCmd.AddCommand(initBalancesCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}

// app is what every subcommand starts from.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		App:    "hr-engine",
	})
	slog.SetDefault(logger)
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) context(parent context.Context) context.Context {
	return logging.WithContext(parent, a.logger)
}

func (a *app) openStore(ctx context.Context, skipMigrations bool) (*sqlstore.Store, error) {
	return sqlstore.Open(ctx, sqlstore.Config{
		Driver:         a.cfg.Database.Driver,
		DSN:            a.cfg.Database.DSN,
		SkipMigrations: skipMigrations,
	})
}
