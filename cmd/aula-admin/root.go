package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/digieduhack/aula-api/config"
	"github.com/digieduhack/aula-api/internal/bootstrap"
)

const defaultCommandTimeout = 5 * time.Minute

var commandTimeout time.Duration

var rootCmd = &cobra.Command{
	Use:           "aula-admin",
	Short:         "Operator tasks for the aula API: migrations, accounts and course ownership.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&commandTimeout, "timeout", defaultCommandTimeout,
		"Maximum duration to wait for the command to complete")
	rootCmd.AddCommand(migrateCmd, createAccountCmd, claimOrphansCmd)
}

// commandEnv is what every subcommand gets after config is loaded.
type commandEnv struct {
	Logger *slog.Logger
	Config config.AppConfig
}

func loadCommandEnv() (*commandEnv, error) {
	logger := bootstrap.InitLogger(os.Getenv("LOG_LEVEL"))
	cfg, err := bootstrap.ParseConfig()
	if err != nil {
		return nil, err
	}
	return &commandEnv{Logger: bootstrap.InitLogger(cfg.Observability.Logging.Level), Config: cfg}, nil
}

// withDatabase connects, bounds the command by --timeout and SIGINT/SIGTERM, and runs f.
func withDatabase(parent context.Context, f func(context.Context, *commandEnv, *sql.DB) error) error {
	if commandTimeout <= 0 {
		return errors.New("--timeout must be greater than zero")
	}
	env, err := loadCommandEnv()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: env.Config.Postgres, Logger: env.Logger})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			env.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, env, db)
}
