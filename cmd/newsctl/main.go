package main

import (
	"fmt"
	"os"

	"github.com/newsportal/internal/config"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/models"
	"github.com/newsportal/internal/provider"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "newsctl",
		Short:         "News portal management commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		migrateCmd(),
		rolesCmd(),
		digestCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openContainer loads the configuration, migrates the schema and wires the
// services without redis or casbin.
func openContainer() (*provider.Container, error) {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := models.EnsureBuiltinRoles(models.DB); err != nil {
		return nil, fmt.Errorf("builtin roles: %w", err)
	}
	return provider.NewContainerWithDB(cfg, models.DB, nil), nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tables and the builtin roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openContainer(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
