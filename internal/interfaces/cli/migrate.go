package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/TimebarKeeper/internal/config"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
)

// newMigrateCommand creates `tbk migrate` with up/down/status/force
// subcommands driving golang-migrate against the configured database.
func newMigrateCommand(opts *RootOptions) *cobra.Command {
	var migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "migrations directory (defaults to database.migration_path)")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, src, err := migrationTarget(opts, migrationsPath)
			if err != nil {
				return err
			}
			if err := postgres.RunMigrations(dbURL, src); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the given number of migration steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, src, err := migrationTarget(opts, migrationsPath)
			if err != nil {
				return err
			}
			if err := postgres.RollbackMigration(dbURL, src, steps); err != nil {
				return err
			}
			cmd.Printf("rolled back %d step(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migration steps to roll back")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, src, err := migrationTarget(opts, migrationsPath)
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationStatus(dbURL, src)
			if err != nil {
				return err
			}
			cmd.Printf("version: %d  dirty: %v\n", version, dirty)
			return nil
		},
	}

	var forceVersion int
	force := &cobra.Command{
		Use:   "force",
		Short: "Force the schema version after a failed migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if forceVersion < 0 {
				return fmt.Errorf("--version is required")
			}
			dbURL, src, err := migrationTarget(opts, migrationsPath)
			if err != nil {
				return err
			}
			if err := postgres.ForceMigrationVersion(dbURL, src, forceVersion); err != nil {
				return err
			}
			cmd.Printf("schema version forced to %d\n", forceVersion)
			return nil
		},
	}
	force.Flags().IntVar(&forceVersion, "version", -1, "schema version to force")

	cmd.AddCommand(up, down, status, force)
	return cmd
}

// migrationTarget resolves the database URL and migration source from config
// plus flag overrides.
func migrationTarget(opts *RootOptions, pathOverride string) (dbURL, src string, err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return "", "", err
	}

	path := cfg.Database.MigrationPath
	if pathOverride != "" {
		path = pathOverride
	}
	if path == "" {
		return "", "", fmt.Errorf("no migrations path configured; set database.migration_path or --path")
	}

	return postgres.BuildDSN(pgConfig(cfg)), "file://" + path, nil
}

// pgConfig maps the service configuration onto the postgres package config.
func pgConfig(cfg *config.Config) postgres.PostgresConfig {
	return postgres.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.DBName,
		Username:        cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}
}

//Personal.AI order the ending
