package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/prajjawal-kansara/AIdvisor/catalog"
	"github.com/prajjawal-kansara/AIdvisor/internal/logger"
)

type options struct {
	databaseURL    string
	migrationsPath string
	seedFile       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Fatal("Migration command failed", "error", err)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the tool catalog database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.databaseURL == "" {
				opts.databaseURL = os.Getenv("DATABASE_URL")
			}
			if opts.databaseURL == "" {
				return errors.New("database URL is required: use --database or DATABASE_URL")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.databaseURL, "database", "", "Database URL (defaults to DATABASE_URL)")
	root.PersistentFlags().StringVar(&opts.migrationsPath, "path", "migrations", "Path to migrations directory")

	root.AddCommand(
		newUpCmd(opts),
		newDownCmd(opts),
		newVersionCmd(opts),
		newForceCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

func (o *options) migrator() (*migrate.Migrate, error) {
	logger.Info("Connecting to database", "migrations", o.migrationsPath)
	m, err := migrate.New(fmt.Sprintf("file://%s", o.migrationsPath), o.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

func newUpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.migrator()
			if err != nil {
				return err
			}
			defer m.Close()

			err = m.Up()
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("No migrations to run (database is up to date)")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			logger.Info("Migrations completed")
			return nil
		},
	}
}

func newDownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.migrator()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("failed to roll back migrations: %w", err)
			}
			logger.Info("Rollback completed")
			return nil
		},
	}
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.migrator()
			if err != nil {
				return err
			}
			defer m.Close()

			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %v)\n", version, dirty)
			return nil
		},
	}
}

func newForceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version number %q: %w", args[0], err)
			}

			m, err := opts.migrator()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Force(version); err != nil {
				return fmt.Errorf("failed to force version: %w", err)
			}
			logger.Info("Forced schema version", "version", version)
			return nil
		},
	}
}

func newSeedCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert catalog tools that are not yet stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := seedRecords(opts.seedFile)
			if err != nil {
				return err
			}

			db, err := sql.Open("postgres", opts.databaseURL)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			added, err := catalog.Seed(ctx, catalog.NewPostgresStore(db), records)
			if err != nil {
				return fmt.Errorf("failed to seed catalog: %w", err)
			}
			logger.Info("Catalog seeded", "added", added, "total", len(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.seedFile, "file", "", "YAML catalog to seed (defaults to the built-in catalog)")
	return cmd
}

func seedRecords(path string) ([]catalog.ToolRecord, error) {
	if path == "" {
		return catalog.SeedRecords()
	}
	records, err := catalog.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := catalog.ValidateRecords(records); err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}
	return records, nil
}
