package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/IlianBuh/Blog-service/internal/config"
	"github.com/IlianBuh/Blog-service/internal/lib/logger/sl"
	"github.com/IlianBuh/Blog-service/internal/storage/postgres"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	migrationsPath string
	downAll        bool
	downSteps      int
)

var rootCmd = &cobra.Command{
	Use:           "migrator",
	Short:         "Apply database migrations of blog service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(m *migrate.Migrate) error {
			return m.Up()
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back applied migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(m *migrate.Migrate) error {
			if downAll {
				return m.Down()
			}
			return m.Steps(-downSteps)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("version %d, dirty %t\n", version, dirty)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "migrations-path", "./migrations", "path to directory with migration files")

	downCmd.Flags().IntVarP(&downSteps, "steps", "n", 1, "number of migrations to roll back")
	downCmd.Flags().BoolVar(&downAll, "all", false, "roll back all migrations")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to migrate", sl.Err(err))
		os.Exit(1)
	}
}

func run(action func(m *migrate.Migrate) error) error {
	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+migrationsPath, postgres.DSN(cfg.Storage))
	if err != nil {
		return fmt.Errorf("failed to create new migrator instance: %w", err)
	}
	defer m.Close()

	err = action(m)
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("no changes")
		return nil
	}

	return err
}
