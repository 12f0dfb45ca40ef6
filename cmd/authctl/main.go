package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/authkit/authkit/internal/config"
	"github.com/authkit/authkit/internal/infrastructure/postgres"
)

func main() {
	root := &cobra.Command{
		Use:           "authctl",
		Short:         "Operational tooling for the auth service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.Migrate(cmd.Context(), mustDSN())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.MigrateDown(cmd.Context(), mustDSN())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the migration status of the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postgres.MigrationStatus(cmd.Context(), mustDSN())
		},
	})

	return cmd
}

func mustDSN() string {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg.DatabaseDSN
}
