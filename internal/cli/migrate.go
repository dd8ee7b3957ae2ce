package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fightpurse/fightpursed/internal/config"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	Long: `Apply the embedded schema migrations to the database named by
DATABASE_URL. Safe to run repeatedly; an up-to-date schema is a no-op.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := postgres.NewDatabase(relationaldb.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to configure database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	fmt.Println("migrations applied")
	return nil
}
