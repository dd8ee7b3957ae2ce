package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fightpurse/fightpursed/internal/config"
	"github.com/fightpurse/fightpursed/internal/server"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb/postgres"
	"github.com/fightpurse/fightpursed/internal/xaman"
)

var listenAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the FightPurse API server",
	Long: `Start the HTTP API. Configuration comes from the environment (and an
optional .env file); see the config package for the recognized variables.
In development the baseline schema is applied automatically on startup.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// server is the default command
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return serverCmd.RunE(cmd, args)
	}

	serverCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides LISTEN_ADDR)")
}

func runServer(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	db, err := postgres.NewDatabase(relationaldb.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to configure database: %w", err)
	}
	if err := db.Open(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.DBAutoMigrateOnStartup {
		logger.Info("applying schema migrations")
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	xamanService, err := xaman.NewService(cfg.XamanMode, cfg.XamanAPIBaseURL, cfg.XamanAPIKey, cfg.XamanAPISecret, cfg.XamanTimeout)
	if err != nil {
		return fmt.Errorf("failed to build xaman service: %w", err)
	}

	logger.Info("starting server",
		"app", cfg.AppName,
		"env", cfg.AppEnv,
		"listen", cfg.ListenAddr,
		"xaman_mode", cfg.XamanMode,
	)
	return server.New(cfg, db, xamanService, logger).Router().Run(cfg.ListenAddr)
}
