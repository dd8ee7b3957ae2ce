// Package cli wires the fightpursed commands: the API server, schema
// migration, and version reporting.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fightpursed",
	Short: "FightPurse - XRPL prize fight escrow backend",
	Long: `fightpursed orchestrates prize fight purses held in XRPL escrows.
It plans show and bonus escrows per bout, builds the unsigned EscrowCreate,
EscrowFinish, and EscrowCancel payloads for wallet signing, validates ledger
confirmations, and settles payouts once a result is entered. The service
never holds signing keys; all transactions are signed externally via Xaman.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
