package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := DefaultConfig()
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "lasertag",
		Short: "CLI tool for the lasertag ledger API",
		Long: `lasertag is a CLI tool for the laser tag game ledger.

It registers players, records hits, drives player streams and prints the
leaderboard from a running server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Output != "text" && cfg.Output != "json" {
				return fmt.Errorf("invalid --output %q: must be text or json", cfg.Output)
			}
			a.client = NewClient(cfg.ServerURL)
			a.out = NewOutput(cfg.Output, cmd.OutOrStdout())
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: LASERTAG_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newPlayerCmd(a))
	rootCmd.AddCommand(newHitCmd(a))
	rootCmd.AddCommand(newStreamCmd(a))
	rootCmd.AddCommand(newLeaderboardCmd(a))
	rootCmd.AddCommand(newStreamsCmd(a))
	rootCmd.AddCommand(newHealthCmd(a))

	return rootCmd
}

// app is the state shared by subcommands once flags are parsed
type app struct {
	cfg    *Config
	client *Client
	out    *Output
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
