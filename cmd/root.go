package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/RouteBytes/synthese-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags (wired to config at load time)
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "synthese",
	Short: "Synthese CLI: merge the ONISR accident tables into one dashboard-ready CSV",
	Long:  `Synthese is a batch CLI that joins the four yearly ONISR road-accident tables (characteristics, locations, users, vehicles) into a single denormalized synthesis table, enriched with readable labels, for the accident dashboard to load.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.synthese/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: every key has a working default
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// effectiveConfig returns the loaded config, falling back to defaults
// when the load hook was skipped (as in command-level tests).
func effectiveConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	return cfgpkg.Load(cfgFile)
}
