package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "samovar",
	Short: "Samovar - cafe order lifecycle service",
	Long: `Samovar runs the order lifecycle backend for the cafe storefront:
checkout, manual order status management, the daily auto-transition and
cleanup sweeps, and the admin notification stream.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a yaml config file (defaults to environment variables)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
