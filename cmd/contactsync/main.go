// Package main is the entry point for the contactsync service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-contacts-sync/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contactsync",
		Short: "NOMIS to DPS personal-relationships synchronisation service",
		Long:  `contactsync keeps the DPS personal-relationships dataset consistent with NOMIS: it applies per-entity change events, drives bulk migrations, and reconciles prisoner record merges and booking movements.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("contactsync version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}

// loadConfig loads configuration from a .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.AppConfig{}, fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return config.AppConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.AppConfig{}, err
	}
	return cfg, nil
}
