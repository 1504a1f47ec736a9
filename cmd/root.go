package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/trustgrid-labs/site-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "site-cli",
	Short: "TrustGrid marketing-site backend",
	Long:  "Serves the lead-capture and page-view tracking API behind the TrustGrid marketing site, plus operational helpers for smoke-testing the Airtable credentials.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; deployments set real environment variables.
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
