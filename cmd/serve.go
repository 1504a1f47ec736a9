package main

import (
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/trustgrid-labs/site-cli/internal/config"
	"github.com/trustgrid-labs/site-cli/internal/leads"
	"github.com/trustgrid-labs/site-cli/internal/server"
	"github.com/trustgrid-labs/site-cli/internal/tracker"
	"github.com/trustgrid-labs/site-cli/pkg/airtable"
	"github.com/trustgrid-labs/site-cli/pkg/ipinfo"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the site API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serverCfg := cfg.Server
		if servePort != 0 {
			serverCfg.Port = servePort
		}

		srv := server.New(ctx, serverCfg, newIntake(cfg), newReporter(cfg))
		if err := srv.ListenAndServe(ctx); err != nil {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func newRecordClient(cfg *config.Config) airtable.Client {
	return airtable.NewClient(
		airtable.Config{APIKey: cfg.Airtable.APIKey, BaseID: cfg.Airtable.BaseID},
		airtable.WithBaseURL(cfg.Airtable.BaseURL),
	)
}

func newIntake(cfg *config.Config) *leads.Intake {
	return leads.NewIntake(newRecordClient(cfg), cfg.Airtable.LeadsTable)
}

func newReporter(cfg *config.Config) *tracker.Reporter {
	ip := ipinfo.NewClient(
		ipinfo.WithBaseURL(cfg.IPLookup.BaseURL),
		ipinfo.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.IPLookup.TimeoutSecs) * time.Second,
		}),
	)
	return tracker.NewReporter(newRecordClient(cfg), ip,
		tracker.WithTable(cfg.Airtable.TrafficTable),
		tracker.InProduction(cfg.Server.IsProduction()),
	)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
