package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustgrid-labs/site-cli/internal/identity"
	"github.com/trustgrid-labs/site-cli/internal/tracker"
)

var trackPV = tracker.PageView{
	URL:       "https://trustgrid.com/",
	Path:      "/",
	Title:     "site-cli smoke test",
	UserAgent: "site-cli/track",
	Screen:    "0x0",
}

// track sends one synthetic page view through the real reporting path.
// Handy after rotating the API key: a failed write prints the failure
// kind instead of silently disappearing into the analytics table.
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Send one synthetic page view to the traffic table",
	RunE: func(cmd *cobra.Command, args []string) error {
		reporter := newReporter(cfg)

		err := reporter.Report(cmd.Context(), trackPV, identity.MapStore{}, identity.MapStore{})
		if err != nil {
			return fmt.Errorf("page view rejected: %w", err)
		}

		fmt.Println("page view recorded")
		return nil
	},
}

func init() {
	f := trackCmd.Flags()
	f.StringVar(&trackPV.URL, "url", trackPV.URL, "page URL")
	f.StringVar(&trackPV.Path, "path", trackPV.Path, "page path")
	f.StringVar(&trackPV.Title, "title", trackPV.Title, "page title")
	rootCmd.AddCommand(trackCmd)
}
