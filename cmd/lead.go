package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trustgrid-labs/site-cli/internal/leads"
	"github.com/trustgrid-labs/site-cli/pkg/airtable"
)

var leadFlags leads.Submission

// lead submit pushes one lead through the real intake path. Used to
// verify credentials and the remote column setup after schema changes.
var leadCmd = &cobra.Command{
	Use:   "lead",
	Short: "Lead-intake operations",
}

var leadSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a single lead to the intake table",
	RunE: func(cmd *cobra.Command, args []string) error {
		intake := newIntake(cfg)

		resp, err := intake.Submit(cmd.Context(), leadFlags)
		if err != nil {
			var verr *leads.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("validation failed: %s %s", verr.Field, verr.Message)
			}
			var aerr *airtable.Error
			if errors.As(err, &aerr) {
				return fmt.Errorf("submission failed (%s): %s", aerr.Kind, aerr.Message)
			}
			return err
		}

		for _, rec := range resp.Records {
			fmt.Printf("created %s\n", rec.ID)
		}
		return nil
	},
}

func init() {
	f := leadSubmitCmd.Flags()
	f.StringVar(&leadFlags.FullName, "name", "", "full name (required)")
	f.StringVar(&leadFlags.Email, "email", "", "email address (required)")
	f.StringVar(&leadFlags.Company, "company", "", "company (required)")
	f.StringVar(&leadFlags.Designation, "designation", "", "job title (required)")
	f.StringVar(&leadFlags.ContactNumber, "phone", "", "contact number (required)")
	f.StringVar(&leadFlags.Location, "location", "", "location (required)")
	f.StringVar(&leadFlags.ServiceInterest, "service", "", "service interest key, e.g. contract_review (required)")
	f.StringVar(&leadFlags.ReferralSource, "source", "", "referral source key")
	f.StringVar(&leadFlags.Message, "message", "", "free-text message")
	f.BoolVar(&leadFlags.Agreed, "agreed", false, "consent to be contacted (required)")

	leadCmd.AddCommand(leadSubmitCmd)
	rootCmd.AddCommand(leadCmd)
}
