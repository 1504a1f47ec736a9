// Package leads implements the lead-capture submission flow: local
// validation, category label mapping, and the write to the lead-intake
// table.
package leads

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/trustgrid-labs/site-cli/pkg/airtable"
)

// DefaultTable is the lead-intake table name when none is configured.
const DefaultTable = "Leads"

// Submission is the lead form payload as the frontend posts it.
type Submission struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Company         string `json:"company"`
	Designation     string `json:"designation"`
	ContactNumber   string `json:"contact_number"`
	Location        string `json:"location"`
	ServiceInterest string `json:"service_interest"`
	ReferralSource  string `json:"referral_source"`
	Message         string `json:"message"`
	Agreed          bool   `json:"agreed"`
}

// ValidationError is a local rejection; no network call was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("leads: %s: %s", e.Field, e.Message)
}

// Validate checks the required fields and the consent flag. The first
// problem found is returned.
func (s Submission) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"full_name", s.FullName},
		{"email", s.Email},
		{"company", s.Company},
		{"designation", s.Designation},
		{"contact_number", s.ContactNumber},
		{"location", s.Location},
		{"service_interest", s.ServiceInterest},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}
	if !s.Agreed {
		return &ValidationError{Field: "agreed", Message: "consent is required before we can contact you"}
	}
	return nil
}

// Fields builds the Airtable field map. Category keys become display
// labels; the Status column always starts at "New" so the sales view
// picks the lead up.
func (s Submission) Fields() map[string]any {
	fields := map[string]any{
		"Full Name":        s.FullName,
		"Email":            s.Email,
		"Company":          s.Company,
		"Designation":      s.Designation,
		"Contact Number":   s.ContactNumber,
		"Location":         s.Location,
		"Service Interest": ServiceInterestLabel(s.ServiceInterest),
		"Status":           "New",
	}
	if s.ReferralSource != "" {
		fields["Referral Source"] = ReferralSourceLabel(s.ReferralSource)
	}
	if s.Message != "" {
		fields["Message"] = s.Message
	}
	return fields
}

// Intake submits validated leads to the record store.
type Intake struct {
	client airtable.Client
	table  string
}

// NewIntake creates an Intake writing to the given table (DefaultTable
// when empty).
func NewIntake(client airtable.Client, table string) *Intake {
	if table == "" {
		table = DefaultTable
	}
	return &Intake{client: client, table: table}
}

// Submit validates and transmits one lead. A *ValidationError means
// nothing was sent; an *airtable.Error means the remote write failed
// and the caller should surface its message and keep the form state.
// There is no automatic retry: resubmission is the user's choice.
func (i *Intake) Submit(ctx context.Context, s Submission) (*airtable.CreateResponse, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	resp, err := i.client.CreateRecord(ctx, i.table, s.Fields())
	if err != nil {
		return nil, err
	}

	zap.L().Info("lead submitted",
		zap.String("table", i.table),
		zap.String("company", s.Company))
	return resp, nil
}
