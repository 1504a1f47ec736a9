package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceInterestLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Automated Due Diligence", ServiceInterestLabel("due_diligence"))
	assert.Equal(t, "Contract Review", ServiceInterestLabel("contract_review"))
	assert.Equal(t, "AI Governance", ServiceInterestLabel("ai_governance"))
	// Forward-compatible: unknown keys pass through verbatim.
	assert.Equal(t, "xyz", ServiceInterestLabel("xyz"))
	assert.Equal(t, "", ServiceInterestLabel(""))
}

func TestReferralSourceLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Search Engine", ReferralSourceLabel("search_engine"))
	assert.Equal(t, "Event / Conference", ReferralSourceLabel("event"))
	assert.Equal(t, "word_of_mouth", ReferralSourceLabel("word_of_mouth"))
}

func TestEmbeddedLabelsParsed(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, labels.ServiceInterest)
	assert.NotEmpty(t, labels.ReferralSource)
}
