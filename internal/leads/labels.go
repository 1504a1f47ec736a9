package leads

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// The category label maps ship with the binary. Keys the frontend sends
// that are missing here pass through verbatim, so new categories can be
// added on the Airtable side without a client release.

//go:embed labels.yaml
var labelsYAML []byte

type labelMaps struct {
	ServiceInterest map[string]string `yaml:"service_interest"`
	ReferralSource  map[string]string `yaml:"referral_source"`
}

var labels = mustLoadLabels()

func mustLoadLabels() labelMaps {
	var m labelMaps
	if err := yaml.Unmarshal(labelsYAML, &m); err != nil {
		panic(fmt.Sprintf("leads: parse embedded labels.yaml: %v", err))
	}
	return m
}

// ServiceInterestLabel maps an internal service-interest key to its
// display label. Unknown keys are returned unchanged.
func ServiceInterestLabel(key string) string {
	if label, ok := labels.ServiceInterest[key]; ok {
		return label
	}
	return key
}

// ReferralSourceLabel maps an internal referral-source key to its
// display label. Unknown keys are returned unchanged.
func ReferralSourceLabel(key string) string {
	if label, ok := labels.ReferralSource[key]; ok {
		return label
	}
	return key
}
