// Package device classifies a user-agent string into a coarse device
// class for analytics.
package device

import "regexp"

// Class is the coarse device bucket reported with each page view.
type Class string

const (
	Tablet  Class = "Tablet"
	Mobile  Class = "Mobile"
	Desktop Class = "Desktop"
)

var (
	tabletRe = regexp.MustCompile(`(?i)tablet|ipad|playbook|silk`)
	// Android without a "mobi" marker is a tablet. RE2 has no negative
	// lookahead, so the exclusion is a second match.
	androidRe     = regexp.MustCompile(`(?i)android`)
	androidMobiRe = regexp.MustCompile(`(?i)android.*mobi`)
	// Phone patterns are deliberately case-sensitive, matching the long
	// tail of UA tokens as they actually appear on the wire.
	mobileRe = regexp.MustCompile(`Mobile|Android|iP(hone|od)|IEMobile|BlackBerry|Kindle|Silk-Accelerated|(hpw|web)OS|Opera M(obi|ini)`)
)

// Classify maps a raw user-agent string to a device class. Tablet
// patterns win over mobile patterns; anything unrecognized is Desktop.
func Classify(ua string) Class {
	if tabletRe.MatchString(ua) || (androidRe.MatchString(ua) && !androidMobiRe.MatchString(ua)) {
		return Tablet
	}
	if mobileRe.MatchString(ua) {
		return Mobile
	}
	return Desktop
}
