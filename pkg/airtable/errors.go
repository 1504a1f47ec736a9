package airtable

import (
	"errors"
	"fmt"
)

// Kind classifies a record-store failure. Callers branch on the kind
// rather than parsing error strings.
type Kind string

const (
	// KindConfigMissing means the API key or base ID was absent; no
	// network call was made.
	KindConfigMissing Kind = "config_missing"
	// KindUnauthorized maps HTTP 401 (invalid credential).
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden maps HTTP 403 (credential lacks write scope or
	// base access).
	KindForbidden Kind = "forbidden"
	// KindNotFound maps HTTP 404. Table and base lookups are
	// case-sensitive on the Airtable side.
	KindNotFound Kind = "not_found"
	// KindRemote covers any other non-2xx response.
	KindRemote Kind = "remote"
	// KindTransport covers network-level failures (DNS, TLS,
	// connection refused, timeout). The raw transport error is never
	// exposed to callers.
	KindTransport Kind = "transport"
)

// Error is the single failure type returned by the client.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("airtable: %s: %s", e.Kind, e.Message)
}

// KindOf extracts the Kind from an error chain. Returns the empty
// string when err is nil or not an airtable *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
