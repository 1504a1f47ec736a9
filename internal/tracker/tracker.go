// Package tracker reports best-effort page-view records to the traffic
// table. A failed report is logged and swallowed; it never interrupts
// the navigation that triggered it.
package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/trustgrid-labs/site-cli/internal/device"
	"github.com/trustgrid-labs/site-cli/internal/identity"
	"github.com/trustgrid-labs/site-cli/pkg/airtable"
	"github.com/trustgrid-labs/site-cli/pkg/ipinfo"
)

// DefaultTable is the traffic table name when none is configured.
const DefaultTable = "Traffic Analysis"

// Sentinels reported when a value cannot be determined.
const (
	ReferrerDirect = "Direct"
	IPUnknown      = "Unknown"
)

// PageView carries the navigation metadata gathered at the trigger.
type PageView struct {
	URL       string `json:"url"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"user_agent"`
	Screen    string `json:"screen"` // "WxH"
	// ClientIP is the request-derived visitor address when the caller
	// already knows it; empty means fall back to the lookup client.
	ClientIP string `json:"-"`
}

// Notifier surfaces a non-blocking diagnostic. Only called outside
// production.
type Notifier func(msg string)

// Option configures the reporter.
type Option func(*Reporter)

// WithTable overrides the traffic table name.
func WithTable(table string) Option {
	return func(r *Reporter) {
		if table != "" {
			r.table = table
		}
	}
}

// WithNotifier installs a diagnostic hook for non-production builds.
func WithNotifier(n Notifier) Option {
	return func(r *Reporter) {
		r.notify = n
	}
}

// InProduction suppresses the diagnostic notifier.
func InProduction(prod bool) Option {
	return func(r *Reporter) {
		r.production = prod
	}
}

// WithClock overrides the timestamp source (for testing).
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// Reporter assembles and submits page-view records.
type Reporter struct {
	client     airtable.Client
	ip         ipinfo.Client
	table      string
	production bool
	notify     Notifier
	now        func() time.Time
}

// NewReporter creates a Reporter writing to the traffic table.
func NewReporter(client airtable.Client, ip ipinfo.Client, opts ...Option) *Reporter {
	r := &Reporter{
		client: client,
		ip:     ip,
		table:  DefaultTable,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report derives the visitor identity from the given stores, then
// assembles and submits one page-view record. The returned error is
// informational; the reporter has already logged it and callers are
// free to discard it.
func (r *Reporter) Report(ctx context.Context, pv PageView, durable, session identity.Store) error {
	return r.ReportIdentified(ctx, pv, identity.Derive(durable, session))
}

// ReportIdentified submits one page-view record for an already-derived
// identity. The server derives identity synchronously while the
// response (and its cookies) is still open, then calls this from a
// goroutine. Each navigation gets its own record: no debouncing, no
// coalescing, no ordering guarantee between in-flight reports.
func (r *Reporter) ReportIdentified(ctx context.Context, pv PageView, id identity.Identity) error {
	referrer := pv.Referrer
	if referrer == "" {
		referrer = ReferrerDirect
	}

	fields := map[string]any{
		"Visitor ID":        id.VisitorID,
		"Page URL":          pv.URL,
		"Page Path":         pv.Path,
		"Page Title":        pv.Title,
		"Referrer":          referrer,
		"IP Address":        r.resolveIP(ctx, pv.ClientIP),
		"Timestamp":         r.now().UTC().Format(time.RFC3339),
		"Session ID":        id.SessionID,
		"Is Repeat Visitor": id.Repeat,
		"User Agent":        pv.UserAgent,
		"Screen":            pv.Screen,
		"Device Type":       string(device.Classify(pv.UserAgent)),
	}

	if _, err := r.client.CreateRecord(ctx, r.table, fields); err != nil {
		zap.L().Warn("page view tracking failed",
			zap.String("path", pv.Path),
			zap.String("kind", string(airtable.KindOf(err))),
			zap.Error(err))
		if !r.production && r.notify != nil {
			r.notify("traffic tracking error: " + err.Error())
		}
		return err
	}

	zap.L().Debug("page view tracked",
		zap.String("path", pv.Path),
		zap.Bool("repeat", id.Repeat))
	return nil
}

// resolveIP never fails the report: any lookup problem becomes the
// Unknown sentinel.
func (r *Reporter) resolveIP(ctx context.Context, clientIP string) string {
	if clientIP != "" {
		return clientIP
	}
	if r.ip == nil {
		return IPUnknown
	}
	ip, err := r.ip.Lookup(ctx)
	if err != nil {
		zap.L().Debug("ip lookup failed", zap.Error(err))
		return IPUnknown
	}
	return ip
}
