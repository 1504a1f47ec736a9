package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trustgrid-labs/site-cli/internal/identity"
	"github.com/trustgrid-labs/site-cli/internal/leads"
	"github.com/trustgrid-labs/site-cli/internal/tracker"
	"github.com/trustgrid-labs/site-cli/pkg/airtable"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLead validates and forwards one lead submission. Failures are
// surfaced with their message so the frontend can show them and keep
// the entered form state; the frontend only clears the form on "ok".
func (s *Server) handleLead(w http.ResponseWriter, r *http.Request) {
	var sub leads.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error", "kind": "validation", "message": "invalid request body",
		})
		return
	}

	if _, err := s.intake.Submit(r.Context(), sub); err != nil {
		var verr *leads.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"status": "error", "kind": "validation",
				"field": verr.Field, "message": verr.Message,
			})
			return
		}

		kind := airtable.KindOf(err)
		msg := "something went wrong, please try again"
		var ae *airtable.Error
		if errors.As(err, &ae) && ae.Message != "" {
			msg = ae.Message
		}
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"status": "error", "kind": string(kind), "message": msg,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Thanks for reaching out. We'll be in touch shortly.",
	})
}

// handleTrack accepts one page-view event per navigation. Identity is
// derived synchronously so the visitor/session cookies ride out on
// this response; the Airtable write happens after the 202, best
// effort, on the server's lifetime context.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var pv tracker.PageView
	if err := json.NewDecoder(r.Body).Decode(&pv); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if pv.UserAgent == "" {
		pv.UserAgent = r.UserAgent()
	}
	if pv.Referrer == "" {
		pv.Referrer = r.Referer()
	}
	pv.ClientIP = clientIP(r)

	id := identity.Derive(
		identity.NewDurableCookieStore(w, r),
		identity.NewSessionCookieStore(w, r),
	)

	go func() {
		ctx, cancel := context.WithTimeout(s.baseCtx, reportTimeout)
		defer cancel()
		// Failures are logged inside the reporter; tracking never
		// surfaces to the visitor.
		_ = s.reporter.ReportIdentified(ctx, pv, id)
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"repeat": id.Repeat,
	})
}
