// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/okian/multidash/internal/domain/dedupe"
	"github.com/okian/multidash/internal/domain/model"
	"github.com/okian/multidash/pkg/metrics"
)

// QuoteDependencies defines the interface for quote ingest dependencies.
type QuoteDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, u model.QuoteUpdate) bool
}

// QuotesHandler handles quote-update ingest requests.
type QuotesHandler struct {
	deps QuoteDependencies
}

// NewQuotesHandler creates a new quotes handler.
func NewQuotesHandler(deps QuoteDependencies) *QuotesHandler {
	return &QuotesHandler{deps: deps}
}

// HandlePostQuote handles POST /api/quotes requests.
func (h *QuotesHandler) HandlePostQuote(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_quote"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordQuoteRejected()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		metrics.RecordQuoteRejected()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		metrics.RecordQuoteDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	ts, _ := time.Parse(time.RFC3339, req.TS) // validated above
	update := model.QuoteUpdate{
		EventID:   req.EventID,
		Ticker:    strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Price:     req.Price,
		PrevClose: req.PrevClose,
		Source:    req.Source,
		TS:        ts,
	}
	if update.Source == "" {
		update.Source = "api"
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), update); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
