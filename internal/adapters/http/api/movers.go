// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// defaultMoversLimit applies when the limit query parameter is omitted.
const defaultMoversLimit = 10

// MoversDependencies defines the interface for movers board reads.
type MoversDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
	BottomN(ctx context.Context, n int) ([]Entry, error)
}

// MoversHandler handles movers board requests.
type MoversHandler struct {
	deps     MoversDependencies
	maxLimit int
}

// NewMoversHandler creates a new movers handler.
func NewMoversHandler(deps MoversDependencies, maxLimit int) *MoversHandler {
	return &MoversHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetMovers handles GET /api/movers?limit=N&direction=gainers|losers
// requests.
func (h *MoversHandler) HandleGetMovers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_movers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	n := defaultMoversLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = parsed
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	var (
		entries []Entry
		err     error
	)
	switch direction := r.URL.Query().Get("direction"); direction {
	case "", "gainers":
		entries, err = h.deps.TopN(r.Context(), n)
	case "losers":
		entries, err = h.deps.BottomN(r.Context(), n)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
