// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/multidash/internal/domain/recent"
)

// RecentDependencies defines the interface for recently-viewed operations.
type RecentDependencies interface {
	RecentList(ctx context.Context, user string) ([]recent.View, error)
	RecentRecord(ctx context.Context, user, ticker string) error
}

// RecentHandler handles recently-viewed ticker requests.
type RecentHandler struct {
	deps RecentDependencies
}

// NewRecentHandler creates a new recent handler.
func NewRecentHandler(deps RecentDependencies) *RecentHandler {
	return &RecentHandler{deps: deps}
}

// recentRecordRequest mirrors the POST /api/recent/{user} body.
type recentRecordRequest struct {
	Ticker string `json:"ticker"`
}

// HandleRecent handles GET and POST /api/recent/{user} requests.
func (h *RecentHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	user := pathParam(r, "/api/recent/")
	if user == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, user)
	case http.MethodPost:
		h.handleRecord(w, r, user)
	default:
		http.NotFound(w, r)
	}
}

func (h *RecentHandler) handleList(w http.ResponseWriter, r *http.Request, user string) {
	const op = "api.get_recent"
	views, err := h.deps.RecentList(r.Context(), user)
	if err != nil {
		if errors.Is(err, recent.ErrNoUser) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if views == nil {
		views = []recent.View{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *RecentHandler) handleRecord(w http.ResponseWriter, r *http.Request, user string) {
	const op = "api.post_recent"
	var req recentRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	if err := h.deps.RecentRecord(r.Context(), user, req.Ticker); err != nil {
		if errors.Is(err, recent.ErrNoUser) || errors.Is(err, recent.ErrNoTicker) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "recorded"})
}
