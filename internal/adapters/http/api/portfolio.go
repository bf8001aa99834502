// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/multidash/internal/domain/portfolio"
)

// PortfolioHandler aggregates submitted holdings into the investing
// panel's portfolio view.
type PortfolioHandler struct{}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler() *PortfolioHandler {
	return &PortfolioHandler{}
}

// portfolioRequest is the POST /api/portfolio body.
type portfolioRequest struct {
	Positions []portfolio.Position `json:"positions"`
	AsOf      string               `json:"as_of"` // optional, RFC3339 or YYYY-MM-DD
}

// HandlePostPortfolio handles POST /api/portfolio requests. The body
// carries raw positions; the response is the aggregated valuation with
// per-position weights and return metrics.
func (h *PortfolioHandler) HandlePostPortfolio(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_portfolio"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req portfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Positions) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("positions required")))
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != "" {
		t, err := parseDate(req.AsOf)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		asOf = t
	}

	writeJSON(w, http.StatusOK, portfolio.Aggregate(req.Positions, asOf))
}
