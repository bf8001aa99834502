// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/multidash/internal/domain/model"
)

// PanelDependencies defines the interface for panel data proxied from the
// upstream dashboard APIs.
type PanelDependencies interface {
	ChessProfile(ctx context.Context, fideID string) (model.FideProfile, error)
	Financials(ctx context.Context, ticker string) (model.Financials, error)
	MarketCap(ctx context.Context, ticker string) (model.MarketCap, error)
	PriceHistory(ctx context.Context, ticker, rangeSpec string) (model.PriceHistory, error)
	News(ctx context.Context, ticker string) ([]model.NewsItem, error)
}

// defaultHistoryRange is used when GET /api/history omits ?range.
const defaultHistoryRange = "1y"

// historyRanges are the range specs the upstream history API understands.
var historyRanges = map[string]bool{
	"1m":  true,
	"3m":  true,
	"6m":  true,
	"1y":  true,
	"5y":  true,
	"max": true,
}

// PanelsHandler handles chess and investing panel requests.
type PanelsHandler struct {
	deps PanelDependencies
}

// NewPanelsHandler creates a new panels handler.
func NewPanelsHandler(deps PanelDependencies) *PanelsHandler {
	return &PanelsHandler{deps: deps}
}

// HandleGetChessProfile handles GET /api/chess/{fideID} requests.
func (h *PanelsHandler) HandleGetChessProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_chess_profile"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	fideID := pathParam(r, "/api/chess/")
	if fideID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	profile, err := h.deps.ChessProfile(r.Context(), fideID)
	if err != nil {
		h.writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleGetFinancials handles GET /api/financials/{ticker} requests.
func (h *PanelsHandler) HandleGetFinancials(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_financials"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ticker := pathParam(r, "/api/financials/")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	fin, err := h.deps.Financials(r.Context(), ticker)
	if err != nil {
		h.writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, fin)
}

// HandleGetMarketCap handles GET /api/marketcap/{ticker} requests.
func (h *PanelsHandler) HandleGetMarketCap(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_marketcap"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ticker := pathParam(r, "/api/marketcap/")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	mc, err := h.deps.MarketCap(r.Context(), ticker)
	if err != nil {
		h.writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, mc)
}

// HandleGetPriceHistory handles GET /api/history/{ticker}?range= requests.
func (h *PanelsHandler) HandleGetPriceHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_price_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ticker := pathParam(r, "/api/history/")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rangeSpec := r.URL.Query().Get("range")
	if rangeSpec == "" {
		rangeSpec = defaultHistoryRange
	}
	if !historyRanges[rangeSpec] {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	history, err := h.deps.PriceHistory(r.Context(), ticker, rangeSpec)
	if err != nil {
		h.writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// HandleGetNews handles GET /api/news/{ticker} requests.
func (h *PanelsHandler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_news"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ticker := pathParam(r, "/api/news/")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	items, err := h.deps.News(r.Context(), ticker)
	if err != nil {
		h.writeUpstreamError(w, op, err)
		return
	}
	if items == nil {
		items = []model.NewsItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// writeUpstreamError maps upstream failures: not-found translates to 404,
// everything else surfaces as 502 since the fault is on the remote side.
func (h *PanelsHandler) writeUpstreamError(w http.ResponseWriter, op string, err error) {
	if isNotFound(err) || strings.Contains(err.Error(), ": 404 ") {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeError(w, http.StatusBadGateway, "upstream_error", WrapKind(op, ErrUpstream, err))
}
