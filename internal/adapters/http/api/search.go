// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"

	"github.com/okian/multidash/internal/domain/tickers"
)

// maxSearchLimit caps GET /api/search?limit.
const maxSearchLimit = 50

// SearchHandler handles ticker search requests over the static catalog.
type SearchHandler struct{}

// NewSearchHandler creates a new search handler.
func NewSearchHandler() *SearchHandler {
	return &SearchHandler{}
}

// searchResponse wraps the result list with the echoed query.
type searchResponse struct {
	Query   string          `json:"query"`
	Results []tickers.Stock `json:"results"`
}

// HandleSearch handles GET /api/search?q=&limit= requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query().Get("q")
	limit := tickers.DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > maxSearchLimit {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = parsed
	}

	results := tickers.Search(query, limit)
	if results == nil {
		results = []tickers.Stock{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results})
}
