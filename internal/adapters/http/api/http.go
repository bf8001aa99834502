// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/multidash/internal/domain/dedupe"
	"github.com/okian/multidash/internal/domain/model"
	"github.com/okian/multidash/internal/domain/recent"
	"github.com/okian/multidash/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a quote update for async processing. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, u model.QuoteUpdate) bool

	// Read operations expose movers board data.
	TopN(ctx context.Context, n int) ([]Entry, error)
	BottomN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, ticker string) (Entry, error)

	// Panel proxies to the upstream dashboard APIs.
	ChessProfile(ctx context.Context, fideID string) (model.FideProfile, error)
	Financials(ctx context.Context, ticker string) (model.Financials, error)
	MarketCap(ctx context.Context, ticker string) (model.MarketCap, error)
	PriceHistory(ctx context.Context, ticker, rangeSpec string) (model.PriceHistory, error)
	News(ctx context.Context, ticker string) ([]model.NewsItem, error)

	// Recently viewed tickers, per user.
	RecentList(ctx context.Context, user string) ([]recent.View, error)
	RecentRecord(ctx context.Context, user, ticker string) error
}

// Entry mirrors the read shape returned by movers board queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	quotesHandler      *QuotesHandler
	moversHandler      *MoversHandler
	rankHandler        *RankHandler
	panelsHandler      *PanelsHandler
	performanceHandler *PerformanceHandler
	portfolioHandler   *PortfolioHandler
	searchHandler      *SearchHandler
	recentHandler      *RecentHandler
}

// NewServer creates a new API server with all handlers. maxMoversLimit caps
// GET /api/movers?limit; cagrMinimumDays is the CAGR holding-period floor.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxMoversLimit, cagrMinimumDays int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		quotesHandler:      NewQuotesHandler(deps),
		moversHandler:      NewMoversHandler(deps, maxMoversLimit),
		rankHandler:        NewRankHandler(deps),
		panelsHandler:      NewPanelsHandler(deps),
		performanceHandler: NewPerformanceHandler(cagrMinimumDays),
		portfolioHandler:   NewPortfolioHandler(),
		searchHandler:      NewSearchHandler(),
		recentHandler:      NewRecentHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/quotes", MetricsMiddleware(s.quotesHandler.HandlePostQuote, "quotes"))
	mux.HandleFunc("/api/movers", MetricsMiddleware(s.moversHandler.HandleGetMovers, "movers"))
	mux.HandleFunc("/api/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/api/chess/", MetricsMiddleware(s.panelsHandler.HandleGetChessProfile, "chess"))
	mux.HandleFunc("/api/financials/", MetricsMiddleware(s.panelsHandler.HandleGetFinancials, "financials"))
	mux.HandleFunc("/api/marketcap/", MetricsMiddleware(s.panelsHandler.HandleGetMarketCap, "marketcap"))
	mux.HandleFunc("/api/history/", MetricsMiddleware(s.panelsHandler.HandleGetPriceHistory, "history"))
	mux.HandleFunc("/api/news/", MetricsMiddleware(s.panelsHandler.HandleGetNews, "news"))
	mux.HandleFunc("/api/performance", MetricsMiddleware(s.performanceHandler.HandleGetPerformance, "performance"))
	mux.HandleFunc("/api/portfolio", MetricsMiddleware(s.portfolioHandler.HandlePostPortfolio, "portfolio"))
	mux.HandleFunc("/api/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
	mux.HandleFunc("/api/recent/", MetricsMiddleware(s.recentHandler.HandleRecent, "recent"))
}

// quoteRequest mirrors the OpenAPI schema for POST /api/quotes.
type quoteRequest struct {
	EventID   string  `json:"event_id"`
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	PrevClose float64 `json:"prev_close"`
	Source    string  `json:"source"`
	TS        string  `json:"ts"`
}

func (q quoteRequest) validate() error {
	switch {
	case strings.TrimSpace(q.EventID) == "":
		return errors.New("missing event_id")
	case strings.TrimSpace(q.Ticker) == "":
		return errors.New("missing ticker")
	case q.Price <= 0:
		return errors.New("price must be positive")
	case q.PrevClose <= 0:
		return errors.New("prev_close must be positive")
	case strings.TrimSpace(q.TS) == "":
		return errors.New("missing ts")
	}
	if _, err := time.Parse(time.RFC3339, q.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// pathParam extracts the single path segment after prefix, or "" when the
// path is missing or nested.
func pathParam(r *http.Request, prefix string) string {
	p := strings.TrimPrefix(r.URL.Path, prefix)
	if p == "" || strings.Contains(p, "/") {
		return ""
	}
	return p
}
