// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/multidash/internal/domain/performance"
)

// PerformanceHandler computes return metrics server-side for the
// performance panel.
type PerformanceHandler struct {
	minimumDays int
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(minimumDays int) *PerformanceHandler {
	return &PerformanceHandler{minimumDays: minimumDays}
}

// HandleGetPerformance handles
// GET /api/performance?beginning=&ending=&start=&end=&mode= requests.
// beginning and ending are required values; start and end are optional
// dates (RFC3339 or YYYY-MM-DD) enabling the CAGR and period figures.
func (h *PerformanceHandler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_performance"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	beginning, err := strconv.ParseFloat(q.Get("beginning"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ending, err := strconv.ParseFloat(q.Get("ending"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	var start, end time.Time
	if s := q.Get("start"); s != "" {
		if start, err = parseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}
	if e := q.Get("end"); e != "" {
		if end, err = parseDate(e); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}

	opts := []performance.Option{
		performance.WithMinimumDays(float64(h.minimumDays)),
	}
	switch q.Get("mode") {
	case "", "extrapolate":
		opts = append(opts, performance.WithShortPeriodMode(performance.ModeExtrapolate))
	case "simple":
		opts = append(opts, performance.WithShortPeriodMode(performance.ModeSimple))
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	metrics := performance.CalculateMetrics(beginning, ending, start, end, opts...)

	// A failed simple return means the inputs themselves were not
	// computable; CAGR and period failures stay inline in the payload so
	// the panel can render partial results.
	if !metrics.SimpleReturn.Success {
		writeJSON(w, http.StatusUnprocessableEntity, metrics)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// parseDate accepts RFC3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
