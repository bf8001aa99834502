package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/multidash/internal/adapters/http/api"
	"github.com/okian/multidash/internal/domain/model"
	"github.com/okian/multidash/internal/domain/performance"
	"github.com/okian/multidash/internal/domain/portfolio"
	"github.com/okian/multidash/internal/domain/recent"
	"github.com/okian/multidash/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps implements api.Dependencies for handler tests.
type mockDeps struct {
	seen     map[string]bool
	enqueue  bool
	enqueued []model.QuoteUpdate

	top     []types.Entry
	bottom  []types.Entry
	rank    types.Entry
	rankErr error

	profile    model.FideProfile
	profileErr error
	financials model.Financials
	marketCap  model.MarketCap
	history    model.PriceHistory
	news       []model.NewsItem
	panelErr   error

	recents   []recent.View
	recentErr error
	recordErr error
	recorded  []string
}

func newMockDeps() *mockDeps {
	return &mockDeps{seen: make(map[string]bool), enqueue: true}
}

func (m *mockDeps) SeenAndRecord(ctx context.Context, id string) bool {
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func (m *mockDeps) Unrecord(ctx context.Context, id string) {
	delete(m.seen, id)
}

func (m *mockDeps) Size() int64 { return int64(len(m.seen)) }

func (m *mockDeps) Enqueue(ctx context.Context, u model.QuoteUpdate) bool {
	if !m.enqueue {
		return false
	}
	m.enqueued = append(m.enqueued, u)
	return true
}

func (m *mockDeps) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if n > len(m.top) {
		return m.top, nil
	}
	return m.top[:n], nil
}

func (m *mockDeps) BottomN(ctx context.Context, n int) ([]types.Entry, error) {
	if n > len(m.bottom) {
		return m.bottom, nil
	}
	return m.bottom[:n], nil
}

func (m *mockDeps) Rank(ctx context.Context, ticker string) (types.Entry, error) {
	if m.rankErr != nil {
		return types.Entry{}, m.rankErr
	}
	return m.rank, nil
}

func (m *mockDeps) ChessProfile(ctx context.Context, fideID string) (model.FideProfile, error) {
	if m.profileErr != nil {
		return model.FideProfile{}, m.profileErr
	}
	return m.profile, nil
}

func (m *mockDeps) Financials(ctx context.Context, ticker string) (model.Financials, error) {
	if m.panelErr != nil {
		return model.Financials{}, m.panelErr
	}
	return m.financials, nil
}

func (m *mockDeps) MarketCap(ctx context.Context, ticker string) (model.MarketCap, error) {
	if m.panelErr != nil {
		return model.MarketCap{}, m.panelErr
	}
	return m.marketCap, nil
}

func (m *mockDeps) PriceHistory(ctx context.Context, ticker, rangeSpec string) (model.PriceHistory, error) {
	if m.panelErr != nil {
		return model.PriceHistory{}, m.panelErr
	}
	h := m.history
	h.Range = rangeSpec
	return h, nil
}

func (m *mockDeps) News(ctx context.Context, ticker string) ([]model.NewsItem, error) {
	if m.panelErr != nil {
		return nil, m.panelErr
	}
	return m.news, nil
}

func (m *mockDeps) RecentList(ctx context.Context, user string) ([]recent.View, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return m.recents, nil
}

func (m *mockDeps) RecentRecord(ctx context.Context, user, ticker string) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, user+":"+ticker)
	return nil
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"queue_size": 0, "movers_tracked": 3}
}

func newTestServer(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, mockStats{}, 100, 30)
	srv.Register(context.Background(), mux)
	return mux
}

func postJSON(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func quoteBody(eventID, ticker string) string {
	return fmt.Sprintf(`{"event_id":%q,"ticker":%q,"price":105.5,"prev_close":100.0,"ts":%q}`,
		eventID, ticker, time.Now().Format(time.RFC3339))
}

func TestQuotesEndpoint(t *testing.T) {
	Convey("Given the quotes endpoint", t, func() {
		deps := newMockDeps()
		mux := newTestServer(deps)

		Convey("When posting a valid quote update", func() {
			rec := postJSON(mux, "/api/quotes", quoteBody("q-1", "NVDA"))

			Convey("Then it should be accepted and enqueued", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(len(deps.enqueued), ShouldEqual, 1)
				So(deps.enqueued[0].Ticker, ShouldEqual, "NVDA")
				So(deps.enqueued[0].Source, ShouldEqual, "api")
			})
		})

		Convey("When posting the same event twice", func() {
			first := postJSON(mux, "/api/quotes", quoteBody("q-dup", "NVDA"))
			second := postJSON(mux, "/api/quotes", quoteBody("q-dup", "NVDA"))

			Convey("Then the second should be flagged duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusAccepted)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Body.String(), ShouldContainSubstring, "duplicate")
				So(len(deps.enqueued), ShouldEqual, 1)
			})
		})

		Convey("When posting invalid payloads", func() {
			cases := []string{
				`not json`,
				`{"ticker":"NVDA","price":105.5,"prev_close":100.0,"ts":"2025-01-02T10:00:00Z"}`, // missing event_id
				`{"event_id":"q-2","price":105.5,"prev_close":100.0,"ts":"2025-01-02T10:00:00Z"}`, // missing ticker
				`{"event_id":"q-3","ticker":"NVDA","price":-1,"prev_close":100.0,"ts":"2025-01-02T10:00:00Z"}`,
				`{"event_id":"q-4","ticker":"NVDA","price":105.5,"prev_close":0,"ts":"2025-01-02T10:00:00Z"}`,
				`{"event_id":"q-5","ticker":"NVDA","price":105.5,"prev_close":100.0,"ts":"yesterday"}`,
			}

			Convey("Then each should be rejected with 400", func() {
				for _, body := range cases {
					rec := postJSON(mux, "/api/quotes", body)
					So(rec.Code, ShouldEqual, http.StatusBadRequest)
				}
				So(len(deps.enqueued), ShouldEqual, 0)
			})
		})

		Convey("When the queue rejects the update", func() {
			deps.enqueue = false
			rec := postJSON(mux, "/api/quotes", quoteBody("q-bp", "NVDA"))

			Convey("Then it should respond 429 and roll back the dedupe record", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
				So(deps.seen["q-bp"], ShouldBeFalse)
			})
		})

		Convey("When using the wrong method", func() {
			rec := get(mux, "/api/quotes")

			Convey("Then it should respond 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestMoversEndpoint(t *testing.T) {
	Convey("Given the movers endpoint", t, func() {
		deps := newMockDeps()
		deps.top = []types.Entry{
			{Rank: 1, Ticker: "AMD", ChangePct: 6.1},
			{Rank: 2, Ticker: "NVDA", ChangePct: 4.8},
		}
		deps.bottom = []types.Entry{
			{Rank: 5, Ticker: "INTC", ChangePct: -3.4},
		}
		mux := newTestServer(deps)

		Convey("When requesting gainers", func() {
			rec := get(mux, "/api/movers?limit=2")

			Convey("Then it should return the top entries", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var entries []types.Entry
				So(json.Unmarshal(rec.Body.Bytes(), &entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
				So(entries[0].Ticker, ShouldEqual, "AMD")
			})
		})

		Convey("When requesting losers", func() {
			rec := get(mux, "/api/movers?limit=5&direction=losers")

			Convey("Then it should return the bottom entries", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var entries []types.Entry
				So(json.Unmarshal(rec.Body.Bytes(), &entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(entries[0].Ticker, ShouldEqual, "INTC")
			})
		})

		Convey("When omitting the limit", func() {
			rec := get(mux, "/api/movers")

			Convey("Then the default limit should apply", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When passing invalid parameters", func() {
			Convey("Then a bad limit should respond 400", func() {
				So(get(mux, "/api/movers?limit=abc").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/api/movers?limit=0").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/api/movers?limit=101").Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then a bad direction should respond 400", func() {
				So(get(mux, "/api/movers?limit=5&direction=sideways").Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestRankEndpoint(t *testing.T) {
	Convey("Given the rank endpoint", t, func() {
		deps := newMockDeps()
		deps.rank = types.Entry{Rank: 2, Ticker: "NVDA", ChangePct: 4.8}
		mux := newTestServer(deps)

		Convey("When requesting a tracked ticker", func() {
			rec := get(mux, "/api/rank/NVDA")

			Convey("Then it should return the entry", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var entry types.Entry
				So(json.Unmarshal(rec.Body.Bytes(), &entry), ShouldBeNil)
				So(entry.Rank, ShouldEqual, 2)
			})
		})

		Convey("When the ticker is not tracked", func() {
			deps.rankErr = errors.New("ticker not found")
			rec := get(mux, "/api/rank/UNKNOWN")

			Convey("Then it should respond 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the path parameter is missing", func() {
			rec := get(mux, "/api/rank/")

			Convey("Then it should respond 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestPanelEndpoints(t *testing.T) {
	Convey("Given the panel endpoints", t, func() {
		deps := newMockDeps()
		deps.profile = model.FideProfile{FideID: "1503014", Name: "Magnus Carlsen", Standard: 2830}
		deps.financials = model.Financials{Ticker: "AAPL", Currency: "USD"}
		deps.marketCap = model.MarketCap{Ticker: "AAPL", Value: 3.4e12, Currency: "USD"}
		deps.history = model.PriceHistory{Ticker: "AAPL", Points: []model.PricePoint{{Date: "2025-01-02", Close: 243.1}}}
		deps.news = []model.NewsItem{{Title: "Earnings beat", Source: "wire"}}
		mux := newTestServer(deps)

		Convey("When fetching a chess profile", func() {
			rec := get(mux, "/api/chess/1503014")

			Convey("Then it should return the profile", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "Magnus Carlsen")
			})
		})

		Convey("When fetching financials, market cap, and news", func() {
			Convey("Then each should return its payload", func() {
				So(get(mux, "/api/financials/AAPL").Code, ShouldEqual, http.StatusOK)
				So(get(mux, "/api/marketcap/AAPL").Code, ShouldEqual, http.StatusOK)
				So(get(mux, "/api/news/AAPL").Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When fetching price history", func() {
			rec := get(mux, "/api/history/AAPL")

			Convey("Then it should default the range to 1y", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"range":"1y"`)
			})
		})

		Convey("When fetching price history with an explicit range", func() {
			rec := get(mux, "/api/history/AAPL?range=5y")

			Convey("Then it should pass the range through", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"range":"5y"`)
			})
		})

		Convey("When fetching price history with an unknown range", func() {
			rec := get(mux, "/api/history/AAPL?range=2w")

			Convey("Then it should respond 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the upstream reports not found", func() {
			deps.panelErr = errors.New("unexpected upstream status: 404 from /api/investing/financials/NOPE")
			rec := get(mux, "/api/financials/NOPE")

			Convey("Then it should respond 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the upstream fails", func() {
			deps.panelErr = errors.New("request failed: connection refused")
			rec := get(mux, "/api/news/AAPL")

			Convey("Then it should respond 502", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
			})
		})

		Convey("When the path parameter is missing", func() {
			Convey("Then each should respond 400", func() {
				So(get(mux, "/api/chess/").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/api/financials/").Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestPerformanceEndpoint(t *testing.T) {
	Convey("Given the performance endpoint", t, func() {
		deps := newMockDeps()
		mux := newTestServer(deps)

		Convey("When computing a simple gain without dates", func() {
			rec := get(mux, "/api/performance?beginning=100&ending=120")

			Convey("Then it should return metrics with a successful simple return", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var m performance.Metrics
				So(json.Unmarshal(rec.Body.Bytes(), &m), ShouldBeNil)
				So(m.SimpleReturn.Success, ShouldBeTrue)
				So(m.SimpleReturn.Percentage, ShouldEqual, 20.0)
			})
		})

		Convey("When computing over a multi-year period", func() {
			rec := get(mux, "/api/performance?beginning=100&ending=200&start=2022-01-01&end=2025-01-01")

			Convey("Then CAGR should be populated", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var m performance.Metrics
				So(json.Unmarshal(rec.Body.Bytes(), &m), ShouldBeNil)
				So(m.CAGR.Success, ShouldBeTrue)
				So(m.Period.Valid, ShouldBeTrue)
			})
		})

		Convey("When a sub-year period is requested as a simple return", func() {
			rec := get(mux, "/api/performance?beginning=100&ending=110&start=2024-01-01&end=2024-07-01&mode=simple")

			Convey("Then the CAGR slot should carry the non-annualized figure", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var m performance.Metrics
				So(json.Unmarshal(rec.Body.Bytes(), &m), ShouldBeNil)
				So(m.CAGR.Success, ShouldBeTrue)
				So(m.CAGR.Percentage, ShouldEqual, 10.0)
			})
		})

		Convey("When the beginning value is not computable", func() {
			rec := get(mux, "/api/performance?beginning=0&ending=120")

			Convey("Then it should respond 422 with the failure inline", func() {
				So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
				var m performance.Metrics
				So(json.Unmarshal(rec.Body.Bytes(), &m), ShouldBeNil)
				So(m.SimpleReturn.Success, ShouldBeFalse)
				So(m.SimpleReturn.Err, ShouldNotBeEmpty)
			})
		})

		Convey("When query parameters are malformed", func() {
			Convey("Then it should respond 400", func() {
				So(get(mux, "/api/performance?beginning=abc&ending=120").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/api/performance?beginning=100").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/api/performance?beginning=100&ending=120&start=someday").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/api/performance?beginning=100&ending=120&mode=guess").Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestPortfolioEndpoint(t *testing.T) {
	Convey("Given the portfolio endpoint", t, func() {
		deps := newMockDeps()
		mux := newTestServer(deps)

		Convey("When submitting holdings", func() {
			body := `{"positions":[
				{"ticker":"AAPL","quantity":"10","cost_basis":"100","market_value":"150","acquired_at":"2023-01-02T00:00:00Z"},
				{"ticker":"MSFT","quantity":"5","cost_basis":"200","market_value":"210","acquired_at":"2024-06-01T00:00:00Z"}
			]}`
			rec := postJSON(mux, "/api/portfolio", body)

			Convey("Then it should return the aggregated valuation", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var v portfolio.Valuation
				So(json.Unmarshal(rec.Body.Bytes(), &v), ShouldBeNil)
				So(v.TotalCost.String(), ShouldEqual, "300")
				So(v.TotalValue.String(), ShouldEqual, "360")
				So(v.TotalReturn.Success, ShouldBeTrue)
				So(v.TotalReturn.Percentage, ShouldEqual, 20.0)
				So(len(v.Positions), ShouldEqual, 2)
				So(v.Positions[0].Ticker, ShouldEqual, "AAPL")
				So(v.Positions[0].SimpleReturn.Percentage, ShouldEqual, 50.0)
				So(v.Positions[0].Weight, ShouldAlmostEqual, 0.416667, 0.000001)
			})
		})

		Convey("When pinning the valuation date", func() {
			body := `{"positions":[
				{"ticker":"AAPL","quantity":"10","cost_basis":"100","market_value":"200","acquired_at":"2020-01-01T00:00:00Z"}
			],"as_of":"2025-01-01"}`
			rec := postJSON(mux, "/api/portfolio", body)

			Convey("Then CAGR should cover the pinned period", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var v portfolio.Valuation
				So(json.Unmarshal(rec.Body.Bytes(), &v), ShouldBeNil)
				So(v.Positions[0].CAGR.Success, ShouldBeTrue)
			})
		})

		Convey("When the request is invalid", func() {
			Convey("Then it should respond 400", func() {
				So(postJSON(mux, "/api/portfolio", `{"positions":[]}`).Code, ShouldEqual, http.StatusBadRequest)
				So(postJSON(mux, "/api/portfolio", `{not json`).Code, ShouldEqual, http.StatusBadRequest)
				So(postJSON(mux, "/api/portfolio", `{"positions":[{"ticker":"AAPL"}],"as_of":"someday"}`).Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When using the wrong method", func() {
			Convey("Then it should respond 404", func() {
				So(get(mux, "/api/portfolio").Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSearchEndpoint(t *testing.T) {
	Convey("Given the search endpoint", t, func() {
		deps := newMockDeps()
		mux := newTestServer(deps)

		Convey("When searching for a known symbol", func() {
			rec := get(mux, "/api/search?q=AAPL")

			Convey("Then the exact match should come first", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"AAPL"`)
			})
		})

		Convey("When searching with an empty query", func() {
			rec := get(mux, "/api/search")

			Convey("Then it should return an empty result set", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"results":[]`)
			})
		})

		Convey("When the limit is invalid", func() {
			Convey("Then it should respond 400", func() {
				So(get(mux, "/api/search?q=A&limit=0").Code, ShouldEqual, http.StatusBadRequest)
				So(get(mux, "/api/search?q=A&limit=999").Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestRecentEndpoint(t *testing.T) {
	Convey("Given the recent endpoint", t, func() {
		deps := newMockDeps()
		deps.recents = []recent.View{
			{Ticker: "NVDA", ViewedAt: time.Now()},
			{Ticker: "AAPL", ViewedAt: time.Now().Add(-time.Minute)},
		}
		mux := newTestServer(deps)

		Convey("When listing a user's recents", func() {
			rec := get(mux, "/api/recent/alice")

			Convey("Then it should return the views most recent first", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var views []recent.View
				So(json.Unmarshal(rec.Body.Bytes(), &views), ShouldBeNil)
				So(len(views), ShouldEqual, 2)
				So(views[0].Ticker, ShouldEqual, "NVDA")
			})
		})

		Convey("When recording a view", func() {
			rec := postJSON(mux, "/api/recent/alice", `{"ticker":"MSFT"}`)

			Convey("Then it should be accepted", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.recorded, ShouldContain, "alice:MSFT")
			})
		})

		Convey("When the body has no ticker", func() {
			rec := postJSON(mux, "/api/recent/alice", `{}`)

			Convey("Then it should respond 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the user segment is missing", func() {
			rec := get(mux, "/api/recent/")

			Convey("Then it should respond 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the tracker rejects the user", func() {
			deps.recentErr = recent.ErrNoUser
			rec := get(mux, "/api/recent/somebody")

			Convey("Then it should respond 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		deps := newMockDeps()
		mux := newTestServer(deps)

		Convey("When requesting stats", func() {
			rec := get(mux, "/stats")

			Convey("Then it should return the stats map", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var stats map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
				So(stats, ShouldContainKey, "movers_tracked")
			})
		})

		Convey("When using the wrong method", func() {
			rec := postJSON(mux, "/stats", `{}`)

			Convey("Then it should respond 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
