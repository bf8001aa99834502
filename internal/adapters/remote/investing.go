package remote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/okian/multidash/internal/domain/model"
)

// Investing fetches investing panel payloads from the investing API.
type Investing struct {
	client *Client
}

// NewInvesting creates an investing client for the given base URL.
func NewInvesting(baseURL string, opts ...ClientOption) *Investing {
	return &Investing{
		client: NewClient(baseURL, "investing", opts...),
	}
}

// Financials fetches the fundamentals payload for a ticker.
func (c *Investing) Financials(ctx context.Context, ticker string) (model.Financials, error) {
	var fin model.Financials
	path := "/api/investing/financials/" + url.PathEscape(ticker)
	if err := c.client.getJSON(ctx, path, nil, &fin); err != nil {
		return model.Financials{}, fmt.Errorf("failed to fetch financials for %s: %w", ticker, err)
	}
	return fin, nil
}

// MarketCap fetches the current market capitalization for a ticker.
func (c *Investing) MarketCap(ctx context.Context, ticker string) (model.MarketCap, error) {
	var mc model.MarketCap
	path := "/api/investing/marketcap/" + url.PathEscape(ticker)
	if err := c.client.getJSON(ctx, path, nil, &mc); err != nil {
		return model.MarketCap{}, fmt.Errorf("failed to fetch market cap for %s: %w", ticker, err)
	}
	return mc, nil
}

// PriceHistory fetches the chart-ready close series for a ticker.
// rangeSpec is the upstream range selector, e.g. "1y"; empty means the
// upstream default.
func (c *Investing) PriceHistory(ctx context.Context, ticker, rangeSpec string) (model.PriceHistory, error) {
	var hist model.PriceHistory
	path := "/api/investing/history/" + url.PathEscape(ticker)
	var query url.Values
	if rangeSpec != "" {
		query = url.Values{"range": {rangeSpec}}
	}
	if err := c.client.getJSON(ctx, path, query, &hist); err != nil {
		return model.PriceHistory{}, fmt.Errorf("failed to fetch price history for %s: %w", ticker, err)
	}
	return hist, nil
}

// News fetches aggregated headlines for a ticker.
func (c *Investing) News(ctx context.Context, ticker string) ([]model.NewsItem, error) {
	var items []model.NewsItem
	path := "/api/investing/news/" + url.PathEscape(ticker)
	if err := c.client.getJSON(ctx, path, nil, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch news for %s: %w", ticker, err)
	}
	return items, nil
}

// Quote fetches the latest quote for a ticker.
func (c *Investing) Quote(ctx context.Context, ticker string) (model.Quote, error) {
	var quote model.Quote
	path := "/api/investing/quote/" + url.PathEscape(ticker)
	if err := c.client.getJSON(ctx, path, nil, &quote); err != nil {
		return model.Quote{}, fmt.Errorf("failed to fetch quote for %s: %w", ticker, err)
	}
	return quote, nil
}
