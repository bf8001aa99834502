// Package tickers provides search over the static instrument catalog that
// backs the dashboard's ticker picker.
package tickers

import (
	"sort"
	"strings"
)

// Stock is one searchable catalog row.
type Stock struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Exchange   string  `json:"exchange"`
	Popularity float64 `json:"popularity_score"` // 0.0 to 1.0, used for ranking
}

// DefaultLimit caps result counts when the caller passes none.
const DefaultLimit = 10

// Search returns catalog entries matching query, best first. Matching is
// case-insensitive: exact symbol, then symbol prefix, then name substring,
// with popularity ordering entries within each band. An empty query
// matches nothing.
func Search(query string, limit int) []Stock {
	return searchIn(catalog, query, limit)
}

// match bands, lower ranks earlier.
const (
	bandSymbolExact = iota
	bandSymbolPrefix
	bandSymbolSubstring
	bandNameSubstring
)

type scored struct {
	stock Stock
	band  int
}

func searchIn(stocks []Stock, query string, limit int) []Stock {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	matches := make([]scored, 0, limit)
	for _, s := range stocks {
		sym := strings.ToLower(s.Symbol)
		switch {
		case sym == q:
			matches = append(matches, scored{stock: s, band: bandSymbolExact})
		case strings.HasPrefix(sym, q):
			matches = append(matches, scored{stock: s, band: bandSymbolPrefix})
		case strings.Contains(sym, q):
			matches = append(matches, scored{stock: s, band: bandSymbolSubstring})
		case strings.Contains(strings.ToLower(s.Name), q):
			matches = append(matches, scored{stock: s, band: bandNameSubstring})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].band != matches[j].band {
			return matches[i].band < matches[j].band
		}
		if matches[i].stock.Popularity != matches[j].stock.Popularity {
			return matches[i].stock.Popularity > matches[j].stock.Popularity
		}
		return matches[i].stock.Symbol < matches[j].stock.Symbol
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Stock, len(matches))
	for i, m := range matches {
		out[i] = m.stock
	}
	return out
}

// Lookup returns the catalog entry for an exact symbol, if present.
func Lookup(symbol string) (Stock, bool) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	for _, s := range catalog {
		if s.Symbol == sym {
			return s, true
		}
	}
	return Stock{}, false
}

// Count returns the catalog size.
func Count() int {
	return len(catalog)
}
