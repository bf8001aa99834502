package remote

import (
	"context"
	"fmt"
	"net/url"

	"github.com/okian/multidash/internal/domain/model"
)

// ChessInsight fetches chess panel payloads from the chess-insight API.
type ChessInsight struct {
	client *Client
}

// NewChessInsight creates a chess-insight client for the given base URL.
func NewChessInsight(baseURL string, opts ...ClientOption) *ChessInsight {
	return &ChessInsight{
		client: NewClient(baseURL, "chess_insight", opts...),
	}
}

// Profile fetches the published profile and rating history for a player.
func (c *ChessInsight) Profile(ctx context.Context, fideID string) (model.FideProfile, error) {
	var profile model.FideProfile
	path := "/api/chess-insight/player/" + url.PathEscape(fideID)
	if err := c.client.getJSON(ctx, path, nil, &profile); err != nil {
		return model.FideProfile{}, fmt.Errorf("failed to fetch player %s: %w", fideID, err)
	}
	return profile, nil
}
