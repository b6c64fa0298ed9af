package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hoopmatch/internal/domain"
)

// nearbyGamesResponse is the envelope the nearby query is delivered in
type nearbyGamesResponse struct {
	Success bool          `json:"success"`
	Data    []domain.Game `json:"data"`
}

// ListCourts returns every court. Courts are static; callers fetch them
// once per session and cache the result.
func (c *Client) ListCourts(ctx context.Context) ([]domain.Court, error) {
	var courts []domain.Court
	if err := c.call(ctx, http.MethodGet, "/courts", nil, nil, &courts); err != nil {
		return nil, err
	}
	return courts, nil
}

// ListCourtGames returns the games scheduled at one court
func (c *Client) ListCourtGames(ctx context.Context, courtID int64) ([]domain.Game, error) {
	var games []domain.Game
	path := fmt.Sprintf("/courts/%d/games", courtID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// NearbyGames returns the games within radiusKm of the given coordinate
func (c *Client) NearbyGames(ctx context.Context, loc domain.Location, radiusKm float64) ([]domain.Game, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	query.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))

	var resp nearbyGamesResponse
	if err := c.call(ctx, http.MethodGet, "/games/nearby", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateGame schedules a new game and returns the server's snapshot of it
func (c *Client) CreateGame(ctx context.Context, req domain.CreateGameRequest) (*domain.Game, error) {
	var game domain.Game
	if err := c.call(ctx, http.MethodPost, "/games", nil, req, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// GetGame returns one game by id
func (c *Client) GetGame(ctx context.Context, gameID int64) (*domain.Game, error) {
	var game domain.Game
	path := fmt.Sprintf("/games/%d", gameID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// JoinGame adds the user to a game's roster in the given role and returns
// the server's updated snapshot. Full-game and already-joined rejections
// arrive as *APIError with the server's message intact.
func (c *Client) JoinGame(ctx context.Context, gameID int64, req domain.JoinGameRequest) (*domain.Game, error) {
	var game domain.Game
	path := fmt.Sprintf("/games/%d/join", gameID)
	if err := c.call(ctx, http.MethodPost, path, nil, req, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// LeaveGame removes the user from a game's roster. Two terminal outcomes
// exist, distinguished by the response body rather than the status code
// alone: a payload means the game still has participants and the returned
// snapshot replaces the cached one; an empty body (delivered as 204 by some
// server configurations, or as a bodyless 200) means the game emptied out
// and was deleted server-side, reported here as a nil game.
func (c *Client) LeaveGame(ctx context.Context, gameID, userID int64) (*domain.Game, error) {
	query := url.Values{}
	query.Set("userId", strconv.FormatInt(userID, 10))

	path := fmt.Sprintf("/games/%d/leave", gameID)
	data, _, err := c.roundTrip(ctx, http.MethodDelete, path, query, nil, false)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var game domain.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("decoding leave response: %w", err)
	}
	return &game, nil
}

// DeleteGame removes a game entirely. Host-only; a non-host caller gets a
// 403 *APIError back.
func (c *Client) DeleteGame(ctx context.Context, gameID int64) error {
	path := fmt.Sprintf("/games/%d", gameID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

// OngoingGames returns the user's games still recruiting or fully recruited
func (c *Client) OngoingGames(ctx context.Context, userID int64) ([]domain.Game, error) {
	var games []domain.Game
	path := fmt.Sprintf("/users/%d/games/ongoing", userID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// PastGames returns the user's ended games
func (c *Client) PastGames(ctx context.Context, userID int64) ([]domain.Game, error) {
	var games []domain.Game
	path := fmt.Sprintf("/users/%d/games/past", userID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &games); err != nil {
		return nil, err
	}
	return games, nil
}
