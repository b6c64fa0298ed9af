// Package game orchestrates the game lifecycle: fetching nearby and
// per-court games, creating, joining, leaving and deleting them, and keeping
// the local caches reconciled with the server's authoritative snapshots.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoopmatch/internal/api"
	"github.com/hoopmatch/internal/cache"
	"github.com/hoopmatch/internal/domain"
	"github.com/hoopmatch/internal/session"
	"github.com/hoopmatch/internal/timefmt"
)

// Controller drives game mutations and reconciles the entity caches with
// server responses. Roster counts and status are never computed locally;
// every mutation adopts the server's returned snapshot wholesale.
type Controller struct {
	api       *api.Client
	session   *session.Store
	games     *cache.Store[domain.Game]
	courts    *cache.Store[domain.Court]
	radiusKm  float64
	inputZone *time.Location
	logger    *slog.Logger
	onRemoved []func(gameID int64)
}

// NewController creates a lifecycle controller. inputZone is the wall-clock
// timezone used to interpret the user's date and time inputs; pass
// time.Local outside of tests.
func NewController(
	apiClient *api.Client,
	sess *session.Store,
	games *cache.Store[domain.Game],
	courts *cache.Store[domain.Court],
	radiusKm float64,
	inputZone *time.Location,
	logger *slog.Logger,
) *Controller {
	if inputZone == nil {
		inputZone = time.Local
	}
	return &Controller{
		api:       apiClient,
		session:   sess,
		games:     games,
		courts:    courts,
		radiusKm:  radiusKm,
		inputZone: inputZone,
		logger:    logger,
	}
}

// OnGameRemoved registers a callback invoked whenever a game disappears
// (deleted by its host, or emptied out by the last leaver). Dependent views
// such as an open detail modal use it to close themselves.
func (c *Controller) OnGameRemoved(fn func(gameID int64)) {
	c.onRemoved = append(c.onRemoved, fn)
}

func (c *Controller) notifyRemoved(gameID int64) {
	for _, fn := range c.onRemoved {
		fn(gameID)
	}
}

// FetchNearby returns the games within the configured radius of loc and
// replaces the game cache wholesale. Last fetch wins.
func (c *Controller) FetchNearby(ctx context.Context, loc domain.Location) ([]domain.Game, error) {
	games, err := c.api.NearbyGames(ctx, loc, c.radiusKm)
	if err != nil {
		return nil, fmt.Errorf("fetching nearby games: %w", err)
	}

	c.games.ReplaceAll(games)
	c.logger.Info("nearby games refreshed",
		"count", len(games),
		"lat", loc.Latitude,
		"lng", loc.Longitude,
	)
	return games, nil
}

// FetchCourts returns every court and replaces the court cache wholesale
func (c *Controller) FetchCourts(ctx context.Context) ([]domain.Court, error) {
	courts, err := c.api.ListCourts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching courts: %w", err)
	}

	c.courts.ReplaceAll(courts)
	return courts, nil
}

// FetchCourtGames returns the games scheduled at one court. The list is a
// view in its own right and does not disturb the nearby cache; individual
// snapshots still flow into the cache through mutations.
func (c *Controller) FetchCourtGames(ctx context.Context, courtID int64) ([]domain.Game, error) {
	games, err := c.api.ListCourtGames(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("fetching games for court %d: %w", courtID, err)
	}
	return games, nil
}

// FetchGame refreshes one game from the server and patches it into the
// cache by id.
func (c *Controller) FetchGame(ctx context.Context, gameID int64) (*domain.Game, error) {
	g, err := c.api.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching game %d: %w", gameID, err)
	}

	c.games.Put(*g)
	return g, nil
}

// CreateInput is the user's raw input for scheduling a game. Date and Clock
// are wall-clock values in the controller's input timezone.
type CreateInput struct {
	CourtID    int64
	MaxPlayers int
	Date       string // 2006-01-02
	Clock      string // 15:04
}

// Create validates the input locally, converts the wall-clock schedule to
// an absolute instant, and schedules the game. The returned snapshot is
// inserted into the cache. Validation failures reject before any network
// call.
func (c *Controller) Create(ctx context.Context, input CreateInput) (*domain.Game, error) {
	sess, ok := c.session.Current()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	if input.CourtID <= 0 {
		return nil, domain.ErrNoCourtSelected
	}
	if input.MaxPlayers < 2 {
		return nil, domain.ErrMaxPlayersTooLow
	}

	scheduled, err := timefmt.ToInstant(input.Date, input.Clock, c.inputZone)
	if err != nil {
		return nil, err
	}

	g, err := c.api.CreateGame(ctx, domain.CreateGameRequest{
		CourtID:       input.CourtID,
		CreatorUserID: sess.User.ID,
		MaxPlayers:    input.MaxPlayers,
		ScheduledTime: scheduled,
	})
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}

	c.games.Put(*g)
	c.logger.Info("game created", "game_id", g.ID, "court_id", g.CourtID)
	return g, nil
}

// Join adds the current user to a game in the given role and replaces the
// cached game with the server's updated snapshot. Full-game and
// already-joined rejections come back as *api.APIError carrying the
// server's message verbatim.
func (c *Controller) Join(ctx context.Context, gameID int64, role domain.ParticipantRole) (*domain.Game, error) {
	sess, ok := c.session.Current()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	g, err := c.api.JoinGame(ctx, gameID, domain.JoinGameRequest{
		UserID: sess.User.ID,
		Role:   role,
	})
	if err != nil {
		return nil, err
	}

	c.games.Put(*g)
	c.logger.Info("joined game", "game_id", gameID, "role", role)
	return g, nil
}

// Leave removes the current user from a game. Two terminal outcomes exist:
// the server returned an updated snapshot (other participants remain) and
// the cache entry is replaced, or the response carried no body (the game
// emptied out and was deleted server-side), in which case the entry is
// purged and removal listeners fire so dependent views close. The returned
// game is nil in the second case.
func (c *Controller) Leave(ctx context.Context, gameID int64) (*domain.Game, error) {
	sess, ok := c.session.Current()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	g, err := c.api.LeaveGame(ctx, gameID, sess.User.ID)
	if err != nil {
		return nil, err
	}

	if g == nil {
		c.games.Delete(gameID)
		c.logger.Info("left game, last participant out, game deleted", "game_id", gameID)
		c.notifyRemoved(gameID)
		return nil, nil
	}

	c.games.Put(*g)
	c.logger.Info("left game", "game_id", gameID, "remaining", g.CurrentPlayers)
	return g, nil
}

// Delete removes a game entirely. Host-only; a non-host caller gets the
// server's 403 back unchanged and the cache is left untouched.
func (c *Controller) Delete(ctx context.Context, gameID int64) error {
	if !c.session.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}

	if err := c.api.DeleteGame(ctx, gameID); err != nil {
		return err
	}

	c.games.Delete(gameID)
	c.logger.Info("game deleted", "game_id", gameID)
	c.notifyRemoved(gameID)
	return nil
}

// Ongoing returns the current user's games still recruiting or fully
// recruited.
func (c *Controller) Ongoing(ctx context.Context) ([]domain.Game, error) {
	sess, ok := c.session.Current()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	games, err := c.api.OngoingGames(ctx, sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching ongoing games: %w", err)
	}
	return games, nil
}

// Past returns the current user's ended games
func (c *Controller) Past(ctx context.Context) ([]domain.Game, error) {
	sess, ok := c.session.Current()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	games, err := c.api.PastGames(ctx, sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching past games: %w", err)
	}
	return games, nil
}

// Cached returns the cached snapshot of one game
func (c *Controller) Cached(gameID int64) (domain.Game, bool) {
	return c.games.Get(gameID)
}

// CachedGames returns a snapshot of the game cache
func (c *Controller) CachedGames() []domain.Game {
	return c.games.All()
}

// CachedCourts returns a snapshot of the court cache
func (c *Controller) CachedCourts() []domain.Court {
	return c.courts.All()
}
