// Package review manages post-game ratings: submitting, editing and
// deleting reviews, and refreshing the server-computed aggregates that
// depend on them.
package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hoopmatch/internal/api"
	"github.com/hoopmatch/internal/domain"
	"github.com/hoopmatch/internal/session"
)

// Controller drives review mutations. Every write is validated locally
// before the network, and every successful write refreshes the views that
// depend on it, because rating aggregates are computed server-side only.
type Controller struct {
	api     *api.Client
	session *session.Store
	logger  *slog.Logger
}

// NewController creates a review controller
func NewController(apiClient *api.Client, sess *session.Store, logger *slog.Logger) *Controller {
	return &Controller{
		api:     apiClient,
		session: sess,
		logger:  logger,
	}
}

// GameReviewState is what a review view renders for one game: the full
// review list, the subset the current user wrote, and the current user's
// rating aggregate refreshed alongside them. Aggregates are computed
// server-side only, so the summary is refetched rather than adjusted
// locally.
type GameReviewState struct {
	All     []domain.Review
	Mine    []domain.Review
	Summary *domain.UserRatingSummary
}

// FetchGameReviews loads the review state for one game
func (c *Controller) FetchGameReviews(ctx context.Context, gameID int64) (*GameReviewState, error) {
	sess, ok := c.session.Current()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	all, err := c.api.GameReviews(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching reviews for game %d: %w", gameID, err)
	}
	mine, err := c.api.MyGameReviews(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching own reviews for game %d: %w", gameID, err)
	}
	summary, err := c.api.RatingSummary(ctx, sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching rating summary for user %d: %w", sess.User.ID, err)
	}

	return &GameReviewState{All: all, Mine: mine, Summary: summary}, nil
}

// FetchSummary returns the server-computed rating aggregate for one user
func (c *Controller) FetchSummary(ctx context.Context, userID int64) (*domain.UserRatingSummary, error) {
	summary, err := c.api.RatingSummary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching rating summary for user %d: %w", userID, err)
	}
	return summary, nil
}

// Create validates and submits a new review, then refreshes the game's
// review state so the caller renders server truth rather than a local
// guess at the new aggregate.
func (c *Controller) Create(ctx context.Context, req domain.CreateReviewRequest) (*domain.Review, *GameReviewState, error) {
	if !c.session.IsAuthenticated() {
		return nil, nil, domain.ErrNotAuthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	created, err := c.api.CreateReview(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Info("review created",
		"rating_id", created.RatingID,
		"game_id", created.GameID,
		"reviewee", created.RevieweeName,
	)

	state, err := c.FetchGameReviews(ctx, req.GameID)
	if err != nil {
		return created, nil, err
	}
	return created, state, nil
}

// Update edits the rating and comment of an existing review and refreshes
// the game's review state. The reviewee is fixed at creation and is not
// part of the edit.
func (c *Controller) Update(ctx context.Context, ratingID, gameID int64, req domain.UpdateReviewRequest) (*domain.Review, *GameReviewState, error) {
	if !c.session.IsAuthenticated() {
		return nil, nil, domain.ErrNotAuthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	updated, err := c.api.UpdateReview(ctx, ratingID, req)
	if err != nil {
		return nil, nil, err
	}
	c.logger.Info("review updated", "rating_id", ratingID, "game_id", gameID)

	state, err := c.FetchGameReviews(ctx, gameID)
	if err != nil {
		return updated, nil, err
	}
	return updated, state, nil
}

// Delete removes a review and refreshes the game's review state. The
// server enforces that only the reviewer may delete.
func (c *Controller) Delete(ctx context.Context, ratingID, gameID int64) (*GameReviewState, error) {
	if !c.session.IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	if err := c.api.DeleteReview(ctx, ratingID); err != nil {
		return nil, err
	}
	c.logger.Info("review deleted", "rating_id", ratingID, "game_id", gameID)

	return c.FetchGameReviews(ctx, gameID)
}
