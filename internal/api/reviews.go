package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hoopmatch/internal/domain"
)

// CreateReview submits a new rating for a participant of a finished game
func (c *Client) CreateReview(ctx context.Context, req domain.CreateReviewRequest) (*domain.Review, error) {
	var review domain.Review
	if err := c.call(ctx, http.MethodPost, "/reviews", nil, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReview returns one review by id
func (c *Client) GetReview(ctx context.Context, ratingID int64) (*domain.Review, error) {
	var review domain.Review
	path := fmt.Sprintf("/reviews/%d", ratingID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// MyGameReviews returns the reviews the current user left for one game
func (c *Client) MyGameReviews(ctx context.Context, gameID int64) ([]domain.Review, error) {
	var reviews []domain.Review
	path := fmt.Sprintf("/reviews/my-reviews/game/%d", gameID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// GameReviews returns every review left for one game
func (c *Client) GameReviews(ctx context.Context, gameID int64) ([]domain.Review, error) {
	var reviews []domain.Review
	path := fmt.Sprintf("/reviews/game/%d", gameID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// RatingSummary returns the server-computed aggregate for one user
func (c *Client) RatingSummary(ctx context.Context, userID int64) (*domain.UserRatingSummary, error) {
	var summary domain.UserRatingSummary
	path := fmt.Sprintf("/reviews/user/%d/summary", userID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// UpdateReview edits the rating and comment of an existing review. The
// reviewee is fixed at creation and cannot change.
func (c *Client) UpdateReview(ctx context.Context, ratingID int64, req domain.UpdateReviewRequest) (*domain.Review, error) {
	var review domain.Review
	path := fmt.Sprintf("/reviews/%d", ratingID)
	if err := c.call(ctx, http.MethodPut, path, nil, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review. Reviewer-only; the server enforces
// ownership.
func (c *Client) DeleteReview(ctx context.Context, ratingID int64) error {
	path := fmt.Sprintf("/reviews/%d", ratingID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}
