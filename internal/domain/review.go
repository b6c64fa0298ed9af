package domain

import (
	"strings"
	"unicode/utf8"
)

// RevieweeRole identifies the capacity a user is rated in
type RevieweeRole string

const (
	RevieweePlayer  RevieweeRole = "PLAYER"
	RevieweeReferee RevieweeRole = "REFEREE"
)

// Rating limits enforced client-side before any request is issued
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

// Review is a rating one participant leaves for another within the context
// of a single finished game. Only the reviewer may edit or delete it; the
// server enforces ownership, the client just gates the controls.
type Review struct {
	RatingID     int64        `json:"ratingId"`
	GameID       int64        `json:"gameId"`
	ReviewerName string       `json:"reviewerName"`
	RevieweeName string       `json:"revieweeName"`
	RevieweeRole RevieweeRole `json:"revieweeRole"`
	Rating       int          `json:"rating"`
	Comment      string       `json:"comment,omitempty"`
	CreatedAt    Instant      `json:"createdAt"`
	UpdatedAt    Instant      `json:"updatedAt"`
}

// IsOwnedBy reports whether the named user wrote this review
func (r *Review) IsOwnedBy(name string) bool {
	return name != "" && r.ReviewerName == name
}

// UserRatingSummary is the server-computed aggregate for one user. The
// client refetches it after every review mutation instead of aggregating
// incrementally, so it never drifts from the server's weighted scoring.
type UserRatingSummary struct {
	UserID    int64   `json:"userId"`
	PlayScore float64 `json:"playScore"`
	PlayCount int     `json:"playCount"`
	RefScore  float64 `json:"refScore"`
	RefCount  int     `json:"refCount"`
}

// CreateReviewRequest is the payload for creating a review
type CreateReviewRequest struct {
	GameID       int64        `json:"gameId"`
	RevieweeName string       `json:"revieweeName"`
	RevieweeRole RevieweeRole `json:"revieweeRole"`
	Rating       int          `json:"rating"`
	Comment      string       `json:"comment,omitempty"`
}

// Validate checks the request before it is allowed near the network
func (r *CreateReviewRequest) Validate() error {
	if strings.TrimSpace(r.RevieweeName) == "" {
		return ErrRevieweeRequired
	}
	return validateRatingFields(r.Rating, r.Comment)
}

// UpdateReviewRequest is the payload for editing a review. The reviewee is
// fixed at creation time and cannot be changed.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// Validate checks the request before it is allowed near the network
func (r *UpdateReviewRequest) Validate() error {
	return validateRatingFields(r.Rating, r.Comment)
}

func validateRatingFields(rating int, comment string) error {
	if rating < MinRating || rating > MaxRating {
		return ErrRatingOutOfRange
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}
