package domain

import "errors"

// Validation errors, caught client-side before any network call
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoCourtSelected  = errors.New("no court selected")
	ErrMaxPlayersTooLow = errors.New("a game needs at least 2 players")
	ErrInvalidSchedule  = errors.New("invalid scheduled date or time")
	ErrRevieweeRequired = errors.New("reviewee name is required")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong   = errors.New("comment must be 500 characters or fewer")
)

// IsValidationError checks if an error is a local pre-submit rejection
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrNoCourtSelected) ||
		errors.Is(err, ErrMaxPlayersTooLow) ||
		errors.Is(err, ErrInvalidSchedule) ||
		errors.Is(err, ErrRevieweeRequired) ||
		errors.Is(err, ErrRatingOutOfRange) ||
		errors.Is(err, ErrCommentTooLong)
}
