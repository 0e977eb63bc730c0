package errors

import "errors"

var (
	ErrNotFound          = errors.New("listing not found")
	ErrInvalidID         = errors.New("invalid listing ID format")
	ErrReviewNotFound    = errors.New("review not found")
	ErrDuplicateReview   = errors.New("listing already reviewed by this user")
	ErrWatchlistNotFound = errors.New("watchlist not found")
)
