package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrListingNotFound = errors.New("listing not found")

	ErrDraftNotFound = errors.New("booking draft not found or expired")

	ErrInvalidDateRange = errors.New("check-out must be after check-in")
)
