package errors

import "errors"

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrDuplicatePair      = errors.New("connection already exists for this pair")
	ErrInvalidID          = errors.New("invalid ID format")
)
