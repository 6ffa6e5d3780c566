package errors

import "errors"

var (
	ErrNotFound = errors.New("clinical record not found")

	ErrInvalidID = errors.New("invalid clinical record ID format")
)
