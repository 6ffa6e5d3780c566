package errors

import "errors"

var (
	ErrNotFound = errors.New("catalog document not found")

	ErrInvalidID = errors.New("invalid catalog ID format")

	ErrDuplicateName = errors.New("name already in use within the business")
)
