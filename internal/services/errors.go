package services

import "errors"

// Sentinel error kinds wrapped with %w by all services so handlers can
// translate failures into HTTP statuses without string matching.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)
