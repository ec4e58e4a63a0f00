package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a row changed status since it was read
	ErrConflict = errors.New("row was modified concurrently")
)
