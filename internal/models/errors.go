package models

import "errors"

// Custom errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("record not found")
	ErrInvalidID    = errors.New("invalid ID format")
)
