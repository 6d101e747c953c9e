package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound         = errors.New("match not found")
	ErrDuplicateMatch   = errors.New("match already exists")
	ErrSequenceConflict = errors.New("event sequence conflict")
	ErrClosed           = errors.New("store closed")
)
