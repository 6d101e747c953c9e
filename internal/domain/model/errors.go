package model

import "errors"

// Sentinel kinds for event schema errors.
var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidEvent     = errors.New("invalid event")
)
