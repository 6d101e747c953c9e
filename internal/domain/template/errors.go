package template

import "errors"

// Sentinel kinds for template errors.
var (
	ErrLoadTemplates   = errors.New("load templates failed")
	ErrInvalidTemplate = errors.New("invalid template")
)
