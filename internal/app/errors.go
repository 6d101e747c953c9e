package service

import "errors"

// ErrUnknownTemplate reports a rule template id not present in the
// registry.
var ErrUnknownTemplate = errors.New("unknown rule template")
