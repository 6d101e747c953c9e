package match

import "errors"

// Sentinel kinds for controller errors.
var (
	ErrSetupIncomplete = errors.New("both team names are required")
	ErrMatchEnded      = errors.New("match has ended")
)

// RejectionError reports a rules-engine rejection. The reason is the
// human-readable explanation produced by the rule set; rejected intents
// never touch the event log.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return "event rejected: " + e.Reason
}
