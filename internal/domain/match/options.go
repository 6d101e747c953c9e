package match

import (
	"time"

	"github.com/google/uuid"

	model "github.com/okian/courtside/internal/domain/model"
)

// Option customizes a Controller.
type Option func(*Controller)

func defaultIDGenerator() string {
	return uuid.NewString()
}

// WithIDGenerator replaces the identity generator used for match and
// event IDs.
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// WithClock replaces the wall-clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSource sets the provenance recorded on every appended event.
func WithSource(src model.Source) Option {
	return func(c *Controller) {
		c.source = src
	}
}
