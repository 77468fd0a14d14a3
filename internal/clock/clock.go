// Package clock supplies the wall-clock time used for visit timestamps,
// file names and checklist marks.
package clock

import (
	"time"

	"go.uber.org/zap"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Zoned is a Clock fixed to one IANA location.
type Zoned struct {
	loc *time.Location
}

// NewZoned returns a clock for the named zone. An unknown or empty name falls
// back to the local zone and logs a warning.
func NewZoned(name string, logger *zap.Logger) *Zoned {
	if name == "" {
		return &Zoned{loc: time.Local}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("unknown timezone, using local time", zap.String("timezone", name), zap.Error(err))
		return &Zoned{loc: time.Local}
	}
	return &Zoned{loc: loc}
}

// Now returns the current time in the clock's zone.
func (z *Zoned) Now() time.Time {
	return time.Now().In(z.loc)
}

// Location returns the clock's zone.
func (z *Zoned) Location() *time.Location {
	return z.loc
}

// Fixed is a Clock that always returns the same instant. Used by tests.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
