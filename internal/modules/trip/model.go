// README: Trip parameters value object produced by the normalizer.
package trip

import (
	"time"
)

// Traveler and trip bounds accepted by Normalize.
const (
	MinAdults   = 1
	MaxAdults   = 20
	MinChildren = 0
	MaxChildren = 10
	MaxTripDays = 30
)

// RawInput is the unvalidated trip request as it arrives from a caller.
type RawInput struct {
	City      string
	Interests string // comma-separated
	StartDate time.Time
	EndDate   time.Time
	Adults    int
	Children  int
}

// Parameters is a validated, canonical trip request. The zero value is not valid;
// build one with Normalize. Fields are unexported so a value cannot change after
// construction.
type Parameters struct {
	city      string
	region    string
	interests []string
	start     time.Time
	end       time.Time
	adults    int
	children  int
}

func (p Parameters) City() string { return p.city }

// Region is the canonical destination label attached by a resolver, or "".
func (p Parameters) Region() string { return p.region }

// Interests returns a copy of the ordered interest tags.
func (p Parameters) Interests() []string {
	out := make([]string, len(p.interests))
	copy(out, p.interests)
	return out
}

func (p Parameters) StartDate() time.Time { return p.start }
func (p Parameters) EndDate() time.Time   { return p.end }
func (p Parameters) Adults() int          { return p.adults }
func (p Parameters) Children() int        { return p.children }

// Travelers is the total party size.
func (p Parameters) Travelers() int { return p.adults + p.children }

// Duration is the number of nights, end minus start in whole days.
func (p Parameters) Duration() int {
	return int(p.end.Sub(p.start).Hours() / 24)
}

// DayCount is the number of itinerary days, Duration()+1.
func (p Parameters) DayCount() int { return p.Duration() + 1 }

// Date returns the calendar date of day n (1-based).
func (p Parameters) Date(n int) time.Time {
	return p.start.AddDate(0, 0, n-1)
}

// WithRegion returns a copy carrying the canonical destination label.
func (p Parameters) WithRegion(region string) Parameters {
	cp := p
	cp.interests = p.Interests()
	cp.region = region
	return cp
}
