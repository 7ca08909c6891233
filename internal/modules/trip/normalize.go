// README: Parameter normalizer; validates and canonicalizes raw trip input.
package trip

import (
	"strings"
	"time"
)

// Normalize validates raw and returns canonical Parameters. today is the
// caller's current date; only its calendar day is used. Checks run in a fixed
// order and the first failing field is reported.
func Normalize(raw RawInput, today time.Time) (Parameters, error) {
	city := strings.Join(strings.Fields(raw.City), " ")
	if city == "" {
		return Parameters{}, invalid("city", "city is required")
	}

	interests := SplitInterests(raw.Interests)
	if len(interests) == 0 {
		return Parameters{}, invalid("interests", "at least one interest is required")
	}

	if raw.StartDate.IsZero() {
		return Parameters{}, invalid("start_date", "start date is required")
	}
	if raw.EndDate.IsZero() {
		return Parameters{}, invalid("end_date", "end date is required")
	}
	start := dateOnly(raw.StartDate)
	end := dateOnly(raw.EndDate)
	if start.Before(dateOnly(today)) {
		return Parameters{}, invalid("start_date", "start date %s is in the past", start.Format(time.DateOnly))
	}
	if end.Before(start) {
		return Parameters{}, invalid("end_date", "end date %s is before start date %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxTripDays {
		return Parameters{}, invalid("end_date", "trip of %d days exceeds the %d day limit", days, MaxTripDays)
	}

	if raw.Adults < MinAdults || raw.Adults > MaxAdults {
		return Parameters{}, invalid("adults", "adults must be between %d and %d", MinAdults, MaxAdults)
	}
	if raw.Children < MinChildren || raw.Children > MaxChildren {
		return Parameters{}, invalid("children", "children must be between %d and %d", MinChildren, MaxChildren)
	}

	return Parameters{
		city:      city,
		interests: interests,
		start:     start,
		end:       end,
		adults:    raw.Adults,
		children:  raw.Children,
	}, nil
}

// SplitInterests splits a comma-separated list, trims each tag, drops empties
// and removes case-insensitive duplicates keeping the first spelling seen.
func SplitInterests(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.Join(strings.Fields(part), " ")
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// dateOnly keeps the calendar day of t as seen in t's own location, at UTC midnight.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
