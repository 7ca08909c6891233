// README: PlannerError wraps the failing stage's error with caller-facing text.
package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"voyage/internal/modules/invoke"
	"voyage/internal/modules/itinerary"
	"voyage/internal/modules/trip"
)

// Caller-facing messages.
const (
	MsgUnavailable = "The itinerary service is currently unavailable. Please try again later."
	MsgAssembly    = "We couldn't build an itinerary from the model's answer. Please try again."
	MsgCancelled   = "The request was cancelled."
	MsgInternal    = "Something went wrong while planning your trip. Please try again."
)

// PlannerError wraps whichever stage failed.
type PlannerError struct {
	Stage    Stage
	Canceled bool
	Err      error
}

func (e *PlannerError) Error() string {
	if e.Canceled {
		return fmt.Sprintf("plan cancelled during %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("plan failed during %s: %v", e.Stage, e.Err)
}

func (e *PlannerError) Unwrap() error { return e.Err }

// UserMessage is short, non-technical text suitable for direct display.
// Validation reasons are surfaced verbatim.
func (e *PlannerError) UserMessage() string {
	if e.Canceled {
		return MsgCancelled
	}
	var ve *trip.ValidationError
	switch {
	case errors.As(e.Err, &ve):
		return upperFirst(ve.Reason)
	case errors.Is(e.Err, invoke.ErrInvocation):
		return MsgUnavailable
	case errors.Is(e.Err, itinerary.ErrAssembly):
		return MsgAssembly
	default:
		return MsgInternal
	}
}

func upperFirst(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
