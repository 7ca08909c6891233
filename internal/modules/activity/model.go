// README: Activity record, status and summary types.
package activity

import (
	"strconv"
	"time"
)

type Status string

const (
	StatusSuccess Status = "Success"
	StatusError   Status = "Error"
)

// Actions recorded by the planner and the host process.
const (
	ActionGenerated = "Itinerary Generated"
	ActionFailed    = "Itinerary Generation Failed"
	ActionStartup   = "System Startup: Application Initialized"
)

// Unavailable replaces a field that cannot be rendered.
const Unavailable = "<unavailable>"

// DisplayLayout is the timestamp format used in exports and flat fields.
const DisplayLayout = "2006-01-02 15:04:05 MST"

// Record is one immutable log entry describing a single planning attempt.
type Record struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	Status      Status    `json:"status"`
	City        string    `json:"city"`
	Interests   string    `json:"interests"`
	Error       string    `json:"error,omitempty"`
	Stage       string    `json:"stage,omitempty"`
	LatencyMs   int64     `json:"latency_ms,omitempty"`
	ItineraryID string    `json:"itinerary_id,omitempty"`
}

// Fields is the flat key-value form handed to log-collection pipelines.
// timestamp, action, city, interests and status are always present.
func (r Record) Fields() map[string]string {
	f := map[string]string{
		"id":        r.ID,
		"timestamp": r.Timestamp.Format(DisplayLayout),
		"action":    r.Action,
		"city":      r.City,
		"interests": r.Interests,
		"status":    string(r.Status),
	}
	if r.Error != "" {
		f["error"] = r.Error
	}
	if r.Stage != "" {
		f["stage"] = r.Stage
	}
	if r.LatencyMs > 0 {
		f["latency_ms"] = strconv.FormatInt(r.LatencyMs, 10)
	}
	if r.ItineraryID != "" {
		f["itinerary_id"] = r.ItineraryID
	}
	return f
}

type Summary struct {
	Total        int `json:"total"`
	SuccessCount int `json:"success"`
	ErrorCount   int `json:"error"`
}
