// README: Itinerary value object, repair notes and assembly errors.
package itinerary

import (
	"encoding/json"
	"errors"
	"time"
)

// Day is one day section of an itinerary.
type Day struct {
	Number int
	Date   time.Time
	Title  string
	Body   string
	// Placeholder days were not produced by the model.
	Placeholder bool
}

// Repair kinds.
const (
	RepairStrippedLeading  = "stripped_leading"
	RepairStrippedTrailing = "stripped_trailing"
	RepairReindexed        = "reindexed"
	RepairMerged           = "merged"
	RepairOverflow         = "overflow"
	RepairPadded           = "padded"
	RepairProseOnly        = "prose_only"
)

// Repair notes one structural correction made to the model output.
type Repair struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Itinerary is immutable once assembled; accessors return copies.
type Itinerary struct {
	id          string
	city        string
	region      string
	interests   []string
	start       time.Time
	end         time.Time
	adults      int
	children    int
	days        []Day
	body        string
	repairs     []Repair
	provider    string
	attempts    int
	generatedAt time.Time
}

func (it Itinerary) ID() string           { return it.id }
func (it Itinerary) City() string         { return it.city }
func (it Itinerary) Region() string       { return it.region }
func (it Itinerary) StartDate() time.Time { return it.start }
func (it Itinerary) EndDate() time.Time   { return it.end }
func (it Itinerary) Adults() int          { return it.adults }
func (it Itinerary) Children() int        { return it.children }
func (it Itinerary) Body() string         { return it.body }
func (it Itinerary) Provider() string     { return it.provider }
func (it Itinerary) Attempts() int        { return it.attempts }
func (it Itinerary) GeneratedAt() time.Time {
	return it.generatedAt
}

// Duration is the number of nights.
func (it Itinerary) Duration() int {
	return int(it.end.Sub(it.start).Hours() / 24)
}

func (it Itinerary) Interests() []string {
	out := make([]string, len(it.interests))
	copy(out, it.interests)
	return out
}

func (it Itinerary) Days() []Day {
	out := make([]Day, len(it.days))
	copy(out, it.days)
	return out
}

func (it Itinerary) Repairs() []Repair {
	out := make([]Repair, len(it.repairs))
	copy(out, it.repairs)
	return out
}

// Repaired reports whether any structural correction was applied.
func (it Itinerary) Repaired() bool { return len(it.repairs) > 0 }

type dayJSON struct {
	Number      int    `json:"number"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type itineraryJSON struct {
	ID           string    `json:"id"`
	City         string    `json:"city"`
	Region       string    `json:"region,omitempty"`
	Interests    []string  `json:"interests"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	DurationDays int       `json:"duration_days"`
	Adults       int       `json:"adults"`
	Children     int       `json:"children"`
	Days         []dayJSON `json:"days"`
	Body         string    `json:"body"`
	Repairs      []Repair  `json:"repairs,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	Attempts     int       `json:"attempts"`
	GeneratedAt  time.Time `json:"generated_at"`
}

func (it Itinerary) MarshalJSON() ([]byte, error) {
	days := make([]dayJSON, 0, len(it.days))
	for _, d := range it.days {
		days = append(days, dayJSON{
			Number:      d.Number,
			Date:        d.Date.Format(time.DateOnly),
			Title:       d.Title,
			Body:        d.Body,
			Placeholder: d.Placeholder,
		})
	}
	return json.Marshal(itineraryJSON{
		ID:           it.id,
		City:         it.city,
		Region:       it.region,
		Interests:    it.Interests(),
		StartDate:    it.start.Format(time.DateOnly),
		EndDate:      it.end.Format(time.DateOnly),
		DurationDays: it.Duration(),
		Adults:       it.adults,
		Children:     it.children,
		Days:         days,
		Body:         it.body,
		Repairs:      it.repairs,
		Provider:     it.provider,
		Attempts:     it.attempts,
		GeneratedAt:  it.generatedAt,
	})
}

// ErrAssembly matches every *AssemblyError.
var ErrAssembly = errors.New("itinerary assembly failed")

// AssemblyError rejects a response that is empty or cannot be read as an
// itinerary at all.
type AssemblyError struct {
	Reason string
}

func (e *AssemblyError) Error() string { return "cannot assemble itinerary: " + e.Reason }

func (e *AssemblyError) Is(target error) bool { return target == ErrAssembly }
