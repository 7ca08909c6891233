package itinerary

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage/internal/logging"
	"voyage/internal/modules/invoke"
	"voyage/internal/modules/trip"
)

var (
	today   = time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	june1   = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	builtAt = time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)
)

func params(t *testing.T, city string, days int) trip.Parameters {
	t.Helper()
	p, err := trip.Normalize(trip.RawInput{
		City:      city,
		Interests: "museums, food",
		StartDate: june1,
		EndDate:   june1.AddDate(0, 0, days-1),
		Adults:    2,
	}, today)
	require.NoError(t, err)
	return p
}

func newTestAssembler() *Assembler {
	return NewAssembler(
		WithClock(func() time.Time { return builtAt }),
		WithIDGenerator(func() string { return "itin-1" }),
		WithLogger(logging.Discard()),
	)
}

func ok(text string) invoke.Response {
	return invoke.Response{Text: text, OK: true, Attempts: 1, Provider: "static"}
}

func TestAssembleWellFormed(t *testing.T) {
	raw := `## Day 1: Arrival and the Louvre
Morning at the Louvre.

## Day 2: Montmartre
Sacre-Coeur and cafes.

## Day 3: Food tour
Le Marais markets.

## Day 4: Orsay and departure
Impressionists, then the train.`

	it, err := newTestAssembler().Assemble(ok(raw), params(t, "Paris", 4))
	require.NoError(t, err)

	assert.Equal(t, "itin-1", it.ID())
	assert.Equal(t, 3, it.Duration())
	assert.Equal(t, builtAt, it.GeneratedAt())
	assert.Empty(t, it.Repairs())
	require.Len(t, it.Days(), 4)
	for i, d := range it.Days() {
		assert.Equal(t, i+1, d.Number)
		assert.Equal(t, june1.AddDate(0, 0, i), d.Date)
		assert.False(t, d.Placeholder)
	}
	assert.Equal(t, "Montmartre", it.Days()[1].Title)
	assert.Equal(t, "Sacre-Coeur and cafes.", it.Days()[1].Body)
	assert.True(t, strings.HasPrefix(it.Body(), "Day 1 (Sun Jun 1): Arrival and the Louvre\nMorning at the Louvre."))
	assert.Equal(t, 4, strings.Count(it.Body(), "\nDay ")+1)
}

func TestAssemblePadsMissingDays(t *testing.T) {
	raw := "Day 1: Old town\nWalk.\n\nDay 2: Beach\nSwim."
	it, err := newTestAssembler().Assemble(ok(raw), params(t, "Goa", 5))
	require.NoError(t, err)

	days := it.Days()
	require.Len(t, days, 5)
	assert.False(t, days[0].Placeholder)
	assert.False(t, days[1].Placeholder)
	for _, d := range days[2:] {
		assert.True(t, d.Placeholder)
		assert.Contains(t, d.Body, "explore Goa at your own pace")
	}
	require.Len(t, it.Repairs(), 1)
	assert.Equal(t, RepairPadded, it.Repairs()[0].Kind)
	assert.Equal(t, "padded 3 missing days", it.Repairs()[0].Detail)
	assert.True(t, it.Repaired())
}

func TestAssembleMergedDays(t *testing.T) {
	raw := "**Day 1: Arrival**\nCheck in.\n\n**Day 2-3: Versailles**\nPalace and gardens.\n\n**Day 4: Departure**\nFly home."
	it, err := newTestAssembler().Assemble(ok(raw), params(t, "Paris", 4))
	require.NoError(t, err)

	days := it.Days()
	require.Len(t, days, 4)
	assert.Equal(t, "Versailles", days[1].Title)
	assert.Equal(t, "Palace and gardens.", days[1].Body)
	assert.True(t, days[2].Placeholder)
	assert.Contains(t, days[2].Body, "Day 2")
	assert.Equal(t, "Departure", days[3].Title)
	assert.False(t, days[3].Placeholder)
	assert.Equal(t, []string{RepairMerged}, kinds(it.Repairs()))
}

func TestAssembleStripsConversationalText(t *testing.T) {
	raw := "Sure! Here is your itinerary for Rome:\n\n### Day 1 - Colosseum\nAncient Rome.\n\n### Day 2 - Vatican\nMuseums.\n\n---\nEnjoy your trip!\nLet me know if you want changes."
	it, err := newTestAssembler().Assemble(ok(raw), params(t, "Rome", 2))
	require.NoError(t, err)

	assert.NotContains(t, it.Body(), "Sure!")
	assert.NotContains(t, it.Body(), "Enjoy your trip")
	assert.NotContains(t, it.Body(), "Let me know")
	assert.Equal(t, "Museums.", it.Days()[1].Body)
	assert.Equal(t, []string{RepairStrippedLeading, RepairStrippedTrailing}, kinds(it.Repairs()))
}

func TestAssembleStripsChatterAroundEachPart(t *testing.T) {
	resp := invoke.Response{
		OK: true, Attempts: 2, Provider: "static",
		Parts: []string{
			"Sure! Here is part 1:\n\n## Day 1: Louvre\nMona Lisa.\n\n## Day 2: Orsay\nMonet.\n\nEnjoy your trip!\nLet me know if you need changes.",
			"Sure! Here is part 2 of your plan:\n\n## Day 3: Montmartre\nSacre-Coeur.\n\nEnjoy your trip!",
		},
	}
	it, err := newTestAssembler().Assemble(resp, params(t, "Paris", 3))
	require.NoError(t, err)

	days := it.Days()
	require.Len(t, days, 3)
	assert.Equal(t, "Monet.", days[1].Body)
	assert.Equal(t, "Sacre-Coeur.", days[2].Body)
	assert.NotContains(t, it.Body(), "Sure!")
	assert.NotContains(t, it.Body(), "Enjoy your trip")
	assert.Equal(t, []string{
		RepairStrippedLeading, RepairStrippedTrailing,
		RepairStrippedLeading, RepairStrippedTrailing,
	}, kinds(it.Repairs()))
	assert.Equal(t, "removed text before the first day of part 2", it.Repairs()[2].Detail)
}

func TestAssembleDropsPartWithoutHeadings(t *testing.T) {
	resp := invoke.Response{
		OK: true, Attempts: 2,
		Parts: []string{"## Day 1: Beach\nSwim.", "I'm sorry, I can only plan the first day."},
	}
	it, err := newTestAssembler().Assemble(resp, params(t, "Goa", 1))
	require.NoError(t, err)
	assert.Equal(t, "Swim.", it.Days()[0].Body)
	assert.NotContains(t, it.Body(), "sorry")
	assert.Equal(t, []string{RepairStrippedLeading}, kinds(it.Repairs()))
}

func TestAssembleReindexesAndOverflows(t *testing.T) {
	raw := "Day 3: A\na\nDay 7: B\nb\nDay 9: C\nc"
	it, err := newTestAssembler().Assemble(ok(raw), params(t, "Bali", 2))
	require.NoError(t, err)

	days := it.Days()
	require.Len(t, days, 2)
	assert.Equal(t, "A", days[0].Title)
	assert.Equal(t, "B", days[1].Title)
	assert.Equal(t, "b\n\nC\nc", days[1].Body)
	assert.Equal(t, []string{RepairReindexed, RepairOverflow}, kinds(it.Repairs()))
}

func TestAssembleStripsCodeFences(t *testing.T) {
	raw := "```markdown\n## Day 1: Shibuya\nCrossing.\n```"
	it, err := newTestAssembler().Assemble(ok(raw), params(t, "Tokyo", 1))
	require.NoError(t, err)
	assert.Equal(t, "Crossing.", it.Days()[0].Body)
	assert.Empty(t, it.Repairs())
}

func TestAssembleProseOnly(t *testing.T) {
	raw := "Spend the morning at the harbour and the afternoon in the old quarter."
	it, err := newTestAssembler().Assemble(ok(raw), params(t, "Barcelona", 3))
	require.NoError(t, err)

	days := it.Days()
	require.Len(t, days, 3)
	assert.Equal(t, raw, days[0].Body)
	assert.True(t, days[1].Placeholder)
	assert.Equal(t, []string{RepairProseOnly, RepairPadded}, kinds(it.Repairs()))
}

func TestAssembleRejects(t *testing.T) {
	cases := []struct {
		name string
		resp invoke.Response
	}{
		{"not ok", invoke.Response{OK: false, Err: "timeout"}},
		{"empty", ok("")},
		{"whitespace", ok("  \n\t\n ")},
		{"only fences", ok("```\n```")},
		{"unparseable", ok("OK.")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestAssembler().Assemble(tc.resp, params(t, "Paris", 2))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAssembly)
			var asmErr *AssemblyError
			assert.ErrorAs(t, err, &asmErr)
		})
	}
}

func TestParseHeading(t *testing.T) {
	cases := []struct {
		line        string
		first, last int
		title       string
	}{
		{"## Day 1: Arrival", 1, 1, "Arrival"},
		{"**Day 2 - Louvre**", 2, 2, "Louvre"},
		{"DAY 3.", 3, 3, ""},
		{"Day 4 (June 4): Versailles", 4, 4, "Versailles"},
		{"### Days 2 & 3: Loire Valley", 2, 3, "Loire Valley"},
		{"Day 5 – Departure", 5, 5, "Departure"},
		{"Day 6", 6, 6, ""},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			s, ok := parseHeading(tc.line)
			require.True(t, ok)
			assert.Equal(t, tc.first, s.first)
			assert.Equal(t, tc.last, s.last)
			assert.Equal(t, tc.title, s.title)
		})
	}

	for _, line := range []string{"Day 2 is for resting", "The Day 1 plan", "- Visit the museum", "Day 0: nothing"} {
		_, ok := parseHeading(line)
		assert.False(t, ok, line)
	}
}

func TestRenderAndFilename(t *testing.T) {
	it, err := newTestAssembler().Assemble(ok("## Day 1: Fjords\nBoat trip."), params(t, "New York", 1))
	require.NoError(t, err)

	text := Render(it)
	assert.True(t, strings.HasPrefix(text, "AI Travel Itinerary for New York\n\nCity: New York\nInterests: museums, food\n\n"))
	assert.Contains(t, text, "Day 1 (Sun Jun 1): Fjords\nBoat trip.")

	assert.Equal(t, "itinerary_new_york.txt", Filename("New York"))
	assert.Equal(t, "itinerary_paris.txt", Filename("Paris"))
	assert.Equal(t, "itinerary_trip.txt", Filename("  "))
}

func TestItineraryJSONAndCopies(t *testing.T) {
	it, err := newTestAssembler().Assemble(ok("Day 1: A\nx"), params(t, "Dubai", 2))
	require.NoError(t, err)

	days := it.Days()
	days[0].Title = "mutated"
	assert.Equal(t, "A", it.Days()[0].Title)

	raw, err := json.Marshal(it)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Dubai", decoded["city"])
	assert.Equal(t, "2025-06-01", decoded["start_date"])
	assert.Equal(t, float64(1), decoded["duration_days"])
	assert.Len(t, decoded["days"], 2)
}

func kinds(rs []Repair) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Kind)
	}
	return out
}
