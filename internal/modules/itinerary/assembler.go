// README: Turns raw model text into an Itinerary, repairing structure instead of rejecting.
package itinerary

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"voyage/internal/metrics"
	"voyage/internal/modules/invoke"
	"voyage/internal/modules/trip"
)

// minProseLetters is the least amount of letters a heading-less answer needs
// to be used as a single day.
const minProseLetters = 20

const maxDayNumber = 99

var (
	// "## Day 3: Title", "**Day 3 (June 3) - Title**", "DAY 3.", "Days 2 & 3: Title"
	headingRe = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?(?:\*\*|__)?\s*days?\s+(\d{1,2})` +
		`(?:\s*(?:-|–|—|&|and|to)\s*(?:day\s+)?(\d{1,2}))?` +
		`\s*(?:\(([^)]*)\))?\s*(?:\*\*|__)?\s*(?:[:.\-–—|]\s*(.*?))?\s*(?:\*\*|__)?\s*$`)

	fenceRe = regexp.MustCompile("^\\s*```")

	ruleRe = regexp.MustCompile(`^\s*(?:-{3,}|\*{3,}|_{3,})\s*$`)

	chatterRe = regexp.MustCompile(`(?i)^\W*(?:enjoy(?:!|\s+(?:your|the|this)\s+(?:trip|stay|travels?|journey|adventure|visit|time|itinerary))|let me know|i hope|hope you|have a (?:great|wonderful|fantastic|nice)|happy travels|bon voyage|feel free|safe travels|if you (?:need|want|would|have)|would you like|i can also)`)
)

type Option func(*Assembler)

func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(a *Assembler) { a.newID = newID }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Assembler) { a.metrics = m }
}

// Assembler validates and repairs model output. It performs no I/O.
type Assembler struct {
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type section struct {
	first, last int
	title       string
	lines       []string
}

func (s section) span() int {
	if s.last > s.first {
		return s.last - s.first + 1
	}
	return 1
}

// Assemble builds an Itinerary with exactly p.DayCount() days from resp.
// Only a failed, empty or unreadable response is rejected.
func (a *Assembler) Assemble(resp invoke.Response, p trip.Parameters) (Itinerary, error) {
	if !resp.OK {
		reason := "model response marked as failed"
		if resp.Err != "" {
			reason += ": " + resp.Err
		}
		return Itinerary{}, &AssemblyError{Reason: reason}
	}
	parts := resp.Parts
	if len(parts) == 0 {
		parts = []string{resp.Text}
	}

	var (
		repairs  []Repair
		sections []section
		prose    []string
	)
	for i, part := range parts {
		lines := splitLines(stripFences(part))
		if isBlank(lines) {
			continue
		}
		leading, secs := parseSections(lines)
		if len(secs) == 0 {
			prose = append(prose, lines...)
			continue
		}
		if !isBlank(leading) {
			repairs = append(repairs, Repair{RepairStrippedLeading, "removed text before the first day" + partSuffix(i, len(parts))})
		}
		last := &secs[len(secs)-1]
		trimmed := trimTrailingChatter(last.lines)
		if len(nonBlank(trimmed)) < len(nonBlank(last.lines)) {
			repairs = append(repairs, Repair{RepairStrippedTrailing, "removed closing remarks after the last day" + partSuffix(i, len(parts))})
		}
		last.lines = trimmed
		sections = append(sections, secs...)
	}

	switch {
	case len(sections) == 0 && isBlank(prose):
		return Itinerary{}, &AssemblyError{Reason: "empty model response"}
	case len(sections) == 0:
		text := strings.TrimSpace(strings.Join(trimTrailingChatter(prose), "\n"))
		if countLetters(text) < minProseLetters {
			return Itinerary{}, &AssemblyError{Reason: "no day sections and no usable text in model response"}
		}
		sections = []section{{first: 1, last: 1, lines: strings.Split(text, "\n")}}
		repairs = append(repairs, Repair{RepairProseOnly, "response had no day headings; used as day 1"})
	case !isBlank(prose):
		repairs = append(repairs, Repair{RepairStrippedLeading, "removed a response part without day headings"})
	}

	days, dayRepairs := a.layout(sections, p)
	repairs = append(repairs, dayRepairs...)

	for _, r := range repairs {
		a.metrics.ObserveRepair(r.Kind)
	}
	if len(repairs) > 0 {
		a.logger.Warn("repaired model output", "city", p.City(), "days", p.DayCount(), "repairs", len(repairs))
	}

	return Itinerary{
		id:          a.newID(),
		city:        p.City(),
		region:      p.Region(),
		interests:   p.Interests(),
		start:       p.StartDate(),
		end:         p.EndDate(),
		adults:      p.Adults(),
		children:    p.Children(),
		days:        days,
		body:        renderDays(days),
		repairs:     repairs,
		provider:    resp.Provider,
		attempts:    resp.Attempts,
		generatedAt: a.now(),
	}, nil
}

// layout maps sections onto days 1..N in order of appearance.
func (a *Assembler) layout(sections []section, p trip.Parameters) ([]Day, []Repair) {
	n := p.DayCount()
	days := make([]Day, 0, n)
	var repairs []Repair

	reindexed := false
	for i, s := range sections {
		slot := len(days) + 1
		if s.first != slot {
			reindexed = true
		}
		body := strings.TrimSpace(strings.Join(s.lines, "\n"))

		if slot > n {
			last := &days[n-1]
			extra := body
			if s.title != "" {
				extra = strings.TrimSpace(s.title + "\n" + body)
			}
			if extra != "" {
				last.Body = strings.TrimSpace(last.Body + "\n\n" + extra)
			}
			repairs = append(repairs, Repair{RepairOverflow,
				fmt.Sprintf("section %d beyond day %d appended to day %d", i+1, n, n)})
			continue
		}

		days = append(days, Day{Number: slot, Date: p.Date(slot), Title: s.title, Body: body})
		if span := s.span(); span > 1 {
			covered := 1
			for k := 1; k < span && len(days) < n; k++ {
				num := len(days) + 1
				days = append(days, Day{
					Number:      num,
					Date:        p.Date(num),
					Title:       fmt.Sprintf("Continued from Day %d", slot),
					Body:        fmt.Sprintf("Planned together with Day %d above.", slot),
					Placeholder: true,
				})
				covered++
			}
			repairs = append(repairs, Repair{RepairMerged,
				fmt.Sprintf("merged section for days %d-%d split across days %d-%d", s.first, s.last, slot, slot+covered-1)})
		}
	}
	if reindexed {
		repairs = append([]Repair{{RepairReindexed, "day sections renumbered in order of appearance"}}, repairs...)
	}

	if missing := n - len(days); missing > 0 {
		for len(days) < n {
			num := len(days) + 1
			days = append(days, placeholderDay(num, p))
		}
		repairs = append(repairs, Repair{RepairPadded,
			fmt.Sprintf("padded %d missing %s", missing, pluralDay(missing))})
	}
	return days, repairs
}

func placeholderDay(num int, p trip.Parameters) Day {
	return Day{
		Number:      num,
		Date:        p.Date(num),
		Title:       "Free day",
		Body:        fmt.Sprintf("Free day: explore %s at your own pace, revisit a favourite spot or rest.", p.City()),
		Placeholder: true,
	}
}

func pluralDay(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}

// partSuffix names the response part in repair details when there are several.
func partSuffix(i, n int) string {
	if n < 2 {
		return ""
	}
	return fmt.Sprintf(" of part %d", i+1)
}

// parseSections splits lines at day headings. Lines before the first heading
// are returned separately.
func parseSections(lines []string) ([]string, []section) {
	var leading []string
	var sections []section
	for _, line := range lines {
		if s, ok := parseHeading(line); ok {
			sections = append(sections, s)
			continue
		}
		if len(sections) == 0 {
			leading = append(leading, line)
			continue
		}
		cur := &sections[len(sections)-1]
		cur.lines = append(cur.lines, line)
	}
	return leading, sections
}

func parseHeading(line string) (section, bool) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return section{}, false
	}
	first, err := strconv.Atoi(m[1])
	if err != nil || first < 1 || first > maxDayNumber {
		return section{}, false
	}
	last := first
	if m[2] != "" {
		if n, err := strconv.Atoi(m[2]); err == nil && n > first {
			last = n
		}
	}
	return section{first: first, last: last, title: cleanTitle(m[4])}, true
}

func cleanTitle(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_#:-–— "))
}

func stripFences(text string) string {
	lines := splitLines(text)
	out := lines[:0]
	for _, l := range lines {
		if fenceRe.MatchString(l) {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

// trimTrailingChatter drops blank lines, rules and sign-off remarks from the
// end of lines.
func trimTrailingChatter(lines []string) []string {
	end := len(lines)
	for end > 0 {
		l := strings.TrimSpace(lines[end-1])
		if l == "" || ruleRe.MatchString(l) || chatterRe.MatchString(l) {
			end--
			continue
		}
		break
	}
	return lines[:end]
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func isBlank(lines []string) bool {
	return len(nonBlank(lines)) == 0
}

func nonBlank(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
