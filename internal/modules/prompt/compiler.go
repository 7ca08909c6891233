// README: Prompt compiler; renders trip parameters into fixed template segments.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"voyage/internal/modules/trip"
)

const (
	displayDate      = "Mon 2 Jan 2006"
	defaultChunkDays = 7
)

// Options configure a Compiler. The zero value compiles a single combined
// prompt without a variation seed.
type Options struct {
	Strategy Strategy
	// Seed adds an explicit variation segment when non-zero.
	Seed int64
	// ChunkDays is the number of days per request for StrategyChunked.
	ChunkDays int
}

// Compiler renders Parameters into a Compiled prompt. It holds only parsed
// templates and is safe for concurrent use.
type Compiler struct {
	opts        Options
	destination *template.Template
	schedule    *template.Template
	interests   *template.Template
	travelers   *template.Template
	variation   *template.Template
}

var funcs = template.FuncMap{
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
}

// NewCompiler parses the fixed templates.
func NewCompiler(opts Options) *Compiler {
	if opts.Strategy == "" {
		opts.Strategy = StrategyCombined
	}
	if opts.ChunkDays <= 0 {
		opts.ChunkDays = defaultChunkDays
	}
	parse := func(name, text string) *template.Template {
		return template.Must(template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text))
	}
	return &Compiler{
		opts:        opts,
		destination: parse(SegmentDestination, destinationTmpl),
		schedule:    parse(SegmentSchedule, scheduleTmpl),
		interests:   parse(SegmentInterests, interestsTmpl),
		travelers:   parse(SegmentTravelers, travelersTmpl),
		variation:   parse(SegmentVariation, variationTmpl),
	}
}

// Strategy reports the request strategy prompts are compiled with.
func (c *Compiler) Strategy() Strategy { return c.opts.Strategy }

type dayLine struct {
	N     int
	Label string
}

type interestLine struct {
	Name   string
	Weight int
}

// Compile renders p. It performs no I/O and reads no clock: equal parameters
// and options always produce an equal Compiled value.
func (c *Compiler) Compile(p trip.Parameters) Compiled {
	days := p.DayCount()
	segs := []Segment{
		{Name: SegmentDestination, Shared: true, Text: c.render(c.destination, map[string]any{
			"City":   p.City(),
			"Region": p.Region(),
			"Start":  p.StartDate().Format(displayDate),
			"End":    p.EndDate().Format(displayDate),
			"Days":   days,
			"Nights": p.Duration(),
		})},
	}
	segs = append(segs, c.scheduleSegments(p)...)
	segs = append(segs,
		Segment{Name: SegmentInterests, Shared: true, Text: c.render(c.interests, map[string]any{
			"Interests": weighted(p.Interests()),
		})},
		Segment{Name: SegmentTravelers, Shared: true, Text: c.render(c.travelers, map[string]any{
			"Adults":   p.Adults(),
			"Children": p.Children(),
		})},
	)
	if c.opts.Seed != 0 {
		segs = append(segs, Segment{Name: SegmentVariation, Shared: true, Text: c.render(c.variation, map[string]any{
			"Seed": c.opts.Seed,
		})})
	}

	return Compiled{segments: segs, seed: c.opts.Seed, strategy: c.opts.Strategy}
}

func (c *Compiler) scheduleSegments(p trip.Parameters) []Segment {
	days := p.DayCount()
	chunk := days
	if c.opts.Strategy == StrategyChunked {
		chunk = c.opts.ChunkDays
	}
	var segs []Segment
	for first := 1; first <= days; first += chunk {
		last := min(first+chunk-1, days)
		dates := make([]dayLine, 0, last-first+1)
		for n := first; n <= last; n++ {
			dates = append(dates, dayLine{N: n, Label: p.Date(n).Format(displayDate)})
		}
		name := SegmentSchedule
		if chunk < days {
			name = fmt.Sprintf("%s_%d", SegmentSchedule, len(segs)+1)
		}
		segs = append(segs, Segment{Name: name, Text: c.render(c.schedule, map[string]any{
			"Chunk": chunk < days,
			"First": first,
			"Last":  last,
			"Days":  days,
			"Dates": dates,
		})})
	}
	return segs
}

// weighted assigns descending weights: the first of n interests gets n.
func weighted(interests []string) []interestLine {
	out := make([]interestLine, len(interests))
	for i, name := range interests {
		out[i] = interestLine{Name: name, Weight: len(interests) - i}
	}
	return out
}

// render executes a fixed template. Failures are programming errors in the
// templates themselves, so they panic.
func (c *Compiler) render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("prompt: render %s: %v", t.Name(), err))
	}
	return buf.String()
}
