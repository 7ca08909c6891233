// README: Compiled prompt value object and request splitting.
package prompt

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Strategy controls how a compiled prompt is turned into model requests.
type Strategy string

const (
	// StrategyCombined sends every segment in a single request.
	StrategyCombined Strategy = "combined"
	// StrategyChunked sends one request per schedule chunk, each prefixed with
	// the shared segments.
	StrategyChunked Strategy = "chunked"
)

// Segment names.
const (
	SegmentDestination = "destination"
	SegmentSchedule    = "schedule"
	SegmentInterests   = "interests"
	SegmentTravelers   = "travelers"
	SegmentVariation   = "variation"
)

// Segment is one rendered template section.
type Segment struct {
	Name string
	Text string
	// Shared segments are repeated in every request of a chunked prompt.
	Shared bool
}

// Compiled is the deterministic output of Compiler.Compile.
type Compiled struct {
	segments []Segment
	seed     int64
	strategy Strategy
}

// Segments returns a copy of the ordered segments.
func (c Compiled) Segments() []Segment {
	out := make([]Segment, len(c.segments))
	copy(out, c.segments)
	return out
}

func (c Compiled) Seed() int64        { return c.seed }
func (c Compiled) Strategy() Strategy { return c.strategy }

// Combined joins all segment texts in order.
func (c Compiled) Combined() string {
	parts := make([]string, 0, len(c.segments))
	for _, s := range c.segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "\n\n")
}

// Requests returns the prompt texts to send, in order. A combined prompt is a
// single request; a chunked prompt yields one request per non-shared segment.
func (c Compiled) Requests() []string {
	if c.strategy != StrategyChunked {
		return []string{c.Combined()}
	}
	var shared []string
	var own []Segment
	for _, s := range c.segments {
		if s.Shared {
			shared = append(shared, s.Text)
		} else {
			own = append(own, s)
		}
	}
	if len(own) == 0 {
		return []string{c.Combined()}
	}
	prefix := strings.Join(shared, "\n\n")
	reqs := make([]string, 0, len(own))
	for _, s := range own {
		reqs = append(reqs, prefix+"\n\n"+s.Text)
	}
	return reqs
}

// Fingerprint identifies the prompt content and seed.
func (c Compiled) Fingerprint() string {
	h := sha256.New()
	for _, s := range c.segments {
		h.Write([]byte(s.Name))
		h.Write([]byte{0})
		h.Write([]byte(s.Text))
		h.Write([]byte{0})
	}
	h.Write([]byte(strconv.FormatInt(c.seed, 10)))
	return hex.EncodeToString(h.Sum(nil))
}
