// README: In-process activity log with serialized appends and async sink fan-out.
package activity

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"voyage/internal/metrics"
)

const (
	defaultBuffer   = 256
	defaultLocation = "Asia/Kolkata"
	maxFieldRunes   = 2000
)

type Option func(*Log)

func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithLocation sets the zone timestamps are stored and displayed in.
func WithLocation(loc *time.Location) Option {
	return func(l *Log) {
		if loc != nil {
			l.loc = loc
		}
	}
}

func WithSinks(sinks ...Sink) Option {
	return func(l *Log) { l.sinks = append(l.sinks, sinks...) }
}

// WithBuffer bounds the number of records waiting for sinks.
func WithBuffer(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.buffer = n
		}
	}
}

// WithStartupRecord appends the process start record on construction.
func WithStartupRecord() Option {
	return func(l *Log) { l.startup = true }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Log) { l.metrics = m }
}

// Log is the append-only activity log. Appends are serialized so records
// have a total order; reads return copies.
type Log struct {
	mu      sync.RWMutex
	records []Record
	closed  bool

	now     func() time.Time
	loc     *time.Location
	startup bool
	logger  *slog.Logger
	metrics *metrics.Metrics

	sinks  []Sink
	buffer int
	queue  chan Record
	done   chan struct{}
}

func NewLog(opts ...Option) *Log {
	l := &Log{
		now:    time.Now,
		loc:    DefaultLocation(),
		logger: slog.Default(),
		buffer: defaultBuffer,
	}
	for _, opt := range opts {
		opt(l)
	}
	if len(l.sinks) > 0 {
		l.queue = make(chan Record, l.buffer)
		l.done = make(chan struct{})
		go l.drain()
	}
	if l.startup {
		l.Record(Record{
			Action:    ActionStartup,
			Status:    StatusSuccess,
			City:      "System",
			Interests: "N/A",
		})
	}
	return l
}

// DefaultLocation is IST, falling back to a fixed +05:30 zone when the tz
// database is missing.
func DefaultLocation() *time.Location {
	if loc, err := time.LoadLocation(defaultLocation); err == nil {
		return loc
	}
	return time.FixedZone("IST", 5*3600+1800)
}

func (l *Log) Location() *time.Location { return l.loc }

// Record appends r and returns the stored copy. It never fails: missing ID
// and timestamp are filled in and unrenderable fields are replaced.
func (l *Log) Record(r Record) Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = l.now()
	}
	r.Timestamp = r.Timestamp.In(l.loc)
	if r.Status != StatusSuccess && r.Status != StatusError {
		r.Status = StatusError
	}
	r.Action = sanitize(r.Action)
	r.City = sanitize(r.City)
	r.Interests = sanitize(r.Interests)
	r.Stage = sanitize(r.Stage)
	if r.Error != "" {
		r.Error = sanitize(r.Error)
	}

	l.mu.Lock()
	l.records = append(l.records, r)
	if l.queue != nil && !l.closed {
		select {
		case l.queue <- r:
		default:
			l.logger.Warn("activity sink queue full, dropping record", "id", r.ID)
			l.metrics.ObserveSinkFailure("queue")
		}
	}
	l.mu.Unlock()

	l.metrics.ObserveRecord(string(r.Status))
	return r
}

// Summary counts records by status.
func (l *Log) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := Summary{Total: len(l.records)}
	for _, r := range l.records {
		if r.Status == StatusSuccess {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
	}
	return s
}

// Filter returns records whose status is in statuses, most recent first.
// No statuses means every status. Each call returns a fresh slice.
func (l *Log) Filter(statuses ...Status) []Record {
	want := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Record, 0, len(l.records))
	for i := len(l.records) - 1; i >= 0; i-- {
		r := l.records[i]
		if len(want) == 0 || want[r.Status] {
			out = append(out, r)
		}
	}
	return out
}

// All returns every record oldest first.
func (l *Log) All() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Close stops sink delivery after the queued records are published or ctx
// expires. Records appended after Close stay in memory only.
func (l *Log) Close(ctx context.Context) error {
	l.mu.Lock()
	if l.closed || l.queue == nil {
		l.closed = true
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Log) drain() {
	defer close(l.done)
	for r := range l.queue {
		for _, s := range l.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Publish(ctx, r); err != nil {
				l.logger.Error("activity sink publish failed", "sink", s.Name(), "id", r.ID, "error", err)
				l.metrics.ObserveSinkFailure(s.Name())
			}
			cancel()
		}
	}
}

// sanitize replaces invalid UTF-8 and control characters and bounds length.
// A non-blank field with nothing printable left becomes Unavailable.
func sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if utf8.RuneCountInString(s) > maxFieldRunes {
		s = string([]rune(s)[:maxFieldRunes]) + "…"
	}
	if strings.TrimSpace(strings.ReplaceAll(s, "�", "")) == "" {
		return Unavailable
	}
	return s
}
