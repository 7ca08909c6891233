// README: Planner facade sequencing normalize, compile, invoke and assemble; one activity record per call.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voyage/internal/metrics"
	"voyage/internal/modules/activity"
	"voyage/internal/modules/invoke"
	"voyage/internal/modules/itinerary"
	"voyage/internal/modules/prompt"
	"voyage/internal/modules/trip"
)

const defaultResolveTimeout = 3 * time.Second

// Request carries the raw inbound parameters.
type Request struct {
	City      string
	Interests string
	StartDate time.Time
	EndDate   time.Time
	Adults    int
	Children  int
}

// Invoker sends a compiled prompt to the model backend.
type Invoker interface {
	Invoke(ctx context.Context, compiled prompt.Compiled) (invoke.Response, error)
}

// DestinationResolver maps a city to a canonical destination label.
// Failures are logged and never fail a plan.
type DestinationResolver interface {
	Resolve(ctx context.Context, city string) (string, error)
}

type Option func(*Planner)

func WithResolver(r DestinationResolver, timeout time.Duration) Option {
	return func(p *Planner) {
		p.resolver = r
		if timeout > 0 {
			p.resolveTimeout = timeout
		}
	}
}

// WithClock sets the source of "today" for date validation.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// Planner is a pure sequencer. It holds no per-call state, so Plan may be
// called concurrently; the activity log is the only shared mutable state.
type Planner struct {
	compiler  *prompt.Compiler
	invoker   Invoker
	assembler *itinerary.Assembler
	log       *activity.Log

	resolver       DestinationResolver
	resolveTimeout time.Duration
	now            func() time.Time
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

func NewPlanner(compiler *prompt.Compiler, invoker Invoker, assembler *itinerary.Assembler, log *activity.Log, opts ...Option) *Planner {
	p := &Planner{
		compiler:       compiler,
		invoker:        invoker,
		assembler:      assembler,
		log:            log,
		resolveTimeout: defaultResolveTimeout,
		now:            time.Now,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Log returns the injected activity log.
func (p *Planner) Log() *activity.Log { return p.log }

// Plan runs Received -> Validating -> Compiling -> Invoking -> Assembling and
// ends in Completed or Failed. Exactly one activity record is appended per
// call, whatever the outcome.
func (p *Planner) Plan(ctx context.Context, req Request) (it itinerary.Itinerary, err error) {
	started := time.Now()
	r := newRun()
	var params trip.Parameters
	validated := false

	defer func() {
		p.finish(r, req, params, validated, it, err, time.Since(started))
	}()

	fail := func(cause error) error {
		perr := &PlannerError{Stage: r.active, Err: cause}
		if ctx.Err() != nil && !errors.Is(cause, trip.ErrValidation) {
			perr.Canceled = true
		}
		r.advance(StageFailed)
		return perr
	}

	r.advance(StageValidating)
	if cerr := ctx.Err(); cerr != nil {
		return itinerary.Itinerary{}, fail(cerr)
	}
	params, err = trip.Normalize(trip.RawInput{
		City:      req.City,
		Interests: req.Interests,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Adults:    req.Adults,
		Children:  req.Children,
	}, p.now())
	if err != nil {
		return itinerary.Itinerary{}, fail(err)
	}
	validated = true

	r.advance(StageCompiling)
	if cerr := ctx.Err(); cerr != nil {
		return itinerary.Itinerary{}, fail(cerr)
	}
	params = p.resolve(ctx, params)
	compiled := p.compiler.Compile(params)
	p.logger.Debug("prompt compiled",
		"city", params.City(), "days", params.DayCount(),
		"requests", len(compiled.Requests()), "fingerprint", compiled.Fingerprint())

	r.advance(StageInvoking)
	if cerr := ctx.Err(); cerr != nil {
		return itinerary.Itinerary{}, fail(cerr)
	}
	resp, err := p.invoker.Invoke(ctx, compiled)
	if err != nil {
		return itinerary.Itinerary{}, fail(err)
	}

	r.advance(StageAssembling)
	if cerr := ctx.Err(); cerr != nil {
		return itinerary.Itinerary{}, fail(cerr)
	}
	it, err = p.assembler.Assemble(resp, params)
	if err != nil {
		return itinerary.Itinerary{}, fail(err)
	}

	r.advance(StageCompleted)
	return it, nil
}

func (p *Planner) resolve(ctx context.Context, params trip.Parameters) trip.Parameters {
	if p.resolver == nil {
		return params
	}
	rctx, cancel := context.WithTimeout(ctx, p.resolveTimeout)
	defer cancel()
	region, err := p.resolver.Resolve(rctx, params.City())
	if err != nil {
		p.logger.Warn("destination lookup failed", "city", params.City(), "error", err)
		return params
	}
	return params.WithRegion(region)
}

// finish appends the single activity record for a call.
func (p *Planner) finish(r *run, req Request, params trip.Parameters, validated bool, it itinerary.Itinerary, err error, latency time.Duration) {
	rec := activity.Record{
		City:      strings.TrimSpace(req.City),
		Interests: strings.TrimSpace(req.Interests),
		LatencyMs: latency.Milliseconds(),
	}
	if validated {
		rec.City = params.City()
		rec.Interests = strings.Join(params.Interests(), ", ")
	}

	if err == nil && r.stage == StageCompleted {
		rec.Action = activity.ActionGenerated
		rec.Status = activity.StatusSuccess
		rec.ItineraryID = it.ID()
		p.log.Record(rec)
		p.metrics.ObservePlan(string(StageCompleted), true, latency)
		p.logger.Info("itinerary generated",
			"city", rec.City, "days", len(it.Days()), "repairs", len(it.Repairs()), "latency", latency)
		return
	}

	rec.Action = activity.ActionFailed
	rec.Status = activity.StatusError
	stage := r.active
	var perr *PlannerError
	switch {
	case errors.As(err, &perr):
		stage = perr.Stage
		rec.Error = perr.Err.Error()
		if perr.Canceled {
			rec.Error = "cancelled: " + rec.Error
		}
	case err != nil:
		rec.Error = err.Error()
	default:
		rec.Error = fmt.Sprintf("plan ended in stage %s", r.stage)
	}
	rec.Stage = string(stage)
	p.log.Record(rec)
	p.metrics.ObservePlan(string(stage), false, latency)
	p.logger.Error("itinerary generation failed", "city", rec.City, "stage", stage, "error", rec.Error)
}
