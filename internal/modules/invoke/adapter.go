// README: Model invocation adapter: per-attempt timeout, retries with exponential backoff.
package invoke

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"voyage/internal/ai"
	"voyage/internal/metrics"
	"voyage/internal/modules/prompt"
)

// Adapter is the only component that talks to the model backend.
type Adapter struct {
	provider ai.LLMProvider
	policy   Policy
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Adapter)

func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

func NewAdapter(provider ai.LLMProvider, policy Policy, opts ...Option) *Adapter {
	a := &Adapter{
		provider: provider,
		policy:   policy.normalized(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Policy() Policy { return a.policy }

// Invoke sends every request of the compiled prompt in order and returns the
// joined raw text. Any request failing fails the whole invocation.
func (a *Adapter) Invoke(ctx context.Context, compiled prompt.Compiled) (Response, error) {
	start := time.Now()
	name := a.provider.Name()
	resp := Response{Provider: name}

	requests := compiled.Requests()
	texts := make([]string, 0, len(requests))
	for i, req := range requests {
		text, attempts, err := a.send(ctx, req)
		resp.Attempts += attempts
		if err != nil {
			resp.Latency = time.Since(start)
			invErr := &InvocationError{
				Attempts: resp.Attempts,
				Timeout:  ai.IsTimeout(err),
				Canceled: errors.Is(err, context.Canceled),
				Cause:    err,
			}
			resp.Err = invErr.Error()
			a.metrics.ObserveInvocation(name, false, resp.Latency)
			a.logger.Error("model invocation failed",
				"provider", name, "request", i+1, "of", len(requests),
				"attempts", resp.Attempts, "error", err)
			return resp, invErr
		}
		texts = append(texts, text)
	}

	resp.Parts = texts
	resp.Text = strings.Join(texts, "\n\n")
	resp.OK = true
	resp.Latency = time.Since(start)
	a.metrics.ObserveInvocation(name, true, resp.Latency)
	a.logger.Debug("model invocation completed",
		"provider", name, "requests", len(requests),
		"attempts", resp.Attempts, "latency", resp.Latency)
	return resp, nil
}

// send runs one request through the retry loop and reports how many attempts
// were made.
func (a *Adapter) send(ctx context.Context, text string) (string, int, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = a.policy.InitialBackoff
	b.MaxInterval = a.policy.MaxBackoff
	b.Multiplier = a.policy.Multiplier
	b.RandomizationFactor = a.policy.Jitter

	name := a.provider.Name()
	attempts := 0
	op := func() (string, error) {
		attempts++
		out, err := a.attempt(ctx, text)
		if err == nil {
			a.metrics.ObserveAttempt(name, "success")
			return out, nil
		}
		switch {
		case ctx.Err() != nil:
			a.metrics.ObserveAttempt(name, "canceled")
			if !errors.Is(err, ctx.Err()) {
				err = fmt.Errorf("%w: %v", ctx.Err(), err)
			}
			return "", backoff.Permanent(err)
		case ai.IsTimeout(err):
			a.metrics.ObserveAttempt(name, "timeout")
		case ai.IsTransient(err):
			a.metrics.ObserveAttempt(name, "transient")
		default:
			a.metrics.ObserveAttempt(name, "permanent")
			return "", backoff.Permanent(err)
		}
		a.logger.Debug("model attempt failed", "provider", name, "attempt", attempts, "error", err)
		return "", err
	}

	out, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(a.policy.MaxRetries+1)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			a.logger.Warn("retrying model call", "provider", name, "attempt", attempts, "wait", wait, "error", err)
		}),
	)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Unwrap()
		}
		return "", attempts, err
	}
	return out, attempts, nil
}

type result struct {
	text string
	err  error
}

// attempt bounds one provider call by the policy timeout, even when the
// provider ignores its context.
func (a *Adapter) attempt(ctx context.Context, text string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, a.policy.Timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		out, err := a.provider.PlanItinerary(attemptCtx, text)
		done <- result{text: out, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return "", &attemptTimeout{after: a.policy.Timeout, err: r.err}
		}
		return r.text, r.err
	case <-attemptCtx.Done():
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "", &attemptTimeout{after: a.policy.Timeout}
	}
}
