// README: Invocation policy, response value and error types.
package invoke

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy bounds a single invocation. Worst-case blocking is
// Timeout*(MaxRetries+1) plus the backoff waits between attempts.
type Policy struct {
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
	// Jitter is the backoff randomization factor in [0,1).
	Jitter float64
}

func DefaultPolicy() Policy {
	return Policy{
		Timeout:        30 * time.Second,
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2.0,
		Jitter:         0.2,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = d.InitialBackoff
	}
	if p.MaxBackoff < p.InitialBackoff {
		p.MaxBackoff = p.InitialBackoff
	}
	if p.Multiplier < 1 {
		p.Multiplier = d.Multiplier
	}
	if p.Jitter < 0 || p.Jitter >= 1 {
		p.Jitter = 0
	}
	return p
}

// MaxBlocking is the upper bound on time spent inside Invoke for one request.
func (p Policy) MaxBlocking() time.Duration {
	p = p.normalized()
	total := p.Timeout * time.Duration(p.MaxRetries+1)
	wait := p.InitialBackoff
	for i := 0; i < p.MaxRetries; i++ {
		total += time.Duration(float64(wait) * (1 + p.Jitter))
		wait = time.Duration(float64(wait) * p.Multiplier)
		if wait > p.MaxBackoff {
			wait = p.MaxBackoff
		}
	}
	return total
}

// Response is the raw model answer. Text is never modified.
type Response struct {
	Text string
	// Parts holds the raw answer of each request in order; Text is their
	// blank-line join.
	Parts    []string
	Latency  time.Duration
	Attempts int
	OK       bool
	Err      string
	Provider string
}

// ErrInvocation matches every *InvocationError.
var ErrInvocation = errors.New("model invocation failed")

// InvocationError reports a failed invocation after retries were exhausted
// or a permanent failure was hit.
type InvocationError struct {
	Attempts int
	Timeout  bool
	Canceled bool
	Cause    error
}

func (e *InvocationError) Error() string {
	switch {
	case e.Canceled:
		return fmt.Sprintf("model invocation cancelled after %d attempt(s): %v", e.Attempts, e.Cause)
	case e.Timeout:
		return fmt.Sprintf("model invocation timeout after %d attempt(s): %v", e.Attempts, e.Cause)
	default:
		return fmt.Sprintf("model invocation failed after %d attempt(s): %v", e.Attempts, e.Cause)
	}
}

func (e *InvocationError) Unwrap() error { return e.Cause }

func (e *InvocationError) Is(target error) bool { return target == ErrInvocation }

// attemptTimeout marks an attempt cut off by the per-attempt deadline while
// the caller's context was still live.
type attemptTimeout struct {
	after time.Duration
	err   error
}

func (e *attemptTimeout) Error() string {
	if e.err == nil || errors.Is(e.err, context.DeadlineExceeded) {
		return fmt.Sprintf("timeout after %s", e.after)
	}
	return fmt.Sprintf("timeout after %s: %v", e.after, e.err)
}

func (e *attemptTimeout) Unwrap() []error {
	if e.err == nil {
		return []error{context.DeadlineExceeded}
	}
	return []error{context.DeadlineExceeded, e.err}
}
