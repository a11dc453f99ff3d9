package captcha

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig is the backoff policy for a RetryProvider. The delay before
// the nth retry is min(MaxDelay, MinDelay*Factor^n) plus uniform jitter of
// up to the computed delay, capped again at MaxDelay.
type RetryConfig struct {
	// MaxRetries caps how many times a transient failure is re-issued.
	// Zero disables retrying: the first error is terminal.
	MaxRetries int

	// MinDelay is the backoff before the first retry. Zero is legal and
	// yields an immediate retry.
	MinDelay time.Duration

	// MaxDelay caps every computed delay, jitter included.
	MaxDelay time.Duration

	// Factor is the exponential growth multiplier, at least 1.
	Factor float64
}

// DefaultRetryConfig returns the stock policy: 3 retries, delays growing
// from 1s to at most 30s, doubling each time.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		MinDelay:   time.Second,
		MaxDelay:   30 * time.Second,
		Factor:     2.0,
	}
}

// WithMaxRetries returns a copy with the retry cap replaced.
func (c RetryConfig) WithMaxRetries(n int) RetryConfig { c.MaxRetries = n; return c }

// WithMinDelay returns a copy with the initial delay replaced.
func (c RetryConfig) WithMinDelay(d time.Duration) RetryConfig { c.MinDelay = d; return c }

// WithMaxDelay returns a copy with the delay cap replaced.
func (c RetryConfig) WithMaxDelay(d time.Duration) RetryConfig { c.MaxDelay = d; return c }

// WithFactor returns a copy with the growth multiplier replaced.
func (c RetryConfig) WithFactor(f float64) RetryConfig { c.Factor = f; return c }

var (
	ErrBadDelayBounds = errors.New("captcha: retry min delay must be >= 0 and <= max delay")
	ErrBadFactor      = errors.New("captcha: retry factor must be >= 1")
)

// Validate checks the backoff invariants.
func (c RetryConfig) Validate() error {
	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return ErrBadDelayBounds
	}
	if c.Factor < 1 {
		return ErrBadFactor
	}
	return nil
}

// delay computes the capped exponential base delay for a retry attempt,
// counted from zero. Jitter is added by the caller.
func (c RetryConfig) delay(attempt int) time.Duration {
	d := float64(c.MinDelay) * math.Pow(c.Factor, float64(attempt))
	if d > float64(c.MaxDelay) {
		return c.MaxDelay
	}
	return time.Duration(d)
}

// OnRetryFunc observes retries: the error that triggered one and the delay
// about to be slept. Observability hook only; it must not affect control
// flow.
type OnRetryFunc func(err error, delay time.Duration)

// RetryProvider decorates a Provider with bounded exponential backoff on
// transient errors. Successes pass through untouched — including the
// not-ready nil result from GetTaskResult, which is not a failure — and
// errors classified permanent propagate immediately without delay.
//
// A RetryProvider satisfies Provider itself, so decorators compose and the
// Solver stays retry-policy-agnostic.
type RetryProvider[S any] struct {
	inner   Provider[S]
	cfg     RetryConfig
	onRetry OnRetryFunc
	jitter  func(time.Duration) time.Duration
}

// WithRetry wraps provider with the given backoff policy.
func WithRetry[S any](provider Provider[S], cfg RetryConfig) *RetryProvider[S] {
	return &RetryProvider[S]{inner: provider, cfg: cfg, jitter: uniformJitter}
}

// WithOnRetry installs a retry observer and returns the provider for
// chaining.
func (p *RetryProvider[S]) WithOnRetry(fn OnRetryFunc) *RetryProvider[S] {
	p.onRetry = fn
	return p
}

// Inner returns the wrapped provider.
func (p *RetryProvider[S]) Inner() Provider[S] { return p.inner }

// Config returns the backoff policy.
func (p *RetryProvider[S]) Config() RetryConfig { return p.cfg }

// CreateTask submits through the wrapped provider, re-issuing transient
// failures per the backoff policy.
func (p *RetryProvider[S]) CreateTask(ctx context.Context, task Task) (TaskID, error) {
	return retryCall(ctx, p.cfg, p.onRetry, p.jitter, func() (TaskID, error) {
		return p.inner.CreateTask(ctx, task)
	})
}

// GetTaskResult polls through the wrapped provider, re-issuing transient
// failures per the backoff policy.
func (p *RetryProvider[S]) GetTaskResult(ctx context.Context, id TaskID) (*S, error) {
	return retryCall(ctx, p.cfg, p.onRetry, p.jitter, func() (*S, error) {
		return p.inner.GetTaskResult(ctx, id)
	})
}

// uniformJitter picks a uniform random duration in [0, d].
func uniformJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return rand.N(d + 1)
}

func retryCall[T any](ctx context.Context, cfg RetryConfig, onRetry OnRetryFunc, jitter func(time.Duration) time.Duration, call func() (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		v, err := call()
		if err == nil {
			return v, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		if cfg.MaxRetries <= 0 {
			return zero, err
		}
		if attempt >= cfg.MaxRetries {
			return zero, &RetriesExhaustedError{Attempts: attempt, Err: err}
		}

		delay := cfg.delay(attempt)
		if j := jitter(delay); j > 0 {
			delay += j
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
		if onRetry != nil {
			onRetry(err, delay)
		}
		slog.Debug("retrying captcha provider call",
			slog.Any("error", err),
			slog.Duration("delay", delay),
			slog.Int("attempt", attempt+1))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}
