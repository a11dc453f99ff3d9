package captcha

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pollStep scripts one GetTaskResult response.
type pollStep struct {
	solution *string
	err      error
}

// scriptedProvider replays canned responses and counts calls.
type scriptedProvider struct {
	createErrs  []error // consumed first; then CreateTask succeeds
	createID    TaskID
	pollSteps   []pollStep // consumed in order; last step repeats
	createCalls int
	pollCalls   int
}

func (p *scriptedProvider) CreateTask(ctx context.Context, task Task) (TaskID, error) {
	p.createCalls++
	if len(p.createErrs) > 0 {
		err := p.createErrs[0]
		p.createErrs = p.createErrs[1:]
		return "", err
	}
	return p.createID, nil
}

func (p *scriptedProvider) GetTaskResult(ctx context.Context, id TaskID) (*string, error) {
	p.pollCalls++
	if len(p.pollSteps) == 0 {
		return nil, nil
	}
	step := p.pollSteps[0]
	if len(p.pollSteps) > 1 {
		p.pollSteps = p.pollSteps[1:]
	}
	return step.solution, step.err
}

func strptr(s string) *string { return &s }

// fastRetryConfig keeps test delays in the low milliseconds.
func fastRetryConfig() RetryConfig {
	return DefaultRetryConfig().WithMinDelay(time.Millisecond).WithMaxDelay(8 * time.Millisecond)
}

// noJitter makes backoff deterministic for assertions.
func noJitter(p *RetryProvider[string]) *RetryProvider[string] {
	p.jitter = func(time.Duration) time.Duration { return 0 }
	return p
}

func TestRetryPassesThroughSuccess(t *testing.T) {
	inner := &scriptedProvider{createID: "task-1"}
	p := noJitter(WithRetry[string](inner, fastRetryConfig()))

	id, err := p.CreateTask(context.Background(), NewTurnstile("https://x.test", "k"))
	require.NoError(t, err)
	assert.Equal(t, TaskID("task-1"), id)
	assert.Equal(t, 1, inner.createCalls)
}

func TestRetryNotReadyIsNotAFailure(t *testing.T) {
	inner := &scriptedProvider{pollSteps: []pollStep{{solution: nil, err: nil}}}
	calls := 0
	p := noJitter(WithRetry[string](inner, fastRetryConfig())).
		WithOnRetry(func(error, time.Duration) { calls++ })

	solution, err := p.GetTaskResult(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Nil(t, solution)
	assert.Equal(t, 1, inner.pollCalls, "a not-ready result must not be re-issued")
	assert.Zero(t, calls)
}

func TestRetryFatalErrorPropagatesImmediately(t *testing.T) {
	fatal := &fakeRetryableErr{msg: "invalid key", retryable: false}
	inner := &scriptedProvider{createErrs: []error{fatal}}
	calls := 0
	p := noJitter(WithRetry[string](inner, fastRetryConfig())).
		WithOnRetry(func(error, time.Duration) { calls++ })

	_, err := p.CreateTask(context.Background(), NewTurnstile("https://x.test", "k"))
	require.ErrorIs(t, err, fatal)
	assert.False(t, IsRetriesExhausted(err), "fatal errors are not wrapped")
	assert.Equal(t, 1, inner.createCalls)
	assert.Zero(t, calls)
}

func TestRetryTransientThenSuccess(t *testing.T) {
	transient := &fakeRetryableErr{msg: "rate limited", retryable: true}
	inner := &scriptedProvider{
		createErrs: []error{transient, transient},
		createID:   "task-2",
	}
	var delays []time.Duration
	p := noJitter(WithRetry[string](inner, fastRetryConfig())).
		WithOnRetry(func(err error, d time.Duration) {
			assert.ErrorIs(t, err, transient)
			delays = append(delays, d)
		})

	id, err := p.CreateTask(context.Background(), NewTurnstile("https://x.test", "k"))
	require.NoError(t, err)
	assert.Equal(t, TaskID("task-2"), id)
	assert.Equal(t, 3, inner.createCalls)

	require.Len(t, delays, 2, "one callback per retry")
	cfg := fastRetryConfig()
	for i, d := range delays {
		assert.LessOrEqual(t, d, cfg.MaxDelay)
		if i > 0 {
			assert.GreaterOrEqual(t, d, delays[i-1], "delays must not shrink")
		}
	}
}

func TestRetryExhaustion(t *testing.T) {
	transient := &fakeRetryableErr{msg: "service unavailable", retryable: true}
	inner := &scriptedProvider{
		createErrs: []error{transient, transient, transient, transient, transient},
	}
	calls := 0
	cfg := fastRetryConfig().WithMaxRetries(3)
	p := noJitter(WithRetry[string](inner, cfg)).
		WithOnRetry(func(error, time.Duration) { calls++ })

	_, err := p.CreateTask(context.Background(), NewTurnstile("https://x.test", "k"))
	require.Error(t, err)

	var exhausted *RetriesExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, transient, "the last underlying error stays reachable")
	assert.Equal(t, 4, inner.createCalls, "initial call plus MaxRetries")
	assert.Equal(t, 3, calls)
}

func TestRetryDisabled(t *testing.T) {
	transient := &fakeRetryableErr{msg: "rate limited", retryable: true}
	inner := &scriptedProvider{createErrs: []error{transient}}
	p := noJitter(WithRetry[string](inner, fastRetryConfig().WithMaxRetries(0)))

	_, err := p.CreateTask(context.Background(), NewTurnstile("https://x.test", "k"))
	require.ErrorIs(t, err, transient)
	assert.False(t, IsRetriesExhausted(err), "MaxRetries 0 propagates the raw error")
	assert.Equal(t, 1, inner.createCalls)
}

func TestRetryHonorsContext(t *testing.T) {
	transient := &fakeRetryableErr{msg: "rate limited", retryable: true}
	inner := &scriptedProvider{createErrs: []error{transient, transient, transient}}
	cfg := fastRetryConfig().WithMinDelay(time.Hour).WithMaxDelay(time.Hour)
	p := noJitter(WithRetry[string](inner, cfg))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := p.CreateTask(ctx, NewTurnstile("https://x.test", "k"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second, "must not sleep out the full backoff")
}

func TestRetryDelaySchedule(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 5, MinDelay: time.Second, MaxDelay: 30 * time.Second, Factor: 2.0}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second}, // capped
		{10, 30 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.delay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestRetryJitterCappedAtMaxDelay(t *testing.T) {
	transient := &fakeRetryableErr{msg: "rate limited", retryable: true}
	inner := &scriptedProvider{createErrs: []error{transient}, createID: "t"}
	cfg := RetryConfig{MaxRetries: 1, MinDelay: 4 * time.Millisecond, MaxDelay: 5 * time.Millisecond, Factor: 2.0}
	p := WithRetry[string](inner, cfg)
	p.jitter = func(d time.Duration) time.Duration { return d } // worst case

	var got time.Duration
	p.WithOnRetry(func(_ error, d time.Duration) { got = d })

	_, err := p.CreateTask(context.Background(), NewTurnstile("https://x.test", "k"))
	require.NoError(t, err)
	assert.Equal(t, cfg.MaxDelay, got)
}

func TestUniformJitterBounds(t *testing.T) {
	for range 100 {
		d := uniformJitter(10 * time.Millisecond)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 10*time.Millisecond)
	}
	assert.Zero(t, uniformJitter(0))
	assert.Zero(t, uniformJitter(-time.Second))
}

func TestRetryConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RetryConfig
		wantErr error
	}{
		{"default", DefaultRetryConfig(), nil},
		{"zero retries", DefaultRetryConfig().WithMaxRetries(0), nil},
		{"negative min delay", DefaultRetryConfig().WithMinDelay(-time.Second), ErrBadDelayBounds},
		{"max below min", DefaultRetryConfig().WithMaxDelay(time.Millisecond), ErrBadDelayBounds},
		{"factor below one", DefaultRetryConfig().WithFactor(0.5), ErrBadFactor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), tt.wantErr)
		})
	}
}

func TestRetryProviderAccessors(t *testing.T) {
	inner := &scriptedProvider{}
	cfg := fastRetryConfig()
	p := WithRetry[string](inner, cfg)

	assert.Same(t, inner, p.Inner().(*scriptedProvider))
	assert.Equal(t, cfg, p.Config())

	var asProvider Provider[string] = p // decorators must compose
	assert.NotNil(t, asProvider)

	d := DefaultRetryConfig()
	assert.Equal(t, 3, d.MaxRetries)
	assert.Equal(t, time.Second, d.MinDelay)
	assert.Equal(t, 30*time.Second, d.MaxDelay)
	assert.InDelta(t, 2.0, d.Factor, 1e-9)
}
