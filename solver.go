package captcha

import (
	"context"
	"log/slog"
	"time"
)

// Solver drives one logical captcha solve end to end: submit the task, then
// poll at a fixed interval until a solution arrives, the deadline elapses, or
// the token is cancelled. The solver owns timing and cancellation decisions
// and never retries a failed provider call on its own — wrap the provider in
// a RetryProvider for that.
//
// A Solver is safe for concurrent use. Solve calls run independently and each
// gets a fresh deadline budget starting at its own submission.
type Solver[S any] struct {
	provider Provider[S]
	cfg      Config
}

// NewSolver creates a Solver with the balanced preset.
func NewSolver[S any](provider Provider[S]) *Solver[S] {
	return NewSolverWithConfig(provider, DefaultConfig())
}

// NewSolverWithConfig creates a Solver with an explicit timing policy.
func NewSolverWithConfig[S any](provider Provider[S], cfg Config) *Solver[S] {
	return &Solver[S]{provider: provider, cfg: cfg}
}

// Provider returns the wrapped provider.
func (s *Solver[S]) Provider() Provider[S] { return s.provider }

// Config returns the timing policy.
func (s *Solver[S]) Config() Config { return s.cfg }

// Solve submits task and waits until it is solved, the configured timeout
// elapses, or ctx is done. The error is a *ProviderError, *TimeoutError, or
// the ctx error; see the Is* helpers.
func (s *Solver[S]) Solve(ctx context.Context, task Task) (*S, error) {
	return s.SolveCancellable(ctx, task, NewToken())
}

// SolveCancellable is Solve with cooperative cancellation. Cancelling the
// token stops the operation at the next checkpoint — the interval sleep is
// raced against the cancel signal, so latency is bounded by one scheduler
// tick, not a full interval. A call to the provider already in flight is
// never preempted. A nil token behaves like Solve.
func (s *Solver[S]) SolveCancellable(ctx context.Context, task Task, token *Token) (*S, error) {
	if token == nil {
		token = NewToken()
	}
	token.markStart(time.Now())
	defer func() { token.markFinish(time.Now()) }()

	if token.Cancelled() {
		return nil, &CancelledError{}
	}

	id, err := s.provider.CreateTask(ctx, task)
	if err != nil {
		return nil, &ProviderError{Phase: PhaseSubmit, Err: err}
	}
	slog.Info("captcha task created",
		slog.String("task_id", string(id)),
		slog.String("task_type", task.TaskType()))

	// The deadline budget starts at submission, not at Solver construction.
	start := time.Now()
	polls := 0

	for {
		if token.Cancelled() {
			elapsed := time.Since(start)
			slog.Info("captcha solve cancelled",
				slog.String("task_id", string(id)),
				slog.Duration("elapsed", elapsed),
				slog.Int("polls", polls))
			return nil, &CancelledError{Elapsed: elapsed, Polls: polls, TaskID: id}
		}
		if elapsed := time.Since(start); elapsed >= s.cfg.Timeout {
			slog.Warn("captcha solve timed out",
				slog.String("task_id", string(id)),
				slog.Duration("elapsed", elapsed),
				slog.Int("polls", polls))
			return nil, &TimeoutError{Timeout: s.cfg.Timeout, Elapsed: elapsed, Polls: polls, TaskID: id}
		}

		select {
		case <-time.After(s.cfg.PollInterval):
		case <-token.Done():
			continue // next iteration reports the cancellation
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		solution, err := s.provider.GetTaskResult(ctx, id)
		polls++
		token.recordPoll()
		if err != nil {
			return nil, &ProviderError{Phase: PhasePoll, Err: err}
		}
		if solution != nil {
			slog.Info("captcha solved",
				slog.String("task_id", string(id)),
				slog.Duration("elapsed", time.Since(start)),
				slog.Int("polls", polls))
			return solution, nil
		}
	}
}
