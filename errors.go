package captcha

import (
	"errors"
	"fmt"
	"time"
)

// Phase identifies which provider operation a failure came from.
type Phase string

const (
	// PhaseSubmit means CreateTask failed; the operation never polled.
	PhaseSubmit Phase = "create_task"
	// PhasePoll means GetTaskResult failed after the task was created.
	PhasePoll Phase = "get_task_result"
)

// ProviderError wraps a provider failure surfaced by the solver, after any
// retry layer has already had its say.
type ProviderError struct {
	Phase Phase
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("captcha provider error during %s: %v", e.Phase, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable delegates to the underlying provider classification.
func (e *ProviderError) Retryable() bool { return IsRetryable(e.Err) }

// TimeoutError reports that the deadline elapsed while still polling. The
// vendor task has expired by then, so the same task cannot be retried.
type TimeoutError struct {
	Timeout time.Duration
	Elapsed time.Duration
	Polls   int
	TaskID  TaskID
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for captcha solution after %.1fs (polls: %d); task id: %s",
		e.Elapsed.Seconds(), e.Polls, e.TaskID)
}

// CancelledError reports a caller-initiated cancellation.
type CancelledError struct {
	Elapsed time.Duration
	Polls   int
	TaskID  TaskID
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("captcha solve cancelled after %.1fs (polls: %d); task id: %s",
		e.Elapsed.Seconds(), e.Polls, e.TaskID)
}

// RetriesExhaustedError is returned by RetryProvider when a transient error
// kept recurring past MaxRetries. It carries the last underlying error.
type RetriesExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("captcha retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Err }

// UnsupportedTaskError is returned by an adapter whose vendor API cannot
// express the given task type.
type UnsupportedTaskError struct {
	Provider string
	Task     string
}

func (e *UnsupportedTaskError) Error() string {
	return fmt.Sprintf("task type %s is not supported by %s", e.Task, e.Provider)
}

// IsTimeout reports whether err is a solve timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsCancelled reports whether err is a caller cancellation.
func IsCancelled(err error) bool {
	var ce *CancelledError
	return errors.As(err, &ce)
}

// IsRetriesExhausted reports whether err wraps an exhausted retry budget.
func IsRetriesExhausted(err error) bool {
	var re *RetriesExhaustedError
	return errors.As(err, &re)
}
