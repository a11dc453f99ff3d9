// Package captcha turns submit-a-task, poll-for-result captcha vendors
// (Capsolver, RuCaptcha, ...) into one uniform, cancellable, retryable
// solve operation.
//
// The moving parts compose like this:
//
//	task types (ReCaptchaV2, Turnstile, ...)
//	        │
//	        ▼
//	Solver[S]                    timing: submit once, poll until done
//	        │
//	        ▼
//	RetryProvider[S]             optional backoff wrapper
//	        │
//	        ▼
//	Provider[S]                  vendor adapter (capsolver, rucaptcha)
package captcha

import (
	"context"
	"errors"
)

// TaskID is the vendor-assigned handle for an in-flight captcha task. It is
// opaque to this package: created by CreateTask, consumed by GetTaskResult,
// discarded when the operation ends.
type TaskID string

// Task is a vendor-agnostic captcha description. Concrete types live in
// tasks.go; adapters convert them to their vendor's wire format and return
// an UnsupportedTaskError for types their API cannot express.
type Task interface {
	// TaskType returns a short display name such as "ReCaptchaV2Invisible".
	TaskType() string
}

// Provider is the contract every captcha vendor adapter implements.
//
// GetTaskResult returns (nil, nil) while the task is still being solved;
// that is the only not-ready signal and it is never an error. Each call
// performs exactly one network round trip — retrying belongs to
// RetryProvider, timing belongs to Solver.
type Provider[S any] interface {
	// CreateTask submits the captcha and returns the vendor's task id.
	CreateTask(ctx context.Context, task Task) (TaskID, error)

	// GetTaskResult polls for the solution. A nil solution with a nil
	// error means the task is not ready yet.
	GetTaskResult(ctx context.Context, id TaskID) (*S, error)
}

// RetryableError classifies a provider failure as transient or permanent.
// Vendor error types implement it so rate limits, upstream hiccups and the
// like can be re-issued uniformly regardless of vendor.
type RetryableError interface {
	error
	Retryable() bool
}

// IsRetryable reports whether err, anywhere in its chain, is classified as a
// transient failure. Errors carrying no classification are permanent.
func IsRetryable(err error) bool {
	var re RetryableError
	return errors.As(err, &re) && re.Retryable()
}
