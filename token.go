package captcha

import (
	"sync"
	"sync/atomic"
	"time"
)

// Token is a shareable one-shot cancellation signal for a solve operation.
//
// Cancellation is cooperative: it never interrupts a provider call already in
// flight, it only stops the next scheduled sleep or poll. Hand the same
// *Token to the solver and to whoever may cancel; the solver records elapsed
// time and poll count into it, so both stay readable through any holder after
// the run ends. Use one token per solve operation.
type Token struct {
	cancel   sync.Once
	done     chan struct{}
	started  atomic.Int64 // unix nanos, 0 until a run starts
	finished atomic.Int64 // unix nanos, 0 until the run ends
	polls    atomic.Uint32
}

// NewToken creates an uncancelled token.
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Cancel requests cancellation. Idempotent and safe to call from any
// goroutine; only the first call has an effect.
func (t *Token) Cancel() {
	t.cancel.Do(func() { close(t.done) })
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed on cancellation, for racing against timers.
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Elapsed returns how long the solve run using this token has been going,
// frozen once the run finishes. Zero before any run starts.
func (t *Token) Elapsed() time.Duration {
	start := t.started.Load()
	if start == 0 {
		return 0
	}
	if end := t.finished.Load(); end != 0 {
		return time.Duration(end - start)
	}
	return time.Duration(time.Now().UnixNano() - start)
}

// PollCount returns the number of poll round trips performed so far.
func (t *Token) PollCount() int {
	return int(t.polls.Load())
}

func (t *Token) markStart(now time.Time)  { t.started.Store(now.UnixNano()) }
func (t *Token) markFinish(now time.Time) { t.finished.Store(now.UnixNano()) }
func (t *Token) recordPoll()              { t.polls.Add(1) }
