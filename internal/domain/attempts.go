package domain

import (
	"context"
	"sync"
)

type attemptLogKey struct{}

// AttemptFailure describes one failed credential attempt.
type AttemptFailure struct {
	Attempt int
	Reason  string
	HasNext bool
}

// AttemptLog collects failed attempts for a single request.
// The handler puts it into the context, the resilience layer appends,
// the handler reads it back for the response.
type AttemptLog struct {
	mu       sync.Mutex
	failures []AttemptFailure
}

// NewContextWithAttemptLog returns a context carrying a fresh attempt log.
func NewContextWithAttemptLog(ctx context.Context) (context.Context, *AttemptLog) {
	l := &AttemptLog{}
	return context.WithValue(ctx, attemptLogKey{}, l), l
}

// AttemptLogFromContext extracts the attempt log. Returns nil if not set.
func AttemptLogFromContext(ctx context.Context) *AttemptLog {
	l, _ := ctx.Value(attemptLogKey{}).(*AttemptLog)
	return l
}

// Add records a failure.
func (l *AttemptLog) Add(f AttemptFailure) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.failures = append(l.failures, f)
	l.mu.Unlock()
}

// Failures returns a copy of the recorded failures.
func (l *AttemptLog) Failures() []AttemptFailure {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AttemptFailure, len(l.failures))
	copy(out, l.failures)
	return out
}
