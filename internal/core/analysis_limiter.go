package core

// analysis_limiter.go bounds how many analyses run at once.
//
// An analysis holds a whole staged table in memory and may wait on the rate
// engine, so the limiter caps parallel work with a semaphore. A request that
// cannot get a slot within maxWait fails with ErrTooManyAnalyses. Shutdown
// calls WaitForDrain so in-flight analyses finish before the process exits.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyAnalyses is returned when every slot stayed busy for the whole wait.
var ErrTooManyAnalyses = errors.New("too many analyses in progress, please try again later")

// DefaultMaxConcurrentAnalyses is the default limit for parallel analyses.
const DefaultMaxConcurrentAnalyses = 5

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// drainPollInterval is how often WaitForDrain checks the active count.
const drainPollInterval = 50 * time.Millisecond

// AnalysisLimiter is a counting semaphore with a bounded wait.
type AnalysisLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewAnalysisLimiter allows at most maxConcurrent analyses at once.
// Non-positive arguments fall back to the package defaults.
func NewAnalysisLimiter(maxConcurrent int, maxWait time.Duration) *AnalysisLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentAnalyses
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &AnalysisLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire waits for a slot. The caller must Release on success.
// Returns ctx.Err() if ctx ends first, ErrTooManyAnalyses if maxWait does.
func (l *AnalysisLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyAnalyses
	}
}

// Release returns a slot taken by Acquire.
func (l *AnalysisLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// ActiveCount returns the number of analyses holding a slot.
func (l *AnalysisLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *AnalysisLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *AnalysisLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no analysis holds a slot or ctx ends.
func (l *AnalysisLimiter) WaitForDrain(ctx context.Context) error {
	if l.ActiveCount() == 0 {
		return nil
	}

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// LimiterStatus is a point-in-time view of the limiter.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *AnalysisLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: l.MaxConcurrent(),
	}
}
