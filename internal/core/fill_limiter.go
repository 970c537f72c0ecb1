package core

// fill_limiter.go implements admission control for fills.
//
// Every fill rewrites a whole story, so fills against one document are
// serialized through a semaphore. When all slots are occupied, new requests
// wait up to maxWait before failing with ErrTooManyFills.
//
// WaitForDrain blocks until all active fills complete, for graceful shutdown.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyFills is returned when no fill slot frees up within the wait
// timeout. Clients should retry after a short delay.
var ErrTooManyFills = errors.New("too many fills in progress, please try again later")

// DefaultMaxConcurrentFills is the default number of parallel fills.
const DefaultMaxConcurrentFills = 1

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// FillLimiter controls concurrent fills using a semaphore.
type FillLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewFillLimiter creates a limiter that allows at most maxConcurrent
// simultaneous fills. Callers that cannot acquire a slot within maxWait
// receive ErrTooManyFills.
func NewFillLimiter(maxConcurrent int, maxWait time.Duration) *FillLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentFills
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &FillLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a fill slot.
// The caller MUST call Release() when the fill completes (use defer).
func (l *FillLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Distinguish caller cancellation from our own wait timeout.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyFills
	}
}

// Release frees a slot taken by Acquire.
func (l *FillLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of fills in progress.
func (l *FillLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no fill is active or ctx is done.
func (l *FillLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// FillLimiterStatus is a snapshot of the limiter.
type FillLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *FillLimiter) Status() FillLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return FillLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
