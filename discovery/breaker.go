// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package discovery

import (
	"log/slog"
	"sync"
	"time"
)

// BreakerState is the state of the circuit breaker.
type BreakerState int

const (
	// BreakerClosed means calls flow normally.
	BreakerClosed BreakerState = iota + 1
	// BreakerOpen means calls fail immediately with ErrCircuitOpen.
	BreakerOpen
	// BreakerHalfOpen means one probe call is allowed through; its outcome
	// decides whether the breaker closes or re-opens.
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	// DefaultFailureThreshold is the number of consecutive failures that
	// trips the breaker.
	DefaultFailureThreshold = 5
	// DefaultRecoveryTimeout is how long the breaker stays Open before
	// allowing a probe call.
	DefaultRecoveryTimeout = 60 * time.Second
)

// CircuitBreaker gates the whole discovery call. After failureThreshold
// consecutive failures it opens and rejects calls until recoveryTimeout
// elapses, then lets one probe through.
//
// The breaker is owned by the orchestrator but safe for concurrent use.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	recoveryTimeout  time.Duration

	state               BreakerState
	consecutiveFailures int
	openedAt            time.Time

	logger *slog.Logger
	now    func() time.Time
}

// BreakerOption configures a CircuitBreaker.
type BreakerOption func(*CircuitBreaker)

// WithFailureThreshold sets how many consecutive failures trip the breaker.
// Values below 1 are ignored.
func WithFailureThreshold(n int) BreakerOption {
	return func(b *CircuitBreaker) {
		if n >= 1 {
			b.failureThreshold = n
		}
	}
}

// WithRecoveryTimeout sets how long the breaker stays Open before a probe.
func WithRecoveryTimeout(d time.Duration) BreakerOption {
	return func(b *CircuitBreaker) {
		if d > 0 {
			b.recoveryTimeout = d
		}
	}
}

// NewCircuitBreaker creates a closed breaker with the default threshold and
// recovery timeout.
func NewCircuitBreaker(opts ...BreakerOption) *CircuitBreaker {
	b := &CircuitBreaker{
		failureThreshold: DefaultFailureThreshold,
		recoveryTimeout:  DefaultRecoveryTimeout,
		state:            BreakerClosed,
		logger:           slog.Default().With("component", "circuit_breaker"),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Allow reports whether a call may proceed. When the breaker is Open and the
// recovery timeout has elapsed it transitions to HalfOpen and lets the call
// through as a probe; otherwise it returns ErrCircuitOpen.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != BreakerOpen {
		return nil
	}
	if b.now().Sub(b.openedAt) < b.recoveryTimeout {
		return ErrCircuitOpen
	}

	b.state = BreakerHalfOpen
	b.logger.Info("circuit breaker half-open, allowing probe call")
	return nil
}

// RecordSuccess resets the failure counter and closes the breaker.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != BreakerClosed {
		b.logger.Info("circuit breaker closed", "previous_state", b.state.String())
	}
	b.state = BreakerClosed
	b.consecutiveFailures = 0
}

// RecordFailure counts a failure. The breaker opens once the consecutive
// count reaches the threshold, or immediately when a HalfOpen probe fails.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures++
	if b.state == BreakerHalfOpen || b.consecutiveFailures >= b.failureThreshold {
		b.state = BreakerOpen
		b.openedAt = b.now()
		b.logger.Warn("circuit breaker opened",
			"consecutive_failures", b.consecutiveFailures,
			"recovery_timeout", b.recoveryTimeout)
	}
}

// Reset closes the breaker and zeroes its counters.
func (b *CircuitBreaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = BreakerClosed
	b.consecutiveFailures = 0
	b.openedAt = time.Time{}
}

// State returns the current breaker state.
func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
