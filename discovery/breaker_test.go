package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewCircuitBreaker()

	for i := 0; i < DefaultFailureThreshold-1; i++ {
		b.RecordFailure()
		require.NoError(t, b.Allow(), "failure %d must not open the breaker", i+1)
	}

	b.RecordFailure()
	assert.Equal(t, BreakerOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestCircuitBreaker_SuccessResetsCounter(t *testing.T) {
	b := NewCircuitBreaker(WithFailureThreshold(3))

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()

	// Two failures after the reset: still below threshold
	assert.Equal(t, BreakerClosed, b.State())
	assert.NoError(t, b.Allow())
}

func TestCircuitBreaker_RecoveryProbe(t *testing.T) {
	current := time.Now()
	b := NewCircuitBreaker(WithFailureThreshold(1), WithRecoveryTimeout(time.Minute))
	b.now = func() time.Time { return current }

	b.RecordFailure()
	require.Equal(t, BreakerOpen, b.State())
	require.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	t.Run("probe allowed after the recovery timeout", func(t *testing.T) {
		current = current.Add(2 * time.Minute)
		assert.NoError(t, b.Allow())
		assert.Equal(t, BreakerHalfOpen, b.State())
	})

	t.Run("probe success closes the breaker", func(t *testing.T) {
		b.RecordSuccess()
		assert.Equal(t, BreakerClosed, b.State())
		assert.NoError(t, b.Allow())
	})
}

func TestCircuitBreaker_ProbeFailureReopens(t *testing.T) {
	current := time.Now()
	b := NewCircuitBreaker(WithFailureThreshold(1), WithRecoveryTimeout(time.Minute))
	b.now = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(2 * time.Minute)
	require.NoError(t, b.Allow())
	require.Equal(t, BreakerHalfOpen, b.State())

	// The failed probe re-opens with a fresh timer
	b.RecordFailure()
	assert.Equal(t, BreakerOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	current = current.Add(30 * time.Second)
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen, "timer must restart on probe failure")
}

func TestCircuitBreaker_Reset(t *testing.T) {
	b := NewCircuitBreaker(WithFailureThreshold(1))
	b.RecordFailure()
	require.Equal(t, BreakerOpen, b.State())

	b.Reset()
	assert.Equal(t, BreakerClosed, b.State())
	assert.NoError(t, b.Allow())
}

func TestBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", BreakerClosed.String())
	assert.Equal(t, "open", BreakerOpen.String())
	assert.Equal(t, "half-open", BreakerHalfOpen.String())
	assert.Equal(t, "unknown", BreakerState(0).String())
}
