package tools

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTool is a minimal SearchTool for registry tests.
type stubTool struct{}

func (stubTool) Search(ctx context.Context, query string, opts SearchOptions) ([]RawResult, error) {
	return nil, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register("crunchbase", stubTool{})

	tool, ok := r.Get("crunchbase")
	require.True(t, ok)
	assert.NotNil(t, tool)

	_, ok = r.Get("unknown")
	assert.False(t, ok)

	assert.Equal(t, 1, r.Count())
}

func TestRegistry_Available(t *testing.T) {
	r := NewRegistry()
	r.Register("ddg", stubTool{})
	r.Register("crunchbase", stubTool{})
	r.Register("linkedin", stubTool{})

	// Sorted for deterministic iteration
	assert.Equal(t, []string{"crunchbase", "ddg", "linkedin"}, r.Available())

	r.MarkUnhealthy("ddg", "timeout")
	assert.Equal(t, []string{"crunchbase", "linkedin"}, r.Available())
}

func TestRegistry_Reliability(t *testing.T) {
	r := NewRegistry()
	r.Register("crunchbase", stubTool{}, WithReliability(0.9))
	r.Register("ddg", stubTool{})

	assert.Equal(t, 0.9, r.Reliability("crunchbase"))
	assert.Equal(t, DefaultReliability, r.Reliability("ddg"))
	assert.Equal(t, DefaultReliability, r.Reliability("unknown"))

	t.Run("clamped", func(t *testing.T) {
		r.Register("bad", stubTool{}, WithReliability(3.0))
		assert.Equal(t, 1.0, r.Reliability("bad"))
	})
}

func TestRegistry_MarkUnhealthy(t *testing.T) {
	r := NewRegistry()
	r.Register("ddg", stubTool{})

	r.MarkUnhealthy("ddg", "connection refused")

	failedAt, unhealthy := r.LastFailure("ddg")
	require.True(t, unhealthy)
	assert.False(t, failedAt.IsZero())

	// Marking an unknown tool is a no-op
	r.MarkUnhealthy("unknown", "whatever")

	r.MarkHealthy("ddg")
	_, unhealthy = r.LastFailure("ddg")
	assert.False(t, unhealthy)
}

func TestRegistry_HealthCheck(t *testing.T) {
	r := NewRegistry()
	r.Register("ddg", stubTool{})
	r.Register("crunchbase", stubTool{})

	current := time.Now()
	r.now = func() time.Time { return current }

	r.MarkUnhealthy("ddg", "timeout")
	r.MarkUnhealthy("crunchbase", "timeout")

	t.Run("nothing recovers before the window", func(t *testing.T) {
		assert.Empty(t, r.HealthCheck(time.Minute))
	})

	t.Run("tools recover after the window", func(t *testing.T) {
		current = current.Add(2 * time.Minute)
		recovered := r.HealthCheck(time.Minute)
		assert.Equal(t, []string{"crunchbase", "ddg"}, recovered)
		assert.Len(t, r.Available(), 2)
	})
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	r.Register("a", stubTool{})
	r.Register("b", stubTool{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.MarkUnhealthy("a", "concurrent failure")
			r.Available()
		}()
		go func() {
			defer wg.Done()
			r.MarkHealthy("a")
			r.Reliability("b")
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, r.Count())
}
