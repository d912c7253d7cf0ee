package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/peerscope/core"
	"github.com/poiesic/peerscope/tools"
)

const (
	// DefaultConcurrency is the global ceiling on simultaneous tool tasks.
	DefaultConcurrency = 5

	// DefaultPerToolTimeout bounds one tool task, covering all of its
	// generated queries. A timeout is treated like any other tool error.
	DefaultPerToolTimeout = 15 * time.Second

	// DefaultResultsPerQuery bounds how many records a tool may return for
	// one query.
	DefaultResultsPerQuery = 10
)

// ToolOutput is one tool task's published output.
type ToolOutput struct {
	Matches []*core.CompanyMatch
	Elapsed time.Duration
	Err     error
}

// Executor fans one search out over all available tools, one concurrent task
// per tool, bounded by a worker pool. Each task generates queries, runs them
// against its tool, and publishes normalized, per-tool-deduplicated matches.
// A failing or timed-out tool is isolated: it publishes zero matches and is
// marked unhealthy in the registry, without delaying sibling tasks.
type Executor struct {
	registry       *tools.Registry
	queries        *QueryGenerator
	pool           *ants.Pool
	perToolTimeout time.Duration
	perQueryLimit  int
	logger         *slog.Logger
	now            func() time.Time
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor) error

// WithConcurrency sets the ceiling on simultaneous tool tasks.
// Values below 1 are raised to 1.
func WithConcurrency(n int) ExecutorOption {
	return func(e *Executor) error {
		if n < 1 {
			n = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithPerToolTimeout sets the timeout applied to each whole tool task.
func WithPerToolTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) error {
		if d > 0 {
			e.perToolTimeout = d
		}
		return nil
	}
}

// WithResultsPerQuery bounds how many records each query may return.
func WithResultsPerQuery(n int) ExecutorOption {
	return func(e *Executor) error {
		if n > 0 {
			e.perQueryLimit = n
		}
		return nil
	}
}

// WithExecutorLogger sets a custom logger.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// NewExecutor creates a parallel search executor over the given registry.
func NewExecutor(registry *tools.Registry, queries *QueryGenerator, opts ...ExecutorOption) (*Executor, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if queries == nil {
		return nil, ErrQueryGeneratorRequired
	}

	pool, err := ants.NewPool(DefaultConcurrency)
	if err != nil {
		return nil, err
	}

	e := &Executor{
		registry:       registry,
		queries:        queries,
		pool:           pool,
		perToolTimeout: DefaultPerToolTimeout,
		perQueryLimit:  DefaultResultsPerQuery,
		logger:         slog.Default().With("component", "search_executor"),
		now:            time.Now,
	}
	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}
	return e, nil
}

// Search runs one discovery fan-out for the company across all currently
// healthy tools and returns the published output per source. Tools whose
// tasks had not completed when ctx was cancelled are absent from the map.
func (e *Executor) Search(ctx context.Context, companyName string) map[core.Source]ToolOutput {
	ids := e.registry.Available()

	var mu sync.Mutex
	published := make(map[core.Source]ToolOutput, len(ids))

	var wg sync.WaitGroup
	for _, id := range ids {
		tool, ok := e.registry.Get(id)
		if !ok {
			continue
		}

		id := id
		wg.Add(1)
		submitErr := e.pool.Submit(func() {
			defer wg.Done()
			output := e.runTool(ctx, id, tool, companyName)

			// Publish only if the task finished before cancellation was
			// observed; results from abandoned tasks are discarded.
			if ctx.Err() != nil {
				return
			}
			mu.Lock()
			published[core.ToolSource(id)] = output
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			e.logger.Error("failed to schedule tool task", "tool", id, "err", submitErr)
			mu.Lock()
			published[core.ToolSource(id)] = ToolOutput{Err: submitErr}
			mu.Unlock()
		}
	}

	// Wait for all scheduled tasks, but abandon them immediately on
	// cancellation. Completed tasks have already published.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	// Snapshot under the mutex: on cancellation an abandoned task may still
	// be running while the caller reads the result.
	mu.Lock()
	defer mu.Unlock()
	snapshot := make(map[core.Source]ToolOutput, len(published))
	for source, output := range published {
		snapshot[source] = output
	}
	return snapshot
}

// SearchSequential is the non-parallel variant of Search: tool tasks run one
// at a time on the calling goroutine. Isolation semantics are identical.
func (e *Executor) SearchSequential(ctx context.Context, companyName string) map[core.Source]ToolOutput {
	published := make(map[core.Source]ToolOutput)
	for _, id := range e.registry.Available() {
		tool, ok := e.registry.Get(id)
		if !ok {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		published[core.ToolSource(id)] = e.runTool(ctx, id, tool, companyName)
	}
	return published
}

// runTool executes one tool task: generate queries, run each against the
// tool, normalize and deduplicate results. Any query error fails the whole
// task: the tool reports zero matches and is marked unhealthy.
func (e *Executor) runTool(ctx context.Context, toolID string, tool tools.SearchTool, companyName string) ToolOutput {
	start := e.now()

	tctx, cancel := context.WithTimeout(ctx, e.perToolTimeout)
	defer cancel()

	queries := e.queries.Generate(tctx, companyName, toolID, "")

	seen := make(map[string]bool)
	var matches []*core.CompanyMatch
	for _, query := range queries {
		results, err := tool.Search(tctx, query, tools.SearchOptions{MaxResults: e.perQueryLimit})
		if err != nil {
			if ctx.Err() != nil {
				// Overall cancellation, not the tool's fault.
				return ToolOutput{Elapsed: e.now().Sub(start), Err: ctx.Err()}
			}
			e.registry.MarkUnhealthy(toolID, err.Error())
			e.logger.Warn("tool task failed", "tool", toolID, "query", query, "err", err)
			return ToolOutput{
				Elapsed: e.now().Sub(start),
				Err:     fmt.Errorf("tool %s: %w", toolID, err),
			}
		}

		for _, raw := range results {
			match := normalizeResult(raw, core.ToolSource(toolID), query, e.now())
			if match == nil {
				continue
			}
			key := match.NormalizedName()
			if seen[key] {
				continue
			}
			seen[key] = true
			matches = append(matches, match)
		}
	}

	e.logger.Debug("tool task completed",
		"tool", toolID, "queries", len(queries), "matches", len(matches))
	return ToolOutput{Matches: matches, Elapsed: e.now().Sub(start)}
}

// normalizeResult converts a tool-native record into a CompanyMatch.
// Records without a usable name are dropped.
func normalizeResult(raw tools.RawResult, source core.Source, query string, discoveredAt time.Time) *core.CompanyMatch {
	if core.NormalizeName(raw.Name) == "" {
		return nil
	}
	return &core.CompanyMatch{
		Name:          raw.Name,
		Domain:        raw.Domain,
		Description:   raw.Description,
		Industry:      raw.Industry,
		BusinessModel: raw.BusinessModel,
		EmployeeCount: raw.EmployeeCount,
		Location:      raw.Location,
		Source:        source,
		DiscoveredAt:  discoveredAt,
		SearchQuery:   query,
	}
}

// Release releases the worker pool. The executor should not be used after
// calling Release.
func (e *Executor) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}
