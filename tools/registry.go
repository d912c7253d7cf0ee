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


package tools

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// HealthState is the health of a registered tool.
type HealthState int

const (
	// Healthy means the tool is eligible for search tasks.
	Healthy HealthState = iota + 1
	// Unhealthy means the tool failed recently and is excluded until it recovers.
	Unhealthy
)

// DefaultReliability is the source reliability weight assigned to tools that
// don't supply their own at registration.
const DefaultReliability = 0.8

// entry tracks one registered tool and its health.
type entry struct {
	tool        SearchTool
	state       HealthState
	lastFailure time.Time
	reliability float64
}

// Registry tracks pluggable search tools and per-tool health.
// All methods are safe for concurrent use: multiple in-flight search tasks
// may report failures at the same time.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	logger  *slog.Logger
	now     func() time.Time
}

// RegisterOption configures a tool registration.
type RegisterOption func(*entry)

// WithReliability sets the source reliability weight for a tool.
// Values are clamped to [0, 1].
func WithReliability(weight float64) RegisterOption {
	return func(e *entry) {
		if weight < 0 {
			weight = 0
		}
		if weight > 1 {
			weight = 1
		}
		e.reliability = weight
	}
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		logger:  slog.Default(),
		now:     time.Now,
	}
}

// Register adds a tool under the given id, replacing any previous
// registration. Newly registered tools start Healthy.
func (r *Registry) Register(id string, tool SearchTool, opts ...RegisterOption) {
	e := &entry{
		tool:        tool,
		state:       Healthy,
		reliability: DefaultReliability,
	}
	for _, opt := range opts {
		opt(e)
	}

	r.mu.Lock()
	r.entries[id] = e
	r.mu.Unlock()
}

// Available returns the ids of all currently healthy tools, sorted for
// deterministic iteration.
func (r *Registry) Available() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.entries))
	for id, e := range r.entries {
		if e.state == Healthy {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Get returns the tool registered under id, or false if absent.
// Unhealthy tools are still returned; callers use Available to pick
// eligible tools.
func (r *Registry) Get(id string) (SearchTool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.tool, true
}

// Count returns the number of registered tools, healthy or not.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reliability returns the source reliability weight for a tool.
// Unknown tools get DefaultReliability.
func (r *Registry) Reliability(id string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		return e.reliability
	}
	return DefaultReliability
}

// MarkUnhealthy records a failure for the tool, excluding it from Available
// until it recovers.
func (r *Registry) MarkUnhealthy(id, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.state = Unhealthy
	e.lastFailure = r.now()
	r.logger.Warn("search tool marked unhealthy", "tool", id, "reason", reason)
}

// MarkHealthy flips the tool back to Healthy, e.g. after a successful probe.
func (r *Registry) MarkHealthy(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.state = Healthy
		e.lastFailure = time.Time{}
	}
}

// LastFailure returns the time of the tool's most recent failure and whether
// the tool is currently unhealthy.
func (r *Registry) LastFailure(id string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.state != Unhealthy {
		return time.Time{}, false
	}
	return e.lastFailure, true
}

// HealthCheck flips unhealthy tools whose last failure is older than
// recoveryAfter back to Healthy, giving them another chance on the next run.
// Returns the ids of recovered tools.
func (r *Registry) HealthCheck(recoveryAfter time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var recovered []string
	cutoff := r.now().Add(-recoveryAfter)
	for id, e := range r.entries {
		if e.state == Unhealthy && e.lastFailure.Before(cutoff) {
			e.state = Healthy
			e.lastFailure = time.Time{}
			recovered = append(recovered, id)
		}
	}
	sort.Strings(recovered)

	if len(recovered) > 0 {
		r.logger.Info("search tools recovered", "tools", recovered)
	}
	return recovered
}
