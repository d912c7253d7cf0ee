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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/peerscope/ai"
	"github.com/poiesic/peerscope/core"
	"github.com/poiesic/peerscope/store"
	"github.com/poiesic/peerscope/tools"
)

// Strategy labels reported on DiscoveryResult.
const (
	StrategyHybrid   = "hybrid"
	StrategyVector   = "vector"
	StrategyTools    = "tools"
	StrategyFallback = "fallback"
	StrategyFailed   = "failed"
)

const (
	// fallbackThreshold triggers the fallback phase when the working set is
	// smaller after the primary phases.
	fallbackThreshold = 5

	// vectorBoost multiplies the similarity of matches corroborated by the
	// vector store, capped at 1.0.
	vectorBoost = 1.10

	// Matches below lowConfidenceThreshold have their similarity scaled by
	// lowConfidencePenalty during scoring.
	lowConfidenceThreshold = 0.5
	lowConfidencePenalty   = 0.8
)

// Orchestrator sequences the discovery phases: vector-store lookup, parallel
// tool search, optional fallback search, scoring, filtering and ranking.
// Each phase is fault-isolated: a failing phase is recorded into the result's
// Errors and later phases still run. The orchestrator owns the circuit
// breaker gating the whole call.
type Orchestrator struct {
	registry *tools.Registry
	executor *Executor
	vectors  store.VectorStore
	embedder ai.Embedder
	fallback tools.FallbackSearcher
	breaker  *CircuitBreaker
	logger   *slog.Logger
	now      func() time.Time
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator) error

// WithVectorStore enables the vector-store phase.
func WithVectorStore(vectors store.VectorStore) OrchestratorOption {
	return func(o *Orchestrator) error {
		o.vectors = vectors
		return nil
	}
}

// WithEmbedder enables on-the-fly target embedding for stored companies that
// don't carry a vector yet.
func WithEmbedder(embedder ai.Embedder) OrchestratorOption {
	return func(o *Orchestrator) error {
		o.embedder = embedder
		return nil
	}
}

// WithFallbackSearcher enables the fallback phase.
func WithFallbackSearcher(fallback tools.FallbackSearcher) OrchestratorOption {
	return func(o *Orchestrator) error {
		o.fallback = fallback
		return nil
	}
}

// WithCircuitBreaker replaces the default breaker, e.g. to share one across
// orchestrators or tighten its thresholds.
func WithCircuitBreaker(breaker *CircuitBreaker) OrchestratorOption {
	return func(o *Orchestrator) error {
		if breaker != nil {
			o.breaker = breaker
		}
		return nil
	}
}

// WithOrchestratorLogger sets a custom logger.
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

// NewOrchestrator creates a discovery orchestrator. The registry and executor
// are required; the vector store, embedder and fallback searcher are optional
// and their phases are skipped when absent.
func NewOrchestrator(registry *tools.Registry, executor *Executor, opts ...OrchestratorOption) (*Orchestrator, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if executor == nil {
		return nil, ErrExecutorRequired
	}

	o := &Orchestrator{
		registry: registry,
		executor: executor,
		breaker:  NewCircuitBreaker(),
		logger:   slog.Default().With("component", "discovery_orchestrator"),
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Breaker returns the orchestrator-owned circuit breaker, e.g. for explicit
// reset by an operator surface.
func (o *Orchestrator) Breaker() *CircuitBreaker {
	return o.breaker
}

// Discover runs the full discovery sequence for the request.
//
// The only error returns are a pre-execution validation failure or
// ErrCircuitOpen; every other outcome, total failure included, is expressed
// as a DiscoveryResult value.
func (o *Orchestrator) Discover(ctx context.Context, req *core.DiscoveryRequest) (*core.DiscoveryResult, error) {
	return o.DiscoverWithMonitor(ctx, req, nil)
}

// DiscoverWithMonitor runs Discover with observation hooks. A nil monitor
// disables observation.
func (o *Orchestrator) DiscoverWithMonitor(ctx context.Context, req *core.DiscoveryRequest, monitor DiscoveryMonitor) (*core.DiscoveryResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := core.ValidateDiscoveryRequest(req); err != nil {
		return nil, err
	}
	if err := o.breaker.Allow(); err != nil {
		return nil, err
	}

	start := o.now()
	monitor.Start(req)
	o.logger.Info("discovery started", "company", req.CompanyName,
		"vector_store", req.UseVectorStore, "search_tools", req.UseSearchTools)

	result := &core.DiscoveryResult{
		QueryCompany: req.CompanyName,
		SourceTiming: make(map[core.Source]float64),
	}

	// Working set keyed by normalized name, with explicit insertion order so
	// scoring and ranking stay deterministic across runs.
	working := make(map[string]*core.CompanyMatch)
	var order []string

	// Target profile used for pairwise similarity. Enriched from the stored
	// record when the vector phase resolves the company.
	target := &core.CompanyMatch{Name: req.CompanyName}

	var vectorCount, toolCount, fallbackCount int

	// Phase 1: vector store
	if req.UseVectorStore && o.vectors != nil {
		phaseStart := o.now()
		matches, targetRecord, err := o.vectorPhase(ctx, req)
		result.SourceTiming[core.SourceVectorStore] = o.now().Sub(phaseStart).Seconds()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("vector store: %v", err))
			o.logger.Warn("vector phase degraded", "err", err)
		}
		if targetRecord != nil {
			target = targetProfile(targetRecord)
		}
		for _, match := range matches {
			o.mergeMatch(working, &order, match)
		}
		vectorCount = len(matches)
		monitor.AfterVectorPhase(matches)
	}

	// Phase 2: parallel tool search
	if req.UseSearchTools {
		var outputs map[core.Source]ToolOutput
		if req.Parallel {
			outputs = o.executor.Search(ctx, req.CompanyName)
		} else {
			outputs = o.executor.SearchSequential(ctx, req.CompanyName)
		}

		bySource := make(map[core.Source][]*core.CompanyMatch, len(outputs))
		for _, source := range sortedSources(outputs) {
			output := outputs[source]
			result.SourceTiming[source] = output.Elapsed.Seconds()
			if output.Err != nil {
				result.Errors = append(result.Errors, output.Err.Error())
				continue
			}
			bySource[source] = output.Matches
			for _, match := range output.Matches {
				o.mergeMatch(working, &order, match)
			}
			toolCount += len(output.Matches)
		}
		monitor.AfterToolPhase(bySource)
	}

	// Phase 3: fallback search when the primary phases under-deliver
	if len(working) < fallbackThreshold && o.fallback != nil {
		phaseStart := o.now()
		query := "companies similar to " + req.CompanyName
		raws, err := o.fallback.Search(ctx, query, req.MaxResults)
		result.SourceTiming[core.SourceFallback] = o.now().Sub(phaseStart).Seconds()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fallback search: %v", err))
			o.logger.Warn("fallback phase degraded", "err", err)
		} else {
			var matches []*core.CompanyMatch
			for _, raw := range raws {
				match := normalizeResult(raw, core.SourceFallback, query, o.now())
				if match == nil {
					continue
				}
				matches = append(matches, match)
				o.mergeMatch(working, &order, match)
			}
			fallbackCount = len(matches)
			monitor.AfterFallbackPhase(matches)
		}
	}

	// Phase 4: scoring
	scoringNow := o.now()
	scored := make([]*core.CompanyMatch, 0, len(order))
	for _, key := range order {
		match := working[key]

		// Matches without vector-store corroboration get a pairwise
		// similarity against the target profile; corroborated ones keep the
		// store's score and earn the boost.
		if _, fromVector := match.SourceAttribution[core.SourceVectorStore]; fromVector {
			match.SimilarityScore = math.Min(match.SimilarityScore*vectorBoost, 1.0)
		} else {
			match.SimilarityScore = Similarity(target, match)
		}

		match.ConfidenceScore = Confidence(match, req.CompanyName, o.registry, scoringNow)
		if match.ConfidenceScore < lowConfidenceThreshold {
			match.SimilarityScore *= lowConfidencePenalty
		}
		scored = append(scored, match)
	}
	monitor.AfterScoring(scored)

	// Phase 5: filter and rank
	final := make([]*core.CompanyMatch, 0, len(scored))
	for _, match := range scored {
		if match.SimilarityScore < req.MinSimilarityScore {
			continue
		}
		if !matchesRequestFilters(req, match) {
			continue
		}
		final = append(final, match)
	}
	slices.SortFunc(final, o.compareMatches)
	if len(final) > req.MaxResults {
		final = final[:req.MaxResults]
	}

	result.Matches = final
	result.TotalMatches = len(final)
	result.Strategy = strategyLabel(vectorCount, toolCount, fallbackCount)
	o.computeQualityMetrics(result, scoringNow)
	result.ExecutionTimeSeconds = o.now().Sub(start).Seconds()

	if result.Strategy == StrategyFailed && len(result.Errors) > 0 {
		o.breaker.RecordFailure()
	} else {
		o.breaker.RecordSuccess()
	}

	o.logger.Info("discovery finished", "company", req.CompanyName,
		"strategy", result.Strategy, "matches", result.TotalMatches,
		"errors", len(result.Errors))
	monitor.Finish(result)
	return result, nil
}

// vectorPhase resolves the target company and runs a similarity search
// against its embedding. The resolved record is returned even on later
// errors so the caller can still use it as the scoring target profile.
func (o *Orchestrator) vectorPhase(ctx context.Context, req *core.DiscoveryRequest) ([]*core.CompanyMatch, *store.CompanyRecord, error) {
	record, err := o.vectors.FindByName(ctx, req.CompanyName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, fmt.Errorf("target %q not stored, degrading to tool search", req.CompanyName)
		}
		return nil, nil, err
	}

	vector := record.Vector
	if len(vector) == 0 {
		if o.embedder == nil {
			return nil, record, fmt.Errorf("target %q has no embedding", req.CompanyName)
		}
		vector, err = o.embedder.EmbedText(ctx, record.Name+": "+record.Description)
		if err != nil {
			return nil, record, fmt.Errorf("embedding target: %w", err)
		}
	}

	neighbors, err := o.vectors.SimilaritySearch(ctx, vector, req.MaxResults, metadataFilter(req))
	if err != nil {
		return nil, record, err
	}

	discoveredAt := o.now()
	matches := make([]*core.CompanyMatch, 0, len(neighbors))
	for _, neighbor := range neighbors {
		// The target itself always comes back as its own best neighbor.
		if neighbor.Record.Id == record.Id {
			continue
		}
		matches = append(matches, &core.CompanyMatch{
			Name:            neighbor.Record.Name,
			Domain:          neighbor.Record.Domain,
			Description:     neighbor.Record.Description,
			Industry:        neighbor.Record.Industry,
			BusinessModel:   neighbor.Record.BusinessModel,
			EmployeeCount:   neighbor.Record.EmployeeCount,
			Location:        neighbor.Record.Location,
			SimilarityScore: float64(neighbor.Score),
			Source:          core.SourceVectorStore,
			DiscoveredAt:    discoveredAt,
			SearchQuery:     req.CompanyName,
		})
	}
	return matches, record, nil
}

// mergeMatch folds a match into the working set. First sighting of a name
// wins as the base record; later sightings add their source's reliability
// weight to the attribution, retain the highest similarity, and fill fields
// the base is missing.
func (o *Orchestrator) mergeMatch(working map[string]*core.CompanyMatch, order *[]string, match *core.CompanyMatch) {
	weight := sourceReliability(match.Source, o.registry)
	key := match.NormalizedName()

	existing, ok := working[key]
	if !ok {
		if match.SourceAttribution == nil {
			match.SourceAttribution = make(map[core.Source]float64, 1)
		}
		match.SourceAttribution[match.Source] += weight
		working[key] = match
		*order = append(*order, key)
		return
	}

	existing.SourceAttribution[match.Source] += weight
	if match.SimilarityScore > existing.SimilarityScore {
		existing.SimilarityScore = match.SimilarityScore
	}
	if existing.Domain == "" {
		existing.Domain = match.Domain
	}
	if existing.Description == "" {
		existing.Description = match.Description
	}
	if existing.Industry == "" {
		existing.Industry = match.Industry
	}
	if existing.BusinessModel == "" {
		existing.BusinessModel = match.BusinessModel
	}
	if existing.EmployeeCount == 0 {
		existing.EmployeeCount = match.EmployeeCount
	}
	if existing.Location == "" {
		existing.Location = match.Location
	}
}

// compareMatches is the ranking order: similarity×confidence descending,
// ties broken by source reliability descending, then name ascending.
func (o *Orchestrator) compareMatches(a, b *core.CompanyMatch) int {
	scoreA := a.SimilarityScore * a.ConfidenceScore
	scoreB := b.SimilarityScore * b.ConfidenceScore
	if scoreA != scoreB {
		if scoreA > scoreB {
			return -1
		}
		return 1
	}

	weightA := sourceReliability(a.Source, o.registry)
	weightB := sourceReliability(b.Source, o.registry)
	if weightA != weightB {
		if weightA > weightB {
			return -1
		}
		return 1
	}

	return strings.Compare(a.NormalizedName(), b.NormalizedName())
}

// computeQualityMetrics fills the aggregate quality scores over the final
// match set. All three stay in [0, 1]; an empty result zeroes them.
func (o *Orchestrator) computeQualityMetrics(result *core.DiscoveryResult, now time.Time) {
	if len(result.Matches) == 0 {
		return
	}

	distinct := make(map[core.Source]bool)
	var confidenceSum, freshnessSum float64
	for _, match := range result.Matches {
		confidenceSum += match.ConfidenceScore
		freshnessSum += freshnessFactor(now.Sub(match.DiscoveredAt))
		for source := range match.SourceAttribution {
			distinct[source] = true
		}
	}

	count := float64(len(result.Matches))
	result.AverageConfidence = confidenceSum / count
	result.FreshnessScore = freshnessSum / count

	// Possible sources: the vector store, every registered tool, and the
	// fallback searcher.
	possible := 1 + o.registry.Count() + 1
	result.CoverageScore = math.Min(float64(len(distinct))/float64(possible), 1.0)
}

// strategyLabel names which phases actually produced candidates.
func strategyLabel(vectorCount, toolCount, fallbackCount int) string {
	switch {
	case vectorCount > 0 && toolCount > 0:
		return StrategyHybrid
	case vectorCount > 0:
		return StrategyVector
	case toolCount > 0:
		return StrategyTools
	case fallbackCount > 0:
		return StrategyFallback
	default:
		return StrategyFailed
	}
}

// targetProfile converts the resolved target record into the match shape the
// scorer compares candidates against.
func targetProfile(record *store.CompanyRecord) *core.CompanyMatch {
	return &core.CompanyMatch{
		Name:          record.Name,
		Domain:        record.Domain,
		Description:   record.Description,
		Industry:      record.Industry,
		BusinessModel: record.BusinessModel,
		EmployeeCount: record.EmployeeCount,
		Location:      record.Location,
	}
}

// metadataFilter converts active request filters into a store filter, or nil
// when none are set.
func metadataFilter(req *core.DiscoveryRequest) *store.MetadataFilter {
	if req.IndustryFilter == "" && req.BusinessModelFilter == "" &&
		req.LocationFilter == "" && req.MinEmployees == 0 && req.MaxEmployees == 0 {
		return nil
	}
	return &store.MetadataFilter{
		Industry:      req.IndustryFilter,
		BusinessModel: req.BusinessModelFilter,
		Location:      req.LocationFilter,
		MinEmployees:  req.MinEmployees,
		MaxEmployees:  req.MaxEmployees,
	}
}

// matchesRequestFilters reports whether a match satisfies the request's
// active filters. Matches from non-store phases are filtered here since the
// store filter never saw them.
func matchesRequestFilters(req *core.DiscoveryRequest, match *core.CompanyMatch) bool {
	if req.IndustryFilter != "" && !strings.EqualFold(req.IndustryFilter, match.Industry) {
		return false
	}
	if req.BusinessModelFilter != "" && !strings.EqualFold(req.BusinessModelFilter, match.BusinessModel) {
		return false
	}
	if req.LocationFilter != "" &&
		!strings.Contains(strings.ToLower(match.Location), strings.ToLower(req.LocationFilter)) {
		return false
	}
	if req.MinEmployees > 0 && match.EmployeeCount < req.MinEmployees {
		return false
	}
	if req.MaxEmployees > 0 && match.EmployeeCount > req.MaxEmployees {
		return false
	}
	return true
}

// sortedSources returns the output map's keys in deterministic order.
func sortedSources(outputs map[core.Source]ToolOutput) []core.Source {
	sources := make([]core.Source, 0, len(outputs))
	for source := range outputs {
		sources = append(sources, source)
	}
	slices.Sort(sources)
	return sources
}
