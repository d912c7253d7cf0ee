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


package peerscope

import (
	"context"
	"log/slog"

	"github.com/poiesic/peerscope/ai"
	"github.com/poiesic/peerscope/ai/openai"
	"github.com/poiesic/peerscope/core"
	"github.com/poiesic/peerscope/discovery"
	"github.com/poiesic/peerscope/store"
	"github.com/poiesic/peerscope/store/badger"
	"github.com/poiesic/peerscope/tools"
)

// Engine wires the vector store, AI provider, tool registry and discovery
// orchestrator into one handle with a single lifecycle.
type Engine struct {
	vectors      *badger.Store
	provider     ai.Provider
	registry     *tools.Registry
	executor     *discovery.Executor
	orchestrator *discovery.Orchestrator
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
	fallback tools.FallbackSearcher
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects an already-constructed AI provider instead of building
// one from the config. The engine takes ownership and closes it.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemoryStore keeps the vector store entirely in memory. The filePath
// argument to NewEngine is ignored.
func WithInMemoryStore() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithFallback sets the generic web-search collaborator used when the primary
// discovery phases under-deliver.
func WithFallback(fallback tools.FallbackSearcher) EngineOption {
	return func(o *engineOptions) {
		o.fallback = fallback
	}
}

// NewEngine opens the vector store at filePath and assembles the discovery
// pipeline around it.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	vectors, err := badger.Open(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			vectors.Close()
			return nil, err
		}
	}

	registry := tools.NewRegistry()
	queries := discovery.NewQueryGenerator(provider.TextGenerator())

	executor, err := discovery.NewExecutor(registry, queries)
	if err != nil {
		provider.Close()
		vectors.Close()
		return nil, err
	}

	orchestratorOpts := []discovery.OrchestratorOption{
		discovery.WithVectorStore(vectors),
		discovery.WithEmbedder(provider.Embedder()),
	}
	if options.fallback != nil {
		orchestratorOpts = append(orchestratorOpts, discovery.WithFallbackSearcher(options.fallback))
	}

	orchestrator, err := discovery.NewOrchestrator(registry, executor, orchestratorOpts...)
	if err != nil {
		executor.Release()
		provider.Close()
		vectors.Close()
		return nil, err
	}

	return &Engine{
		vectors:      vectors,
		provider:     provider,
		registry:     registry,
		executor:     executor,
		orchestrator: orchestrator,
		logger:       slog.Default(),
	}, nil
}

// RegisterTool adds a pluggable search tool to the discovery fan-out.
func (e *Engine) RegisterTool(id string, tool tools.SearchTool, opts ...tools.RegisterOption) {
	e.registry.Register(id, tool, opts...)
}

// Registry returns the tool registry, e.g. for health inspection.
func (e *Engine) Registry() *tools.Registry {
	return e.registry
}

// Discover runs the full discovery sequence for the request.
func (e *Engine) Discover(ctx context.Context, req *core.DiscoveryRequest) (*core.DiscoveryResult, error) {
	return e.orchestrator.Discover(ctx, req)
}

// DiscoverWithMonitor runs Discover with observation hooks.
func (e *Engine) DiscoverWithMonitor(ctx context.Context, req *core.DiscoveryRequest, monitor discovery.DiscoveryMonitor) (*core.DiscoveryResult, error) {
	return e.orchestrator.DiscoverWithMonitor(ctx, req, monitor)
}

// Breaker returns the orchestrator's circuit breaker for explicit reset.
func (e *Engine) Breaker() *discovery.CircuitBreaker {
	return e.orchestrator.Breaker()
}

// Seed stores company records, embedding descriptions for records that don't
// carry a vector yet.
func (e *Engine) Seed(ctx context.Context, records ...*store.CompanyRecord) ([]*store.CompanyRecord, error) {
	var missing []*store.CompanyRecord
	var texts []string
	for _, record := range records {
		if len(record.Vector) == 0 {
			missing = append(missing, record)
			texts = append(texts, record.Name+": "+record.Description)
		}
	}

	if len(missing) > 0 {
		vectors, err := e.provider.Embedder().EmbedTexts(ctx, texts)
		if err != nil {
			return nil, err
		}
		for i, record := range missing {
			record.Vector = vectors[i]
		}
	}

	return e.vectors.AddCompanies(ctx, records...)
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	e.executor.Release()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.vectors.Close(); err != nil {
		e.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}
