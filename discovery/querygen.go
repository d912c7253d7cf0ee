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
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/peerscope/ai"
)

const (
	// maxGeneratedQueries caps how many queries one tool receives per run.
	maxGeneratedQueries = 3

	// generationMaxTokens bounds the provider completion; three short query
	// strings never need more.
	generationMaxTokens = 200

	// DefaultGenerationTimeout bounds each provider call. Query generation
	// must stay cheap relative to the searches it feeds.
	DefaultGenerationTimeout = 10 * time.Second
)

// QueryGenerator turns a company name into tool-tailored search query
// strings via the text-generation provider. It fails soft: any provider
// failure or malformed output degrades to a deterministic fallback list, so
// Generate never returns an error.
type QueryGenerator struct {
	generator ai.TextGenerator
	timeout   time.Duration
	logger    *slog.Logger
}

// QueryGeneratorOption configures a QueryGenerator.
type QueryGeneratorOption func(*QueryGenerator)

// WithGenerationTimeout sets the per-call provider timeout.
func WithGenerationTimeout(d time.Duration) QueryGeneratorOption {
	return func(g *QueryGenerator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithQueryLogger sets the logger used for degradation warnings.
func WithQueryLogger(logger *slog.Logger) QueryGeneratorOption {
	return func(g *QueryGenerator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewQueryGenerator creates a query generator backed by the given provider.
// A nil generator is allowed and means every call uses the fallback list.
func NewQueryGenerator(generator ai.TextGenerator, opts ...QueryGeneratorOption) *QueryGenerator {
	g := &QueryGenerator{
		generator: generator,
		timeout:   DefaultGenerationTimeout,
		logger:    slog.Default().With("component", "query_generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns up to three query strings tailored to the given tool.
// On provider failure or malformed output it returns FallbackQueries.
func (g *QueryGenerator) Generate(ctx context.Context, companyName, toolID, searchContext string) []string {
	if g.generator == nil {
		return FallbackQueries(companyName)
	}

	tctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := buildQueryPrompt(companyName, toolID, searchContext)
	response, err := g.generator.Complete(tctx, prompt, generationMaxTokens, 0.0)
	if err != nil {
		g.logger.Warn("query generation failed, using fallback queries",
			"company", companyName, "tool", toolID, "err", err)
		return FallbackQueries(companyName)
	}

	queries, err := parseQueries(response)
	if err != nil {
		g.logger.Warn("malformed query generation output, using fallback queries",
			"company", companyName, "tool", toolID, "err", err)
		return FallbackQueries(companyName)
	}
	return queries
}

// FallbackQueries is the deterministic query list used when generation is
// unavailable or produces garbage.
func FallbackQueries(companyName string) []string {
	return []string{
		companyName,
		companyName + " competitors",
		"companies like " + companyName,
		companyName + " similar businesses",
	}
}

// buildQueryPrompt builds the instruction sent to the provider.
func buildQueryPrompt(companyName, toolID, searchContext string) string {
	var b strings.Builder
	b.WriteString("You generate search queries for finding companies similar to a target company.\n")
	fmt.Fprintf(&b, "Target company: %s\n", companyName)
	fmt.Fprintf(&b, "Search tool: %s\n", toolID)
	if searchContext != "" {
		fmt.Fprintf(&b, "Additional context: %s\n", searchContext)
	}
	b.WriteString("Respond with a JSON array of at most 3 short query strings tailored to that tool.\n")
	b.WriteString("Respond with the JSON array only, no commentary.")
	return b.String()
}

// parseQueries extracts the query list from the provider response.
// Strips markdown code fences if present, then expects a JSON string array.
func parseQueries(response string) ([]string, error) {
	text := strings.TrimSpace(response)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw []string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}

	queries := make([]string, 0, maxGeneratedQueries)
	for _, q := range raw {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		queries = append(queries, q)
		if len(queries) == maxGeneratedQueries {
			break
		}
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("no usable queries in response")
	}
	return queries, nil
}
