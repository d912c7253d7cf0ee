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


package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/peerscope"
	"github.com/poiesic/peerscope/ai"
	"github.com/poiesic/peerscope/core"
	"github.com/poiesic/peerscope/store"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "peerscope",
		Usage:  "Hybrid company-similarity discovery engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "discover",
				Usage:  "Find companies similar to a target company",
				Action: discoverCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "company",
						Aliases:  []string{"c"},
						Usage:    "Target company name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum number of matches to return",
						Value: core.DefaultMaxResults,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum similarity score for a match",
						Value: core.DefaultMinSimilarityScore,
					},
					&cli.BoolFlag{
						Name:  "no-vector",
						Usage: "Skip the vector-store phase",
					},
					&cli.BoolFlag{
						Name:  "no-tools",
						Usage: "Skip the search-tool phase",
					},
					&cli.BoolFlag{
						Name:  "sequential",
						Usage: "Run tool searches one at a time instead of in parallel",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print per-phase progress while discovering",
					},
					&cli.StringFlag{
						Name:  "industry",
						Usage: "Only return matches in this industry",
					},
					&cli.StringFlag{
						Name:  "business-model",
						Usage: "Only return matches with this business model",
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Only return matches in this location",
					},
					&cli.IntFlag{
						Name:  "min-employees",
						Usage: "Only return matches with at least this many employees",
					},
					&cli.IntFlag{
						Name:  "max-employees",
						Usage: "Only return matches with at most this many employees",
					},
					&cli.StringFlag{
						Name:  "generation-host",
						Usage: "Text-generation service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "generation-model",
						Usage: "Text-generation model for query generation",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (defaults to generation-host)",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Load company records from an NDJSON file into the store",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "src",
						Aliases:  []string{"s"},
						Usage:    "NDJSON file with one company record per line",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to embed and store per batch",
						Value: 50,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func discoverCommand(c *cli.Context) error {
	ctx := context.Background()

	generationHost := c.String("generation-host")
	embeddingHost := c.String("embedding-host")
	if embeddingHost == "" {
		embeddingHost = generationHost
	}

	aiConfig := ai.NewConfig(
		ai.WithGenerationHost(generationHost),
		ai.WithGenerationModel(c.String("generation-model")),
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	engine, err := peerscope.NewEngine(c.String("db"), peerscope.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	req := core.NewDiscoveryRequest(c.String("company"))
	req.MaxResults = c.Int("max-results")
	req.MinSimilarityScore = c.Float64("min-similarity")
	req.UseVectorStore = !c.Bool("no-vector")
	req.UseSearchTools = !c.Bool("no-tools")
	req.Parallel = !c.Bool("sequential")
	req.IndustryFilter = c.String("industry")
	req.BusinessModelFilter = c.String("business-model")
	req.LocationFilter = c.String("location")
	req.MinEmployees = c.Int("min-employees")
	req.MaxEmployees = c.Int("max-employees")

	var result *core.DiscoveryResult
	if c.Bool("verbose") {
		result, err = engine.DiscoverWithMonitor(ctx, req, &progressMonitor{out: os.Stderr})
	} else {
		result, err = engine.Discover(ctx, req)
	}
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

// progressMonitor prints one line per discovery phase, for --verbose runs.
type progressMonitor struct {
	out *os.File
}

func (m *progressMonitor) Start(req *core.DiscoveryRequest) {
	fmt.Fprintf(m.out, "discovering companies similar to %q\n", req.CompanyName)
}

func (m *progressMonitor) AfterVectorPhase(matches []*core.CompanyMatch) {
	fmt.Fprintf(m.out, "vector store: %d candidates\n", len(matches))
}

func (m *progressMonitor) AfterToolPhase(bySource map[core.Source][]*core.CompanyMatch) {
	total := 0
	for _, matches := range bySource {
		total += len(matches)
	}
	fmt.Fprintf(m.out, "search tools: %d candidates from %d tools\n", total, len(bySource))
}

func (m *progressMonitor) AfterFallbackPhase(matches []*core.CompanyMatch) {
	fmt.Fprintf(m.out, "fallback search: %d candidates\n", len(matches))
}

func (m *progressMonitor) AfterScoring(matches []*core.CompanyMatch) {
	fmt.Fprintf(m.out, "scored %d candidates\n", len(matches))
}

func (m *progressMonitor) Finish(result *core.DiscoveryResult) {
	fmt.Fprintf(m.out, "strategy %s, %d matches\n", result.Strategy, result.TotalMatches)
}

func printResult(result *core.DiscoveryResult) {
	fmt.Printf("Query:    %s\n", result.QueryCompany)
	fmt.Printf("Strategy: %s\n", result.Strategy)
	fmt.Printf("Matches:  %d (%.2fs)\n", result.TotalMatches, result.ExecutionTimeSeconds)
	fmt.Printf("Quality:  confidence %.2f, coverage %.2f, freshness %.2f\n",
		result.AverageConfidence, result.CoverageScore, result.FreshnessScore)
	fmt.Println()

	for i, match := range result.Matches {
		fmt.Printf("%3d. %s  (similarity %.2f, confidence %.2f, via %s)\n",
			i+1, match.Name, match.SimilarityScore, match.ConfidenceScore, match.Source)
		if match.Industry != "" || match.Location != "" {
			fmt.Printf("     %s\n", strings.TrimSpace(match.Industry+"  "+match.Location))
		}
	}

	if len(result.Errors) > 0 {
		fmt.Println("\nDegradations:")
		for _, note := range result.Errors {
			fmt.Printf("  - %s\n", note)
		}
	}
}

// seedRecord is the NDJSON line shape accepted by the seed command.
type seedRecord struct {
	Name          string `json:"name"`
	Domain        string `json:"domain"`
	Description   string `json:"description"`
	Industry      string `json:"industry"`
	BusinessModel string `json:"business_model"`
	EmployeeCount int    `json:"employee_count"`
	Location      string `json:"location"`
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	engine, err := peerscope.NewEngine(c.String("db"), peerscope.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	f, err := os.Open(c.String("src"))
	if err != nil {
		return err
	}
	defer f.Close()

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	var batch []*store.CompanyRecord
	total := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := engine.Seed(ctx, batch...); err != nil {
			return err
		}
		total += len(batch)
		fmt.Fprintf(os.Stderr, "seeded %d records\n", total)
		batch = batch[:0]
		return nil
	}

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rec seedRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if strings.TrimSpace(rec.Name) == "" {
			return fmt.Errorf("line %d: company name is required", line)
		}

		batch = append(batch, &store.CompanyRecord{
			Name:          rec.Name,
			Domain:        rec.Domain,
			Description:   rec.Description,
			Industry:      rec.Industry,
			BusinessModel: rec.BusinessModel,
			EmployeeCount: rec.EmployeeCount,
			Location:      rec.Location,
		})
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return flush()
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
