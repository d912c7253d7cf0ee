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


package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/peerscope/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// TextGenerator implements ai.TextGenerator using OpenAI-compatible chat APIs.
type TextGenerator struct {
	client llms.Model
	logger *slog.Logger
}

// newTextGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTextGenerator(config *ai.Config) (*TextGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for text generation
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken("none"),
		openai.WithModel(config.GenerationModel),
	)
	if err != nil {
		return nil, err
	}

	return &TextGenerator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewTextGenerator creates a new text generator using the provided configuration.
//
// Returns ai.TextGenerator interface to enforce abstraction.
func NewTextGenerator(config *ai.Config) (ai.TextGenerator, error) {
	return newTextGenerator(config)
}

// Complete generates a completion for the prompt.
func (g *TextGenerator) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	g.logger.Debug("generating completion", "promptLength", len(prompt), "maxTokens", maxTokens)

	response, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt,
		llms.WithMaxTokens(maxTokens),
		llms.WithTemperature(temperature),
	)
	if err != nil {
		g.logger.Error("failed to generate completion", "err", err)
		return "", err
	}

	return response, nil
}
