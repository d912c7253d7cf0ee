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


// Package ai provides abstractions for AI services used in Peerscope.
//
// This package defines interfaces for text completion (search query
// generation) and vector embeddings. It follows the dependency inversion
// principle, allowing the discovery engine to depend on abstractions rather
// than concrete implementations.
//
// The package is designed around three key interfaces:
//
//   - TextGenerator: Produces free-form completions for query generation
//   - Embedder: Generates vector embeddings from text
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction. Test utility constructors
// (mock.NewMockTextGenerator, mock.NewMockEmbedder) return concrete types to
// enable behavior injection via function fields and call-count assertions.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	text, err := provider.TextGenerator().Complete(ctx, "List rivals of Acme", 256, 0.2)
//	vector, err := provider.Embedder().EmbedText(ctx, "Acme Corp robotics")
package ai
