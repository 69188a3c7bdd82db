// Copyright 2025 Wayline Labs
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


// Package ai provides abstractions for the AI services used in Guidepost.
//
// This package defines interfaces for text embeddings and grounded answer
// generation. It follows the dependency inversion principle, allowing the
// ingestion and retrieval pipelines to depend on abstractions rather than
// concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//   - Embedder: Generates vector embeddings from text
//   - AnswerGenerator: Produces free-text answers from a structured prompt
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockGenerator) return CONCRETE types to enable test assertions and
// behavior injection via the mock's public fields.
//
// # Usage Example
//
//	config := ai.NewConfig(
//	    ai.WithHost("https://api.openai.com"),
//	    ai.WithAPIToken(os.Getenv("OPENAI_API_KEY")),
//	)
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "a quiet park with lakes")
//	answer, err := provider.Generator().GenerateAnswer(ctx, system, user)
package ai
