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


package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wayline/guidepost/ai"
	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/storage"
)

const (
	// topK is the fixed number of places retrieved per query.
	topK = 5

	// numCandidates is the staging hint passed to the store. Approximate
	// backends use it to trade recall for latency; exact backends ignore it.
	numCandidates = 100

	// originHalfWidth is the half-width, in degrees of latitude and
	// longitude, of the rectangle built around a query origin. Roughly a
	// few kilometers, adequate for a one-city corpus.
	originHalfWidth = 0.045
)

// Result is a grounded answer with the places it was grounded on.
type Result struct {
	Answer  string              `json:"answer"`
	Sources []core.PlaceSummary `json:"sources"`
}

// Retriever answers queries against the place store.
type Retriever struct {
	repository storage.PlaceRepository
	embedder   ai.Embedder
	generator  ai.AnswerGenerator
	logger     *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(repository storage.PlaceRepository, provider ai.Provider, opts ...Option) (*Retriever, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	r := &Retriever{
		repository: repository,
		embedder:   provider.Embedder(),
		generator:  provider.Generator(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Search embeds the query and returns the ranked candidate places
// without invoking the language model.
func (r *Retriever) Search(ctx context.Context, query core.Query) ([]*core.SearchResult, error) {
	return r.search(ctx, query, &noopMonitor{})
}

// Retrieve runs the full pipeline: search, context assembly, and
// grounded answer generation. An empty search result still produces an
// answer; the model admits insufficient information on its own.
func (r *Retriever) Retrieve(ctx context.Context, query core.Query) (*Result, error) {
	return r.RetrieveWithMonitor(ctx, query, nil)
}

// RetrieveWithMonitor runs the full pipeline with observation hooks.
// The monitor receives callbacks after each stage.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query core.Query, monitor Monitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	results, err := r.search(ctx, query, monitor)
	if err != nil {
		return nil, err
	}

	contextBlock := FormatContext(results)
	monitor.AfterContext(contextBlock)

	answer, err := r.generator.GenerateAnswer(ctx, buildSystemPrompt(contextBlock), buildUserPrompt(query.Text))
	if err != nil {
		r.logger.Error("answer generation failed", "err", err)
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	sources := make([]core.PlaceSummary, 0, len(results))
	for _, res := range results {
		sources = append(sources, res.Place.Summary())
	}

	monitor.Finish(answer, sources)
	r.logger.Info("query answered", "sources", len(sources))
	return &Result{Answer: answer, Sources: sources}, nil
}

func (r *Retriever) search(ctx context.Context, query core.Query, monitor Monitor) ([]*core.SearchResult, error) {
	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}

	vector, err := r.embedder.EmbedText(ctx, query.Text)
	if err != nil {
		r.logger.Error("query embedding failed", "err", err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	monitor.AfterEmbedding(vector)

	var bounds *core.BoundingBox
	if query.Origin != nil {
		box := core.NewBoundingBox(*query.Origin, originHalfWidth)
		bounds = &box
	}

	results, err := r.repository.FindSimilar(ctx, vector, bounds, topK, numCandidates)
	if err != nil {
		r.logger.Error("similarity search failed", "err", err)
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	monitor.AfterSearch(results)
	return results, nil
}
