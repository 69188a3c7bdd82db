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


package guidepost

import (
	"io"
	"log/slog"

	"github.com/wayline/guidepost/ai"
	"github.com/wayline/guidepost/ai/openai"
	"github.com/wayline/guidepost/ingestion"
	"github.com/wayline/guidepost/reembed"
	"github.com/wayline/guidepost/retrieval"
	"github.com/wayline/guidepost/storage"
	"github.com/wayline/guidepost/storage/badger"
)

// Guide bundles the place store and the AI gateways and hands out the
// pipelines built on them.
type Guide struct {
	backend   *badger.Backend
	placeRepo storage.PlaceRepository
	provider  ai.Provider
	logger    *slog.Logger
}

// GuideOption configures a Guide.
type GuideOption func(*guideOptions)

type guideOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig sets the AI gateway configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) GuideOption {
	return func(o *guideOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithInMemoryStore keeps the place store in memory instead of on disk.
// Data is lost when the Guide closes.
func WithInMemoryStore() GuideOption {
	return func(o *guideOptions) {
		o.inMemory = true
	}
}

// Open creates a Guide backed by a badger store at filePath.
func Open(filePath string, opts ...GuideOption) (*Guide, error) {
	options := &guideOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	placeRepo, err := badger.NewPlaceRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		placeRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Guide{
		backend:   backend,
		placeRepo: placeRepo,
		provider:  provider,
		logger:    slog.Default(),
	}, nil
}

func (g *Guide) Close() error {
	if err := g.provider.Close(); err != nil {
		g.logger.Error("error closing AI provider", "err", err)
	}

	if err := g.placeRepo.Close(); err != nil {
		g.logger.Error("error closing place repository", "err", err)
		return err
	}
	if err := g.backend.Close(); err != nil {
		g.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (g *Guide) PlaceRepository() storage.PlaceRepository {
	return g.placeRepo
}

func (g *Guide) Provider() ai.Provider {
	return g.provider
}

func (g *Guide) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(g.placeRepo, g.provider, opts...)
}

func (g *Guide) NewRetriever(opts ...retrieval.Option) (*retrieval.Retriever, error) {
	return retrieval.NewRetriever(g.placeRepo, g.provider, opts...)
}

// NewReembedder builds the administrative re-embedding job. Progress
// output goes to progress, typically os.Stderr.
func (g *Guide) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(g.placeRepo, g.provider.Embedder(), config, progress)
}
