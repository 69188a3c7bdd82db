package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wayline/guidepost/ai"
	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/storage"
)

// Report summarizes one batch run. Names appear in batch order.
type Report struct {
	Ingested []string `json:"ingested"`
	Skipped  []string `json:"skipped"`
}

// Pipeline converts raw place records into embedded, stored places.
// Batches are processed strictly sequentially so the demand on the
// embedding service stays uniform and dedup checks are race-free
// within one batch.
type Pipeline struct {
	repository storage.PlaceRepository
	embedder   ai.Embedder
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.PlaceRepository, provider ai.Provider, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	p := &Pipeline{
		repository: repository,
		embedder:   provider.Embedder(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Ingest processes a batch of raw places. Each place is validated,
// embedded from its description, checked against the identity triple
// (name, lat, lng), and inserted only when no matching record exists.
// Existing matches are skipped untouched, so re-running the same batch
// leaves the store unchanged.
//
// Validation and embedding failures abort the batch; by that point at
// most the already-reported places have been stored. A concurrent
// insert of the same identity between the lookup and the insert is
// reconciled as a skip.
func (p *Pipeline) Ingest(ctx context.Context, raws []core.RawPlace) (*Report, error) {
	if len(raws) == 0 {
		return nil, ErrEmptyBatch
	}

	report := &Report{
		Ingested: []string{},
		Skipped:  []string{},
	}

	for i := range raws {
		raw := &raws[i]
		if err := core.ValidateRawPlace(raw); err != nil {
			return nil, fmt.Errorf("place %d (%q): %w", i, raw.Name, err)
		}

		vector, err := p.embedder.EmbedText(ctx, raw.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to embed %q: %w", raw.Name, err)
		}

		_, err = p.repository.FindByIdentity(ctx, raw.Name, raw.Location.Lat, raw.Location.Lng)
		if err == nil {
			p.logger.Debug("place already present, skipping", "name", raw.Name)
			report.Skipped = append(report.Skipped, raw.Name)
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("identity lookup for %q: %w", raw.Name, err)
		}

		place := &core.Place{
			Name:        raw.Name,
			Description: raw.Description,
			Location:    raw.Location,
			Keywords:    raw.Keywords,
			Embedding:   vector,
		}

		_, err = p.repository.AddPlace(ctx, place)
		if errors.Is(err, storage.ErrDuplicateKey) {
			// Lost a race with a concurrent insert of the same identity.
			p.logger.Debug("place inserted concurrently, skipping", "name", raw.Name)
			report.Skipped = append(report.Skipped, raw.Name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store %q: %w", raw.Name, err)
		}
		report.Ingested = append(report.Ingested, raw.Name)
	}

	p.logger.Info("ingestion batch complete",
		"total", len(raws),
		"ingested", len(report.Ingested),
		"skipped", len(report.Skipped))
	return report, nil
}
