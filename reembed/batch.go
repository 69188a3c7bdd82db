package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/wayline/guidepost/ai"
	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/storage"
)

// BatchProcessor regenerates embeddings for batches of places.
type BatchProcessor struct {
	repo           storage.PlaceRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.PlaceRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the descriptions of a batch of places and writes the
// updated records back. Vectors are normalized so dot-product ranking
// stays equivalent to cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, places []*core.Place) error {
	if len(places) == 0 {
		return nil
	}

	texts := make([]string, len(places))
	for i, place := range places {
		texts[i] = place.Description
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(places) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(places), len(embeddings))
	}

	for i, place := range places {
		place.Embedding = NormalizeVector(embeddings[i])
		if _, err := bp.repo.UpdatePlace(ctx, place); err != nil {
			return fmt.Errorf("failed to update place %d: %w", place.Id, err)
		}
	}
	return nil
}
