package reembed

import (
	"context"

	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/storage"
)

const (
	// DefaultBatchSize is the default number of places fetched per batch
	DefaultBatchSize = 100
)

// PlaceIterator walks the whole place store in ID order, one batch at a
// time, using the repository's cursor pagination.
type PlaceIterator struct {
	repo      storage.PlaceRepository
	batchSize int
}

// NewPlaceIterator creates a new place iterator.
// batchSize: number of places to fetch in each batch (must be > 0)
func NewPlaceIterator(repo storage.PlaceRepository, batchSize int) *PlaceIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &PlaceIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of places. Iteration stops on the
// first error from fn or when the store is exhausted. Context
// cancellation is checked between batches.
func (it *PlaceIterator) ForEach(ctx context.Context, fn func([]*core.Place) error) error {
	var cursor core.ID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := it.repo.ListPlaces(ctx, cursor, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}
		cursor = batch[len(batch)-1].Id
	}
}

// Count walks the store and returns the total number of places.
func (it *PlaceIterator) Count(ctx context.Context) (int, error) {
	total := 0
	err := it.ForEach(ctx, func(batch []*core.Place) error {
		total += len(batch)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
