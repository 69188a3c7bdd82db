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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wayline/guidepost/ai"
	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of places to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of places)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the embedding of every stored place.
type Reembedder struct {
	repo      storage.PlaceRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *PlaceIterator
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.PlaceRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewPlaceIterator(repo, config.BatchSize),
	}
}

// Run executes the reembedding operation. Every place in the store is
// reembedded with the configured embedder; progress is reported to the
// configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.iterator.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count places: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No places found in store (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d places (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(places []*core.Place) error {
		if err := r.processor.Process(ctx, places); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(places)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d places in %v (%.1f places/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}
