package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayline/guidepost/ai/mock"
)

func TestReembedderRun(t *testing.T) {
	repo := seedRepo(t, 5)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{2, 0} // intentionally unnormalized
		}
		return out, nil
	}

	var progress bytes.Buffer
	r := NewReembedder(repo, embedder, &Config{
		BatchSize:      2,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &progress)

	ctx := context.Background()
	require.NoError(t, r.Run(ctx))

	// Every stored vector was replaced and normalized
	places, err := repo.ListPlaces(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, places, 5)
	for _, p := range places {
		assert.Equal(t, []float32{1, 0}, p.Embedding)
	}

	assert.Contains(t, progress.String(), "Reembedding complete")
}

func TestReembedderEmptyStore(t *testing.T) {
	repo := seedRepo(t, 0)

	var progress bytes.Buffer
	r := NewReembedder(repo, mock.NewMockEmbedder(), nil, &progress)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, progress.String(), "No places found")
}

func TestReembedderRetriesTransientFailures(t *testing.T) {
	repo := seedRepo(t, 2)
	embedder := mock.NewMockEmbedder()

	attempts := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("transient")
		}
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{0, 1}
		}
		return out, nil
	}

	var progress bytes.Buffer
	r := NewReembedder(repo, embedder, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}, &progress)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 2, attempts)
}

func TestReembedderPersistentFailure(t *testing.T) {
	repo := seedRepo(t, 2)
	embedder := mock.NewMockEmbedder()

	down := errors.New("service down")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, down
	}

	var progress bytes.Buffer
	r := NewReembedder(repo, embedder, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &progress)

	err := r.Run(context.Background())
	require.ErrorIs(t, err, down)

	// Originals are untouched
	places, listErr := repo.ListPlaces(context.Background(), 0, 10)
	require.NoError(t, listErr)
	for _, p := range places {
		assert.Equal(t, []float32{1, 0}, p.Embedding)
	}
}

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)
	tracker.Start()

	tracker.Update(3)
	assert.Empty(t, buf.String()) // below report interval

	tracker.Update(5)
	assert.Contains(t, buf.String(), "5/10")

	tracker.Finish()
	assert.Contains(t, buf.String(), "10/10 (100.0%)")
	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
}
