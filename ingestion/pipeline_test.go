package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayline/guidepost/ai/mock"
	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/storage"
	"github.com/wayline/guidepost/storage/badger"
)

func newTestPipeline(t *testing.T) (*Pipeline, *mock.MockProvider, storage.PlaceRepository) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	provider := mock.NewMockProvider().(*mock.MockProvider)
	pipeline, err := NewPipeline(repo, provider)
	require.NoError(t, err)
	return pipeline, provider, repo
}

func sampleBatch() []core.RawPlace {
	return []core.RawPlace{
		{
			Name:        "Mercado Municipal",
			Description: "Historic covered market famous for mortadella sandwiches.",
			Location:    core.Location{Lat: -23.5416, Lng: -46.6295},
			Keywords:    []string{"food", "market"},
		},
		{
			Name:        "Beco do Batman",
			Description: "Alley covered in ever-changing street art murals.",
			Location:    core.Location{Lat: -23.5587, Lng: -46.6888},
			Keywords:    []string{"art"},
		},
	}
}

func TestNewPipelineValidation(t *testing.T) {
	provider := mock.NewMockProvider()

	_, err := NewPipeline(nil, provider)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestIngestBatch(t *testing.T) {
	pipeline, _, repo := newTestPipeline(t)

	ctx := context.Background()
	report, err := pipeline.Ingest(ctx, sampleBatch())
	require.NoError(t, err)

	assert.Equal(t, []string{"Mercado Municipal", "Beco do Batman"}, report.Ingested)
	assert.Empty(t, report.Skipped)

	stored, err := repo.FindByIdentity(ctx, "Mercado Municipal", -23.5416, -46.6295)
	require.NoError(t, err)
	assert.NotZero(t, stored.Id)
	assert.NotEmpty(t, stored.Embedding)
	assert.Equal(t, []string{"food", "market"}, stored.Keywords)
}

func TestIngestIdempotent(t *testing.T) {
	pipeline, _, repo := newTestPipeline(t)

	ctx := context.Background()
	batch := sampleBatch()

	first, err := pipeline.Ingest(ctx, batch)
	require.NoError(t, err)
	assert.Len(t, first.Ingested, 2)

	// Re-running the exact same batch skips everything
	second, err := pipeline.Ingest(ctx, batch)
	require.NoError(t, err)
	assert.Empty(t, second.Ingested)
	assert.Equal(t, []string{"Mercado Municipal", "Beco do Batman"}, second.Skipped)

	// And the store holds exactly the original records
	all, err := repo.ListPlaces(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIngestExistingLeftUntouched(t *testing.T) {
	pipeline, _, repo := newTestPipeline(t)

	ctx := context.Background()
	batch := sampleBatch()

	_, err := pipeline.Ingest(ctx, batch[:1])
	require.NoError(t, err)
	original, err := repo.FindByIdentity(ctx, batch[0].Name, batch[0].Location.Lat, batch[0].Location.Lng)
	require.NoError(t, err)

	// Same identity, different description
	changed := batch[0]
	changed.Description = "completely rewritten description"
	report, err := pipeline.Ingest(ctx, []core.RawPlace{changed})
	require.NoError(t, err)
	assert.Equal(t, []string{batch[0].Name}, report.Skipped)

	after, err := repo.FindByIdentity(ctx, batch[0].Name, batch[0].Location.Lat, batch[0].Location.Lng)
	require.NoError(t, err)
	assert.Equal(t, original.Description, after.Description)
	assert.Equal(t, original.Embedding, after.Embedding)
}

func TestIngestMixedBatch(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	ctx := context.Background()
	batch := sampleBatch()

	_, err := pipeline.Ingest(ctx, batch[:1])
	require.NoError(t, err)

	report, err := pipeline.Ingest(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beco do Batman"}, report.Ingested)
	assert.Equal(t, []string{"Mercado Municipal"}, report.Skipped)
}

func TestIngestEmbeddingFailureAbortsBatch(t *testing.T) {
	pipeline, provider, repo := newTestPipeline(t)

	embedErr := errors.New("embedding service down")
	provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, embedErr
	}

	ctx := context.Background()
	_, err := pipeline.Ingest(ctx, sampleBatch())
	require.ErrorIs(t, err, embedErr)

	// Nothing was stored
	all, err := repo.ListPlaces(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestIngestValidationFailureAbortsBatch(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	batch := sampleBatch()
	batch[1].Location.Lat = 123.4

	_, err := pipeline.Ingest(context.Background(), batch)
	require.ErrorIs(t, err, core.ErrInvalidLatitude)
}

func TestIngestEmptyBatch(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	_, err := pipeline.Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestIngestConcurrentInsertReconciledAsSkip(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	provider := mock.NewMockProvider().(*mock.MockProvider)
	raced := &racingRepository{PlaceRepository: repo, provider: provider}
	pipeline, err := NewPipeline(raced, provider)
	require.NoError(t, err)

	batch := sampleBatch()[:1]
	report, err := pipeline.Ingest(context.Background(), batch)
	require.NoError(t, err)

	// The pipeline's lookup said "absent", the insert then collided
	// with the record the racer slipped in. That is a skip, not an error.
	assert.Empty(t, report.Ingested)
	assert.Equal(t, []string{batch[0].Name}, report.Skipped)
}

// racingRepository inserts a competing record between the pipeline's
// identity lookup and its insert.
type racingRepository struct {
	storage.PlaceRepository
	provider *mock.MockProvider
	raced    bool
}

func (r *racingRepository) FindByIdentity(ctx context.Context, name string, lat, lng float64) (*core.Place, error) {
	place, err := r.PlaceRepository.FindByIdentity(ctx, name, lat, lng)
	if errors.Is(err, storage.ErrNotFound) && !r.raced {
		r.raced = true
		vector, embErr := r.provider.Embedder().EmbedText(ctx, "competing record")
		if embErr != nil {
			return nil, fmt.Errorf("racer embed: %w", embErr)
		}
		_, insErr := r.PlaceRepository.AddPlace(ctx, &core.Place{
			Name:        name,
			Description: "inserted by a concurrent writer",
			Location:    core.Location{Lat: lat, Lng: lng},
			Embedding:   vector,
		})
		if insErr != nil {
			return nil, fmt.Errorf("racer insert: %w", insErr)
		}
	}
	return place, err
}
