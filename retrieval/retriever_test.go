package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayline/guidepost/ai"
	"github.com/wayline/guidepost/ai/mock"
	"github.com/wayline/guidepost/core"
	"github.com/wayline/guidepost/storage"
	"github.com/wayline/guidepost/storage/badger"
)

func newTestRetriever(t *testing.T) (*Retriever, *mock.MockProvider, storage.PlaceRepository) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	provider := mock.NewMockProvider().(*mock.MockProvider)
	retriever, err := NewRetriever(repo, provider)
	require.NoError(t, err)
	return retriever, provider, repo
}

func storePlace(t *testing.T, repo storage.PlaceRepository, name string, lat, lng float64, embedding []float32) *core.Place {
	t.Helper()
	place, err := repo.AddPlace(context.Background(), &core.Place{
		Name:        name,
		Description: "notes about " + name,
		Location:    core.Location{Lat: lat, Lng: lng},
		Embedding:   embedding,
	})
	require.NoError(t, err)
	return place
}

// fixedEmbedder makes the query vector controllable so ranking in tests
// is exact rather than dependent on the mock's hash-derived vectors.
func fixedEmbedder(vector []float32) func(ctx context.Context, text string) ([]float32, error) {
	return func(ctx context.Context, text string) ([]float32, error) {
		return vector, nil
	}
}

func TestRetrieveGroundedAnswer(t *testing.T) {
	retriever, provider, repo := newTestRetriever(t)
	provider.GetMockEmbedder().EmbedTextFunc = fixedEmbedder([]float32{1, 0})

	storePlace(t, repo, "Mercado Municipal", -23.5416, -46.6295, []float32{0.9, 0.1})
	storePlace(t, repo, "Parque Ibirapuera", -23.5874, -46.6576, []float32{0.2, 0.8})

	result, err := retriever.Retrieve(context.Background(), core.Query{Text: "where should I eat?"})
	require.NoError(t, err)

	assert.Equal(t, mock.DefaultMockAnswer, result.Answer)
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "Mercado Municipal", result.Sources[0].Name)
	assert.Equal(t, "Parque Ibirapuera", result.Sources[1].Name)
	assert.Equal(t, -23.5416, result.Sources[0].Location.Lat)
}

func TestRetrievePromptContents(t *testing.T) {
	retriever, provider, repo := newTestRetriever(t)
	provider.GetMockEmbedder().EmbedTextFunc = fixedEmbedder([]float32{1, 0})

	storePlace(t, repo, "Beco do Batman", -23.5587, -46.6888, []float32{1, 0})

	_, err := retriever.Retrieve(context.Background(), core.Query{Text: "where is the street art?"})
	require.NoError(t, err)

	gen := provider.GetMockGenerator()
	system := gen.LastSystem()
	assert.Contains(t, system, "using ONLY the context below")
	assert.Contains(t, system, "Place: Beco do Batman")
	assert.Contains(t, system, "Description: notes about Beco do Batman")
	assert.Equal(t, "Question: where is the street art?", gen.LastUser())
}

func TestRetrieveOriginBoundsCandidates(t *testing.T) {
	retriever, provider, repo := newTestRetriever(t)
	provider.GetMockEmbedder().EmbedTextFunc = fixedEmbedder([]float32{1, 0})

	near := storePlace(t, repo, "Near Cafe", -23.5510, -46.6320, []float32{0.5, 0.5})
	// Better similarity, but far outside the 0.045-degree rectangle
	storePlace(t, repo, "Far Cafe", -22.9, -43.2, []float32{1, 0})

	origin := core.Location{Lat: -23.55, Lng: -46.63}
	result, err := retriever.Retrieve(context.Background(), core.Query{Text: "coffee nearby", Origin: &origin})
	require.NoError(t, err)

	require.Len(t, result.Sources, 1)
	assert.Equal(t, near.Name, result.Sources[0].Name)
}

func TestRetrieveNoOriginSearchesGlobally(t *testing.T) {
	retriever, provider, repo := newTestRetriever(t)
	provider.GetMockEmbedder().EmbedTextFunc = fixedEmbedder([]float32{1, 0})

	storePlace(t, repo, "Near Cafe", -23.5510, -46.6320, []float32{0.5, 0.5})
	storePlace(t, repo, "Far Cafe", -22.9, -43.2, []float32{1, 0})

	result, err := retriever.Retrieve(context.Background(), core.Query{Text: "coffee anywhere"})
	require.NoError(t, err)
	assert.Len(t, result.Sources, 2)
}

func TestRetrieveEmptyStoreStillAnswers(t *testing.T) {
	retriever, provider, _ := newTestRetriever(t)

	admission := "I don't have enough information."
	provider.GetMockGenerator().GenerateAnswerFunc = func(ctx context.Context, system, user string) (string, error) {
		// Empty context block after the "Context:" label
		if strings.HasSuffix(strings.TrimSpace(system), "Context:") {
			return admission, nil
		}
		return "unexpected context", nil
	}

	result, err := retriever.Retrieve(context.Background(), core.Query{Text: "anything at all?"})
	require.NoError(t, err)
	assert.Equal(t, admission, result.Answer)
	assert.Empty(t, result.Sources)
}

func TestRetrieveValidation(t *testing.T) {
	retriever, _, _ := newTestRetriever(t)

	_, err := retriever.Retrieve(context.Background(), core.Query{Text: "   "})
	assert.ErrorIs(t, err, core.ErrEmptyQuery)

	bad := core.Location{Lat: 99, Lng: 0}
	_, err = retriever.Retrieve(context.Background(), core.Query{Text: "valid", Origin: &bad})
	assert.ErrorIs(t, err, core.ErrInvalidLatitude)
}

func TestRetrieveTopK(t *testing.T) {
	retriever, provider, repo := newTestRetriever(t)
	provider.GetMockEmbedder().EmbedTextFunc = fixedEmbedder([]float32{1, 0})

	for i := range 8 {
		storePlace(t, repo, "Place "+string(rune('A'+i)), -23.55+float64(i)*0.001, -46.63,
			[]float32{1 - float32(i)*0.05, float32(i) * 0.05})
	}

	result, err := retriever.Retrieve(context.Background(), core.Query{Text: "show me places"})
	require.NoError(t, err)
	assert.Len(t, result.Sources, 5)
	// Ranked by similarity: Place A is the closest match
	assert.Equal(t, "Place A", result.Sources[0].Name)
}

func TestRetrieveGenerationFailure(t *testing.T) {
	retriever, provider, repo := newTestRetriever(t)
	provider.GetMockEmbedder().EmbedTextFunc = fixedEmbedder([]float32{1, 0})
	provider.GetMockGenerator().GenerateAnswerFunc = func(ctx context.Context, system, user string) (string, error) {
		return "", ai.ErrUnavailable
	}

	storePlace(t, repo, "Somewhere", -23.55, -46.63, []float32{1, 0})

	_, err := retriever.Retrieve(context.Background(), core.Query{Text: "question"})
	require.ErrorIs(t, err, ai.ErrUnavailable)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	retriever, provider, _ := newTestRetriever(t)

	embedErr := errors.New("embedding service down")
	provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, embedErr
	}

	_, err := retriever.Retrieve(context.Background(), core.Query{Text: "question"})
	require.ErrorIs(t, err, embedErr)
}

func TestSearchDeterministicOrdering(t *testing.T) {
	retriever, provider, repo := newTestRetriever(t)
	provider.GetMockEmbedder().EmbedTextFunc = fixedEmbedder([]float32{1, 0})

	storePlace(t, repo, "First", -23.55, -46.63, []float32{1, 0})
	storePlace(t, repo, "Second", -23.56, -46.64, []float32{1, 0})

	query := core.Query{Text: "repeatable"}
	baseline, err := retriever.Search(context.Background(), query)
	require.NoError(t, err)

	for range 3 {
		results, err := retriever.Search(context.Background(), query)
		require.NoError(t, err)
		require.Len(t, results, len(baseline))
		for i := range results {
			assert.Equal(t, baseline[i].Place.Id, results[i].Place.Id)
		}
	}
}

func TestRetrieveWithMonitor(t *testing.T) {
	retriever, provider, repo := newTestRetriever(t)
	provider.GetMockEmbedder().EmbedTextFunc = fixedEmbedder([]float32{1, 0})

	storePlace(t, repo, "Observed", -23.55, -46.63, []float32{1, 0})

	monitor := &recordingMonitor{}
	result, err := retriever.RetrieveWithMonitor(context.Background(), core.Query{Text: "watch this"}, monitor)
	require.NoError(t, err)

	assert.Equal(t, "watch this", monitor.query.Text)
	assert.NotEmpty(t, monitor.vector)
	assert.Len(t, monitor.results, 1)
	assert.Contains(t, monitor.contextBlock, "Place: Observed")
	assert.Equal(t, result.Answer, monitor.answer)
}

type recordingMonitor struct {
	query        core.Query
	vector       []float32
	results      []*core.SearchResult
	contextBlock string
	answer       string
}

func (m *recordingMonitor) Start(query core.Query)                  { m.query = query }
func (m *recordingMonitor) AfterEmbedding(vector []float32)         { m.vector = vector }
func (m *recordingMonitor) AfterSearch(results []*core.SearchResult) { m.results = results }
func (m *recordingMonitor) AfterContext(block string)               { m.contextBlock = block }
func (m *recordingMonitor) Finish(answer string, _ []core.PlaceSummary) {
	m.answer = answer
}
