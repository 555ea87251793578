package vectorstore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// axisEmbedder maps known words onto orthogonal axes.
type axisEmbedder struct{}

func (axisEmbedder) embed(text string) []float32 {
	v := make([]float32, 3)
	if strings.Contains(text, "cat") {
		v[0] = 1
	}
	if strings.Contains(text, "dog") {
		v[1] = 1
	}
	if strings.Contains(text, "fish") {
		v[2] = 1
	}
	return v
}

func (e axisEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e axisEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

func TestMemoryStoreSimilaritySearch(t *testing.T) {
	ctx := context.Background()
	docs := []schema.Document{
		{PageContent: "the cat sat"},
		{PageContent: "the dog barked"},
		{PageContent: "a fish swam"},
	}

	m, err := NewMemoryFromDocuments(ctx, docs, axisEmbedder{})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	results, err := m.SimilaritySearch(ctx, "where is the cat", 2)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "the cat sat", results[0].PageContent)
	assert.Greater(t, results[0].Score, float32(0.9))
}

func TestMemoryStoreScoreThreshold(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemoryFromDocuments(ctx, []schema.Document{
		{PageContent: "the cat sat"},
		{PageContent: "the dog barked"},
	}, axisEmbedder{})
	require.NoError(t, err)

	results, err := m.SimilaritySearch(ctx, "cat", 5,
		vectorstores.WithScoreThreshold(0.5))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "the cat sat", results[0].PageContent)
}

func TestMemoryStoreAddDocumentsIDs(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(axisEmbedder{})

	ids, err := m.AddDocuments(ctx, []schema.Document{{PageContent: "dog"}})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.NotEmpty(t, ids[0])
}

func TestMemoryStoreRequiresEmbedder(t *testing.T) {
	m := NewMemory(nil)
	_, err := m.AddDocuments(context.Background(), []schema.Document{{PageContent: "x"}})
	assert.ErrorContains(t, err, "no embedder")
}

func TestMemoryStoreToRetriever(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemoryFromDocuments(ctx, []schema.Document{
		{PageContent: "the cat sat"},
	}, axisEmbedder{})
	require.NoError(t, err)

	retriever := vectorstores.ToRetriever(m, 1)
	docs, err := retriever.GetRelevantDocuments(ctx, "cat")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "the cat sat", docs[0].PageContent)
}
