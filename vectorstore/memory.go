package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// Memory is an in-memory vector store over an embedder. It is built once
// during pipeline assembly and queried by retrieval chains; it does not
// synchronize concurrent writers.
type Memory struct {
	embedder embeddings.Embedder
	docs     []schema.Document
	vectors  [][]float32
}

var _ vectorstores.VectorStore = (*Memory)(nil)

// NewMemory creates an empty store over the given embedder.
func NewMemory(embedder embeddings.Embedder) *Memory {
	return &Memory{embedder: embedder}
}

// NewMemoryFromDocuments creates a store and indexes the given documents.
func NewMemoryFromDocuments(ctx context.Context, docs []schema.Document, embedder embeddings.Embedder) (*Memory, error) {
	m := NewMemory(embedder)
	if _, err := m.AddDocuments(ctx, docs); err != nil {
		return nil, err
	}
	return m, nil
}

// AddDocuments embeds and indexes the documents, returning one generated
// ID per document.
func (m *Memory) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	opts := applyOptions(options...)
	embedder := m.embedder
	if opts.Embedder != nil {
		embedder = opts.Embedder
	}
	if embedder == nil {
		return nil, fmt.Errorf("memory vector store has no embedder")
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = uuid.NewString()
		m.docs = append(m.docs, docs[i])
		m.vectors = append(m.vectors, vectors[i])
	}
	return ids, nil
}

// SimilaritySearch returns the numDocuments most similar documents by
// cosine similarity, honoring a score threshold option if set.
func (m *Memory) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	if numDocuments <= 0 {
		return nil, fmt.Errorf("numDocuments must be positive")
	}
	opts := applyOptions(options...)
	embedder := m.embedder
	if opts.Embedder != nil {
		embedder = opts.Embedder
	}
	if embedder == nil {
		return nil, fmt.Errorf("memory vector store has no embedder")
	}

	queryVector, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		index int
		score float32
	}
	scores := make([]scored, len(m.docs))
	for i, v := range m.vectors {
		scores[i] = scored{index: i, score: cosineSimilarity(queryVector, v)}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	var results []schema.Document
	for _, s := range scores {
		if len(results) == numDocuments {
			break
		}
		if opts.ScoreThreshold > 0 && s.score < opts.ScoreThreshold {
			continue
		}
		doc := m.docs[s.index]
		doc.Score = s.score
		results = append(results, doc)
	}
	return results, nil
}

// Len returns the number of indexed documents.
func (m *Memory) Len() int {
	return len(m.docs)
}

func applyOptions(options ...vectorstores.Option) vectorstores.Options {
	var opts vectorstores.Options
	for _, o := range options {
		o(&opts)
	}
	return opts
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
