package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"

	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	f.calls++
	if f.err != nil {
		return ai.EmbeddingResult{}, f.err
	}
	data := make([][]float32, len(content))
	for i := range content {
		data[i] = []float32{0.1, 0.2, 0.3}
	}
	return ai.EmbeddingResult{Data: data}, nil
}

func (f *fakeEmbedder) EmbeddingForDocument(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	return f.EmbeddingForQuery(ctx, content)
}

type fakeVectorStore struct {
	results []types.VectorQueryResult
	err     error
	calls   int
}

func (f *fakeVectorStore) Query(ctx context.Context, collectionID string, vector pgvector.Vector, limit int) ([]types.VectorQueryResult, error) {
	f.calls++
	return f.results, f.err
}

func TestRetrieverFiltersByDistance(t *testing.T) {
	store := &fakeVectorStore{
		results: []types.VectorQueryResult{
			{ChunkID: "c1", Content: "near", Distance: 0.3},
			{ChunkID: "c2", Content: "close", Distance: 1.1},
			{ChunkID: "c3", Content: "far", Distance: 1.5},
		},
	}
	r := NewRetriever(&fakeEmbedder{}, store, 5, 1.2)

	got := r.Retrieve(context.Background(), "kb_1", "what is gravity")
	assert.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ChunkID)
	assert.Equal(t, "c2", got[1].ChunkID)
}

func TestRetrieverAllBeyondCutoff(t *testing.T) {
	store := &fakeVectorStore{
		results: []types.VectorQueryResult{
			{ChunkID: "c1", Distance: 1.21},
			{ChunkID: "c2", Distance: 1.9},
		},
	}
	r := NewRetriever(&fakeEmbedder{}, store, 5, 1.2)

	assert.Empty(t, r.Retrieve(context.Background(), "kb_1", "unrelated question"))
}

func TestRetrieverEmbeddingFailureDegrades(t *testing.T) {
	store := &fakeVectorStore{}
	r := NewRetriever(&fakeEmbedder{err: errors.New("backend down")}, store, 5, 1.2)

	assert.Empty(t, r.Retrieve(context.Background(), "kb_1", "question"))
	assert.Zero(t, store.calls)
}

func TestRetrieverStoreFailureDegrades(t *testing.T) {
	store := &fakeVectorStore{err: errors.New("connection refused")}
	r := NewRetriever(&fakeEmbedder{}, store, 5, 1.2)

	assert.Empty(t, r.Retrieve(context.Background(), "kb_1", "question"))
}

func TestRetrieverEmptyQuery(t *testing.T) {
	embedder := &fakeEmbedder{}
	r := NewRetriever(embedder, &fakeVectorStore{}, 5, 1.2)

	assert.Empty(t, r.Retrieve(context.Background(), "kb_1", "  "))
	assert.Zero(t, embedder.calls)
}
