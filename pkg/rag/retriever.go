package rag

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

const (
	DEFAULT_TOP_K        = 5
	DEFAULT_MAX_DISTANCE = 1.2

	retrieveTimeout = 15 * time.Second
)

// VectorQuerier 最近邻查询，结果按距离升序。
type VectorQuerier interface {
	Query(ctx context.Context, collectionID string, vector pgvector.Vector, limit int) ([]types.VectorQueryResult, error)
}

// Retriever 把查询向量化后取最近邻，并按距离阈值过滤。
// 检索失败一律降级为空结果，由上层按未命中处理，绝不让检索故障打断问答。
type Retriever struct {
	embedder    ai.EmbeddingAI
	store       VectorQuerier
	topK        int
	maxDistance float64
}

func NewRetriever(embedder ai.EmbeddingAI, store VectorQuerier, topK int, maxDistance float64) *Retriever {
	if topK <= 0 {
		topK = DEFAULT_TOP_K
	}
	if maxDistance <= 0 {
		maxDistance = DEFAULT_MAX_DISTANCE
	}
	return &Retriever{
		embedder:    embedder,
		store:       store,
		topK:        topK,
		maxDistance: maxDistance,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, collectionID, query string) []types.VectorQueryResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, retrieveTimeout)
	defer cancel()

	embedding, err := r.embedder.EmbeddingForQuery(ctx, []string{query})
	if err != nil || len(embedding.Data) == 0 {
		slog.Error("Failed to embed query, degrading to empty retrieval",
			slog.String("collection_id", collectionID), slog.Any("error", err))
		return nil
	}

	results, err := r.store.Query(ctx, collectionID, pgvector.NewVector(embedding.Data[0]), r.topK)
	if err != nil {
		slog.Error("Failed to query vector store, degrading to empty retrieval",
			slog.String("collection_id", collectionID), slog.Any("error", err))
		return nil
	}

	var relevant []types.VectorQueryResult
	for _, v := range results {
		if v.Distance > r.maxDistance {
			continue
		}
		relevant = append(relevant, v)
	}

	slog.Debug("Retrieve", slog.String("collection_id", collectionID),
		slog.Int("candidates", len(results)), slog.Int("relevant", len(relevant)))

	return relevant
}
