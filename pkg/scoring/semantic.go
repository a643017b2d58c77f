package scoring

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/tutornest-ai/tutornest/pkg/ai"
)

// SemanticScorer 用嵌入向量的余弦相似度衡量语义接近程度，
// 负相似度截断为 0。打分过程中任何嵌入失败都降级为 0 分而不是报错。
type SemanticScorer struct {
	embedder ai.EmbeddingAI
}

func NewSemanticScorer(embedder ai.EmbeddingAI) *SemanticScorer {
	return &SemanticScorer{embedder: embedder}
}

func (s *SemanticScorer) Score(ctx context.Context, submitted, reference string) float64 {
	if strings.TrimSpace(submitted) == "" || strings.TrimSpace(reference) == "" {
		return 0
	}

	result, err := s.embedder.EmbeddingForQuery(ctx, []string{reference, submitted})
	if err != nil || len(result.Data) < 2 {
		slog.Error("Failed to embed answers for semantic scoring", slog.Any("error", err))
		return 0
	}

	similarity := CosineSimilarity(result.Data[0], result.Data[1])
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
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
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
