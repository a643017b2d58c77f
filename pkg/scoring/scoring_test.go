package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

func TestLexicalIdenticalText(t *testing.T) {
	s := NewLexicalScorer()
	score := s.Score("gravity is the attractive force between masses", "gravity is the attractive force between masses")
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestLexicalDisjointText(t *testing.T) {
	s := NewLexicalScorer()
	score := s.Score("photosynthesis converts sunlight", "mitochondria produce energy")
	assert.Equal(t, 0.0, score)
}

func TestLexicalDegenerateText(t *testing.T) {
	s := NewLexicalScorer()
	assert.Equal(t, 0.0, s.Score("", "gravity"))
	assert.Equal(t, 0.0, s.Score("the a an is", "gravity"))
}

func TestLexicalPartialOverlap(t *testing.T) {
	s := NewLexicalScorer()
	score := s.Score("gravity pulls objects", "gravity pushes planets")
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1.0)
}

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *stubEmbedder) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	if f.err != nil {
		return ai.EmbeddingResult{}, f.err
	}
	result := ai.EmbeddingResult{}
	for _, v := range content {
		vec, ok := f.vectors[v]
		if !ok {
			vec = []float32{1, 0, 0}
		}
		result.Data = append(result.Data, vec)
	}
	return result, nil
}

func (f *stubEmbedder) EmbeddingForDocument(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	return f.EmbeddingForQuery(ctx, content)
}

func TestSemanticClampNegative(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"up":   {0, 1, 0},
		"down": {0, -1, 0},
	}}
	s := NewSemanticScorer(embedder)

	assert.Equal(t, 0.0, s.Score(context.Background(), "down", "up"))
}

func TestSemanticEmbeddingFailure(t *testing.T) {
	s := NewSemanticScorer(&stubEmbedder{err: errors.New("backend down")})
	assert.Equal(t, 0.0, s.Score(context.Background(), "answer", "reference"))
}

func TestSemanticIdenticalVectors(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"gravity": {0.5, 0.5, 0},
	}}
	s := NewSemanticScorer(embedder)

	assert.InDelta(t, 1.0, s.Score(context.Background(), "gravity", "gravity"), 1e-6)
}

func TestKeywordCoverage(t *testing.T) {
	s := NewKeywordScorer()
	got := s.Score("force pulling objects together", "the attractive force between masses")

	assert.Contains(t, got.Matched, "force")
	assert.Contains(t, got.Missed, "attractive")
	assert.Contains(t, got.Missed, "masses")
	assert.Greater(t, got.Score, 0.0)
	assert.Less(t, got.Score, 1.0)
}

func TestKeywordBonusCapped(t *testing.T) {
	s := NewKeywordScorer()
	got := s.Score(
		"gravity alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo",
		"gravity",
	)
	// coverage 1.0 之上的额外词加分被封顶在 1.0
	assert.Equal(t, 1.0, got.Score)
}

func TestKeywordEmptyInputs(t *testing.T) {
	s := NewKeywordScorer()
	assert.Equal(t, 0.0, s.Score("", "reference").Score)
	assert.Equal(t, 1.0, s.Score("anything", "the is a").Score)
}

type countingChat struct {
	calls   int
	failN   int
	message string
}

func (c *countingChat) Query(ctx context.Context, query []*types.MessageContext) (ai.GenerateResponse, error) {
	c.calls++
	if c.calls <= c.failN {
		return ai.GenerateResponse{}, errors.New("backend down")
	}
	return ai.GenerateResponse{Received: []string{c.message}}, nil
}

func (c *countingChat) Lang() string { return ai.MODEL_BASE_LANGUAGE_EN }
func (c *countingChat) Name() string { return "counting" }

func newTestEvaluator() *HybridEvaluator {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	return NewHybridEvaluator(embedder, DefaultWeights(), DEFAULT_FEEDBACK_THRESHOLD)
}

func TestHybridPerfectAnswer(t *testing.T) {
	e := newTestEvaluator()
	result := e.Evaluate(context.Background(), types.EvaluationRequest{
		Question:        "Define gravity",
		SubmittedAnswer: "the attractive force between masses",
		ReferenceAnswer: "the attractive force between masses",
		MaxPoints:       2.0,
	}, nil)

	assert.InDelta(t, 2.0, result.FinalScore, 0.01)
	assert.Equal(t, 2.0, result.MaxPoints)
}

func TestHybridZeroAnswer(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"the attractive force between masses": {0, 1, 0},
		"zz qq xx":                            {0, -1, 0},
	}}
	e := NewHybridEvaluator(embedder, DefaultWeights(), DEFAULT_FEEDBACK_THRESHOLD)

	result := e.Evaluate(context.Background(), types.EvaluationRequest{
		SubmittedAnswer: "zz qq xx",
		ReferenceAnswer: "the attractive force between masses",
		MaxPoints:       2.0,
	}, nil)

	assert.Equal(t, 0.0, result.FinalScore)
}

func TestHybridPartialCredit(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"force pulling objects together":      {0.8, 0.6, 0},
		"the attractive force between masses": {1, 0, 0},
	}}
	e := NewHybridEvaluator(embedder, DefaultWeights(), DEFAULT_FEEDBACK_THRESHOLD)

	result := e.Evaluate(context.Background(), types.EvaluationRequest{
		Question:        "Define gravity",
		SubmittedAnswer: "force pulling objects together",
		ReferenceAnswer: "the attractive force between masses",
		MaxPoints:       2.0,
		UseFeedback:     false,
	}, nil)

	assert.Greater(t, result.FinalScore, 0.0)
	assert.Less(t, result.FinalScore, 2.0)
	assert.Contains(t, result.MatchedKeywords, "force")
}

func TestHybridFeedbackBelowThreshold(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"wrong": {0, 1, 0},
		"right": {1, 0, 0},
	}}
	e := NewHybridEvaluator(embedder, DefaultWeights(), DEFAULT_FEEDBACK_THRESHOLD)
	chat := &countingChat{message: "Focus on the definition."}

	result := e.Evaluate(context.Background(), types.EvaluationRequest{
		SubmittedAnswer: "wrong",
		ReferenceAnswer: "right",
		MaxPoints:       1.0,
		UseFeedback:     true,
	}, chat)

	assert.Equal(t, 1, chat.calls)
	assert.Equal(t, "Focus on the definition.", result.Feedback)
}

func TestHybridFeedbackRetriesOnceThenOmits(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"wrong": {0, 1, 0},
		"right": {1, 0, 0},
	}}
	e := NewHybridEvaluator(embedder, DefaultWeights(), DEFAULT_FEEDBACK_THRESHOLD)
	chat := &countingChat{failN: 2}

	result := e.Evaluate(context.Background(), types.EvaluationRequest{
		SubmittedAnswer: "wrong",
		ReferenceAnswer: "right",
		MaxPoints:       1.0,
		UseFeedback:     true,
	}, chat)

	assert.Equal(t, 2, chat.calls)
	assert.Empty(t, result.Feedback)
	assert.Greater(t, result.MaxPoints, 0.0)
}

func TestHybridFeedbackSkippedAboveThreshold(t *testing.T) {
	e := newTestEvaluator()
	chat := &countingChat{}

	result := e.Evaluate(context.Background(), types.EvaluationRequest{
		SubmittedAnswer: "the attractive force between masses",
		ReferenceAnswer: "the attractive force between masses",
		MaxPoints:       1.0,
		UseFeedback:     true,
	}, chat)

	assert.Zero(t, chat.calls)
	assert.Empty(t, result.Feedback)
}

func TestEvaluateChoice(t *testing.T) {
	correct := EvaluateChoice(" Paris ", "paris", 2.0)
	assert.True(t, correct.IsCorrect)
	assert.Equal(t, 2.0, correct.Score)

	wrong := EvaluateChoice("London", "Paris", 2.0)
	assert.False(t, wrong.IsCorrect)
	assert.Equal(t, 0.0, wrong.Score)
	assert.Contains(t, wrong.Feedback, "Paris")
}
