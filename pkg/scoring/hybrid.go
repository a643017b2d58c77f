package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

// Weights 三路信号的加权系数。语义权重最高，
// 换了说法但答对的答案不应被词面匹配拖低分数。
type Weights struct {
	Lexical  float64 `toml:"lexical"`
	Semantic float64 `toml:"semantic"`
	Keyword  float64 `toml:"keyword"`
}

func DefaultWeights() Weights {
	return Weights{
		Lexical:  0.25,
		Semantic: 0.50,
		Keyword:  0.25,
	}
}

const DEFAULT_FEEDBACK_THRESHOLD = 0.70

// HybridEvaluator 组合词面、语义、关键词三路信号给短问答打分。
// 得分低于阈值且调用方开启点评时，额外请求聊天模型生成改进建议，
// 点评失败只记日志，评分结果照常返回。
type HybridEvaluator struct {
	lexical  *LexicalScorer
	semantic *SemanticScorer
	keyword  *KeywordScorer

	weights           Weights
	feedbackThreshold float64
}

func NewHybridEvaluator(embedder ai.EmbeddingAI, weights Weights, feedbackThreshold float64) *HybridEvaluator {
	if weights.Lexical+weights.Semantic+weights.Keyword <= 0 {
		weights = DefaultWeights()
	}
	if feedbackThreshold <= 0 {
		feedbackThreshold = DEFAULT_FEEDBACK_THRESHOLD
	}
	return &HybridEvaluator{
		lexical:           NewLexicalScorer(),
		semantic:          NewSemanticScorer(embedder),
		keyword:           NewKeywordScorer(),
		weights:           weights,
		feedbackThreshold: feedbackThreshold,
	}
}

func (e *HybridEvaluator) Evaluate(ctx context.Context, req types.EvaluationRequest, chat ai.ChatAI) types.EvaluationResult {
	maxPoints := req.MaxPoints
	if maxPoints <= 0 {
		maxPoints = 1.0
	}

	lexical := e.lexical.Score(req.SubmittedAnswer, req.ReferenceAnswer)
	semantic := e.semantic.Score(ctx, req.SubmittedAnswer, req.ReferenceAnswer)
	keyword := e.keyword.Score(req.SubmittedAnswer, req.ReferenceAnswer)

	fraction := e.weights.Lexical*lexical + e.weights.Semantic*semantic + e.weights.Keyword*keyword.Score

	finalScore := fraction * maxPoints
	if finalScore < 0 {
		finalScore = 0
	}
	if finalScore > maxPoints {
		finalScore = maxPoints
	}

	result := types.EvaluationResult{
		ComponentScores: types.ComponentScores{
			Lexical:  round4(lexical),
			Semantic: round4(semantic),
			Keyword:  round4(keyword.Score),
		},
		FinalScore:      round2(finalScore),
		MaxPoints:       maxPoints,
		Percentage:      round2(fraction * 100),
		MatchedKeywords: keyword.Matched,
		MissedKeywords:  keyword.Missed,
	}

	if req.UseFeedback && fraction < e.feedbackThreshold && chat != nil {
		if feedback, err := e.generateFeedback(ctx, req, result.Percentage, chat); err != nil {
			slog.Error("Failed to generate grading feedback, omitting",
				slog.String("driver", chat.Name()), slog.Any("error", err))
		} else {
			result.Feedback = feedback
		}
	}

	return result
}

// generateFeedback 自由生成改进建议，不走 RAG 检索。临时性失败重试一次。
func (e *HybridEvaluator) generateFeedback(ctx context.Context, req types.EvaluationRequest, percentage float64, chat ai.ChatAI) (string, error) {
	query := []*types.MessageContext{
		{
			Role:    types.USER_ROLE_USER.String(),
			Content: "Please give feedback on my answer.",
		},
	}

	opts := ai.NewQueryOptions(ctx, chat, query).
		WithPrompt(ai.PROMPT_GRADING_FEEDBACK_EN).
		WithVar("${question}", req.Question).
		WithVar("${reference}", req.ReferenceAnswer).
		WithVar("${submitted}", req.SubmittedAnswer).
		WithVar("${percentage}", fmt.Sprintf("%.1f", percentage))

	resp, err := opts.Query()
	if err != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
		}
		if resp, err = opts.Query(); err != nil {
			return "", err
		}
	}

	return strings.TrimSpace(resp.Message()), nil
}

// EvaluateChoice 选择题与判断题精确匹配，不给部分分。
func EvaluateChoice(submitted, correct string, maxPoints float64) types.ChoiceResult {
	if maxPoints <= 0 {
		maxPoints = 1.0
	}

	isCorrect := strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))

	result := types.ChoiceResult{IsCorrect: isCorrect}
	if isCorrect {
		result.Score = maxPoints
		result.Feedback = "Correct!"
	} else {
		result.Feedback = fmt.Sprintf("Incorrect. The correct answer is: %s", correct)
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
