package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tutornest-ai/tutornest/app/core"
	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/errors"
	"github.com/tutornest-ai/tutornest/pkg/i18n"
	"github.com/tutornest-ai/tutornest/pkg/scoring"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

type EvaluateLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewEvaluateLogic(ctx context.Context, core *core.Core) *EvaluateLogic {
	return &EvaluateLogic{
		ctx:  ctx,
		core: core,
	}
}

// EvaluateAnswer 混合评分短问答。评分本身不依赖模型调用，
// 只有低分点评这一步会按需请求聊天模型。
func (l *EvaluateLogic) EvaluateAnswer(req types.EvaluationRequest, provider string) (*types.EvaluationResult, error) {
	if strings.TrimSpace(req.ReferenceAnswer) == "" {
		return nil, errors.New("EvaluateLogic.EvaluateAnswer.reference", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	cfg := l.core.Cfg().Scoring
	evaluator := scoring.NewHybridEvaluator(l.core.Srv().AI().Embedding(), cfg.Weights, cfg.FeedbackThreshold)

	// 点评是可选增强，驱动解析失败只丢掉点评，评分照常进行
	var chat ai.ChatAI
	if req.UseFeedback {
		driver, err := l.core.Srv().AI().ChatDriver(provider)
		if err != nil {
			slog.Warn("Unknown feedback provider, scoring without feedback",
				slog.String("provider", provider), slog.Any("error", err))
		} else {
			chat = driver
		}
	}

	result := evaluator.Evaluate(l.ctx, req, chat)
	return &result, nil
}

// EvaluateChoice 选择题与判断题精确匹配
func (l *EvaluateLogic) EvaluateChoice(submitted, correct string, maxPoints float64) (*types.ChoiceResult, error) {
	if strings.TrimSpace(correct) == "" {
		return nil, errors.New("EvaluateLogic.EvaluateChoice.correct", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	result := scoring.EvaluateChoice(submitted, correct, maxPoints)
	return &result, nil
}
