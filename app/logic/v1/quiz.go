package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/tutornest-ai/tutornest/app/core"
	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/errors"
	"github.com/tutornest-ai/tutornest/pkg/i18n"
	"github.com/tutornest-ai/tutornest/pkg/rag"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

const (
	QUIZ_SOURCE_TOPIC   = "topic"
	QUIZ_SOURCE_CONTENT = "content"
	QUIZ_SOURCE_RAG     = "rag"

	defaultQuizQuestions = 5
	maxQuizQuestions     = 20
)

type QuizLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewQuizLogic(ctx context.Context, core *core.Core) *QuizLogic {
	return &QuizLogic{
		ctx:  ctx,
		core: core,
	}
}

type QuizGenerateArgs struct {
	Topic         string               `json:"topic"`
	Content       string               `json:"content"`
	NumQuestions  int                  `json:"num_questions"`
	QuestionTypes []types.QuestionType `json:"question_types"`
	Difficulty    string               `json:"difficulty"`
	Provider      string               `json:"provider"`
}

func (args *QuizGenerateArgs) formalize() {
	if args.NumQuestions <= 0 {
		args.NumQuestions = defaultQuizQuestions
	}
	if args.NumQuestions > maxQuizQuestions {
		args.NumQuestions = maxQuizQuestions
	}
	if len(args.QuestionTypes) == 0 {
		args.QuestionTypes = []types.QuestionType{types.QUESTION_TYPE_MCQ, types.QUESTION_TYPE_TRUE_FALSE}
	}
	if args.Difficulty == "" {
		args.Difficulty = "medium"
	}
}

// GenerateFromTopic 依据主题自由出题，不依赖课程材料。
func (l *QuizLogic) GenerateFromTopic(args QuizGenerateArgs) (*types.QuizGenerateResult, error) {
	if strings.TrimSpace(args.Topic) == "" {
		return nil, errors.New("QuizLogic.GenerateFromTopic.topic", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	args.formalize()

	driver, err := l.core.Srv().AI().ChatDriver(args.Provider)
	if err != nil {
		return nil, errors.Trace("QuizLogic.GenerateFromTopic", err)
	}

	opts := l.quizQuery(driver, ai.PROMPT_QUIZ_FROM_TOPIC_EN, args).
		WithVar("${topic}", args.Topic).
		WithVar("${difficulty}", args.Difficulty)

	result, err := l.generate(driver, opts)
	if err != nil {
		return nil, errors.Trace("QuizLogic.GenerateFromTopic", err)
	}
	result.Source = QUIZ_SOURCE_TOPIC
	return result, nil
}

// GenerateFromContent 严格依据给定文本出题。
func (l *QuizLogic) GenerateFromContent(args QuizGenerateArgs) (*types.QuizGenerateResult, error) {
	if strings.TrimSpace(args.Content) == "" {
		return nil, errors.New("QuizLogic.GenerateFromContent.content", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	args.formalize()

	driver, err := l.core.Srv().AI().ChatDriver(args.Provider)
	if err != nil {
		return nil, errors.Trace("QuizLogic.GenerateFromContent", err)
	}

	opts := l.quizQuery(driver, ai.PROMPT_QUIZ_FROM_CONTENT_EN, args).
		WithVar("${content}", args.Content)

	result, err := l.generate(driver, opts)
	if err != nil {
		return nil, errors.Trace("QuizLogic.GenerateFromContent", err)
	}
	result.Source = QUIZ_SOURCE_CONTENT
	return result, nil
}

// GenerateFromKnowledgeBase 先按主题检索课程材料，再依据命中的分块出题。
// 检索不到相关内容时返回不可出题的明确错误而不是让模型自由发挥。
func (l *QuizLogic) GenerateFromKnowledgeBase(knowledgeBaseID string, args QuizGenerateArgs) (*types.QuizGenerateResult, error) {
	if strings.TrimSpace(args.Topic) == "" {
		return nil, errors.New("QuizLogic.GenerateFromKnowledgeBase.topic", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	args.formalize()

	kb, err := NewKnowledgeBaseLogic(l.ctx, l.core).GetKnowledgeBase(knowledgeBaseID)
	if err != nil {
		return nil, errors.Trace("QuizLogic.GenerateFromKnowledgeBase", err)
	}

	provider := args.Provider
	if provider == "" {
		provider = kb.Provider
	}
	driver, err := l.core.Srv().AI().ChatDriver(provider)
	if err != nil {
		return nil, errors.Trace("QuizLogic.GenerateFromKnowledgeBase", err)
	}

	cfg := l.core.Cfg().RAG
	retriever := rag.NewRetriever(l.core.Srv().AI().Embedding(), l.core.Store().VectorStore(), cfg.TopK, cfg.MaxDistance)
	passages := retriever.Retrieve(l.ctx, kb.CollectionID(), args.Topic)
	if len(passages) == 0 {
		return nil, errors.New("QuizLogic.GenerateFromKnowledgeBase.empty", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	content := strings.Join(lo.Map(passages, func(item types.VectorQueryResult, _ int) string {
		return item.Content
	}), "\n------\n")

	opts := l.quizQuery(driver, ai.PROMPT_QUIZ_FROM_CONTENT_EN, args).
		WithVar("${content}", content)

	result, err := l.generate(driver, opts)
	if err != nil {
		return nil, errors.Trace("QuizLogic.GenerateFromKnowledgeBase", err)
	}
	result.Source = QUIZ_SOURCE_RAG
	result.ChunksUsed = len(passages)
	return result, nil
}

func (l *QuizLogic) quizQuery(driver ai.ChatAI, prompt string, args QuizGenerateArgs) *ai.QueryOptions {
	questionTypes := strings.Join(lo.Map(args.QuestionTypes, func(item types.QuestionType, _ int) string {
		return string(item)
	}), ", ")

	query := []*types.MessageContext{
		{
			Role:    types.USER_ROLE_USER.String(),
			Content: "Generate the quiz questions now.",
		},
	}

	return ai.NewQueryOptions(l.ctx, driver, query).
		WithPrompt(prompt).
		WithTimeout(l.core.Srv().AI().QueryTimeout()).
		WithVar("${num_questions}", strconv.Itoa(args.NumQuestions)).
		WithVar("${question_types}", questionTypes)
}

// generate 调用模型并容错解析输出。解析失败不报错，
// 返回带 ParseFailure 的空结果由调用方决定是否重试。
func (l *QuizLogic) generate(driver ai.ChatAI, opts *ai.QueryOptions) (*types.QuizGenerateResult, error) {
	resp, err := opts.Query()
	if err != nil {
		select {
		case <-l.ctx.Done():
			return nil, l.ctx.Err()
		case <-time.After(time.Second):
		}
		if resp, err = opts.Query(); err != nil {
			return nil, errors.New("QuizLogic.generate.Query", i18n.ERROR_AI_UNAVAILABLE, err).Code(http.StatusServiceUnavailable)
		}
	}

	result := &types.QuizGenerateResult{
		Provider: driver.Name(),
		Model:    resp.Model,
	}

	questions, err := ai.ParseJSONArray[types.QuizQuestion](resp.Message())
	if err != nil {
		slog.Warn("Failed to parse quiz questions from model output",
			slog.String("driver", driver.Name()), slog.Any("error", err))
		result.ParseFailure = "model output is not a valid question array"
		return result, nil
	}

	result.Questions = lo.Filter(questions, func(item types.QuizQuestion, _ int) bool {
		return item.QuestionText != "" && item.CorrectAnswer != ""
	})
	return result, nil
}
