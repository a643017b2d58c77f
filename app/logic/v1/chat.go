package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"

	"github.com/tutornest-ai/tutornest/app/core"
	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/errors"
	"github.com/tutornest-ai/tutornest/pkg/i18n"
	"github.com/tutornest-ai/tutornest/pkg/rag"
	"github.com/tutornest-ai/tutornest/pkg/types"
	"github.com/tutornest-ai/tutornest/pkg/utils"
)

// historyLocks 同一 (知识库, 用户) 的历史写入串行化，
// 保证提问与回答成对追加、顺序不乱。
var historyLocks = cmap.New[*sync.Mutex]()

// passageTokenBudget 拼入提示词的检索内容 token 上限，超出部分按检索顺序丢弃。
const passageTokenBudget = 4000

type TutorLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewTutorLogic(ctx context.Context, core *core.Core) *TutorLogic {
	return &TutorLogic{
		ctx:  ctx,
		core: core,
	}
}

type TutorResponse struct {
	Answer   string `json:"answer"`
	Grounded bool   `json:"grounded"`
	Degraded bool   `json:"degraded"` // 检索命中但模型后端持续失败
}

// QueryTutor 带检索落地的导师问答。检索不到相关内容时直接拒答，
// 不调用模型，杜绝模型用通用知识编造答案。
func (l *TutorLogic) QueryTutor(knowledgeBaseID, userID, question string) (*TutorResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("TutorLogic.QueryTutor.empty", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	kb, err := NewKnowledgeBaseLogic(l.ctx, l.core).GetKnowledgeBase(knowledgeBaseID)
	if err != nil {
		return nil, errors.Trace("TutorLogic.QueryTutor", err)
	}

	driver, err := l.core.Srv().AI().ChatDriver(kb.Provider)
	if err != nil {
		return nil, errors.Trace("TutorLogic.QueryTutor", err)
	}

	cfg := l.core.Cfg().RAG
	retriever := rag.NewRetriever(l.core.Srv().AI().Embedding(), l.core.Store().VectorStore(), cfg.TopK, cfg.MaxDistance)
	passages := capPassages(retriever.Retrieve(l.ctx, kb.CollectionID(), question))

	var history []*types.MessageContext
	if len(passages) > 0 {
		if history, err = l.listRecentHistory(kb.ID, userID, uint64(cfg.HistoryLimit)); err != nil {
			slog.Error("Failed to load chat history, continuing without it",
				slog.String("knowledge_base_id", kb.ID), slog.Any("error", err))
		}
	}

	var timer *prometheus.Timer
	if len(passages) > 0 {
		timer = l.core.Metrics().ModelRequestTimer(driver.Name())
	}
	resp := answerFromPassages(l.ctx, driver, kb.SystemPrompt, passages, history, question, l.core.Srv().AI().QueryTimeout())
	if timer != nil {
		timer.ObserveDuration()
	}

	switch {
	case resp.Grounded:
		l.core.Metrics().TutorQueryInc("grounded")
	case resp.Degraded:
		l.core.Metrics().ModelErrorInc(driver.Name())
		l.core.Metrics().TutorQueryInc("degraded")
	default:
		l.core.Metrics().TutorQueryInc("declined")
	}

	l.appendHistory(kb.ID, userID, question, resp.Answer, resp.Grounded)
	return resp, nil
}

// answerFromPassages 回答决策：检索没有命中时直接拒答，模型不会被调用；
// 命中后组装提示词调用模型，后端持续失败时降级。
func answerFromPassages(ctx context.Context, driver ai.ChatAI, persona string, passages []string, history []*types.MessageContext, question string, timeout time.Duration) *TutorResponse {
	if len(passages) == 0 {
		return &TutorResponse{
			Answer:   ai.DeclineMessage(driver),
			Grounded: false,
		}
	}

	prompt := ai.BuildTutorPrompt(persona, ai.NewDocs(passages), driver)
	query := append(history, &types.MessageContext{
		Role:    types.USER_ROLE_USER.String(),
		Content: question,
	})

	answer, err := queryModelWithRetry(ctx, driver, prompt, query, timeout)
	if err != nil {
		slog.Error("Model backend failed after retry, degrading",
			slog.String("driver", driver.Name()), slog.Any("error", err))
		return &TutorResponse{
			Answer:   ai.DegradedMessage(driver),
			Grounded: false,
			Degraded: true,
		}
	}

	return &TutorResponse{
		Answer:   answer,
		Grounded: true,
	}
}

// queryModelWithRetry 临时性后端错误退避后重试一次，调用方取消时立即放弃。
func queryModelWithRetry(ctx context.Context, driver ai.ChatAI, prompt string, query []*types.MessageContext, timeout time.Duration) (string, error) {
	opts := ai.NewQueryOptions(ctx, driver, query).WithPrompt(prompt).WithTimeout(timeout)

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
	return resp.Message(), nil
}

// capPassages 按检索顺序保留 token 预算内的分块。
func capPassages(passages []types.VectorQueryResult) []string {
	var (
		result []string
		used   int
	)
	for _, v := range passages {
		tokens, err := ai.NumTokens([]openai.ChatCompletionMessage{{Role: "user", Content: v.Content}}, "gpt-3.5-turbo")
		if err != nil {
			tokens = len(v.Content) / 4
		}
		if used+tokens > passageTokenBudget && len(result) > 0 {
			break
		}
		used += tokens
		result = append(result, v.Content)
	}
	return result
}

// appendHistory 先问题后回答成对落库。历史写入失败只记日志，
// 已经给到用户的回答不应因此报错。
func (l *TutorLogic) appendHistory(knowledgeBaseID, userID, question, answer string, grounded bool) {
	lockKey := knowledgeBaseID + "/" + userID
	mu := historyLocks.Upsert(lockKey, nil, func(exist bool, valueInMap, _ *sync.Mutex) *sync.Mutex {
		if exist {
			return valueInMap
		}
		return &sync.Mutex{}
	})
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().Unix()
	msgs := []types.ChatMessage{
		{
			ID:              utils.GenUniqIDStr(),
			KnowledgeBaseID: knowledgeBaseID,
			UserID:          userID,
			Role:            types.USER_ROLE_USER,
			Message:         question,
			SendTime:        now,
		},
		{
			ID:              utils.GenUniqIDStr(),
			KnowledgeBaseID: knowledgeBaseID,
			UserID:          userID,
			Role:            types.USER_ROLE_ASSISTANT,
			Message:         answer,
			Grounded:        grounded,
			SendTime:        now,
		},
	}

	for _, msg := range msgs {
		if err := l.core.Store().ChatMessageStore().Create(l.ctx, msg); err != nil {
			slog.Error("Failed to append chat history",
				slog.String("knowledge_base_id", knowledgeBaseID),
				slog.String("user_id", userID),
				slog.Any("error", err))
			return
		}
	}
}

func (l *TutorLogic) listRecentHistory(knowledgeBaseID, userID string, limit uint64) ([]*types.MessageContext, error) {
	msgs, err := l.core.Store().ChatMessageStore().ListChatMessages(l.ctx, knowledgeBaseID, userID, limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return lo.Map(msgs, func(item types.ChatMessage, _ int) *types.MessageContext {
		return &types.MessageContext{
			Role:    item.Role.String(),
			Content: item.Message,
		}
	}), nil
}

// ListHistory 按时间正序返回对话记录
func (l *TutorLogic) ListHistory(knowledgeBaseID, userID string, limit uint64) ([]types.ChatMessage, error) {
	msgs, err := l.core.Store().ChatMessageStore().ListChatMessages(l.ctx, knowledgeBaseID, userID, limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("TutorLogic.ListHistory.ChatMessageStore.ListChatMessages", i18n.ERROR_INTERNAL, err)
	}
	return msgs, nil
}

// ClearHistory 清空该用户在该知识库下的全部对话
func (l *TutorLogic) ClearHistory(knowledgeBaseID, userID string) error {
	if err := l.core.Store().ChatMessageStore().Clear(l.ctx, knowledgeBaseID, userID); err != nil {
		return errors.New("TutorLogic.ClearHistory.ChatMessageStore.Clear", i18n.ERROR_INTERNAL, err)
	}
	return nil
}
