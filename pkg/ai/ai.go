package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"

	"github.com/tutornest-ai/tutornest/pkg/types"
)

// 错误分级：ErrInvalidInput 直接返回调用方不重试；
// ErrEmbedding / ErrModelBackend 属于临时性故障，由上层重试一次后降级。
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmbedding    = errors.New("embedding failed")
	ErrModelBackend = errors.New("model backend failed")
)

type ModelName struct {
	ChatModel      string `toml:"chat_model"`
	EmbeddingModel string `toml:"embedding_model"`
}

// ChatAI 聊天模型驱动，所有提供商实现统一接口，由知识库配置选择。
type ChatAI interface {
	Query(ctx context.Context, query []*types.MessageContext) (GenerateResponse, error)
	Lang() string
	Name() string
}

// EmbeddingAI 向量化驱动。索引与查询必须使用同一驱动实例，
// 否则最近邻距离没有意义。
type EmbeddingAI interface {
	EmbeddingForQuery(ctx context.Context, content []string) (EmbeddingResult, error)
	EmbeddingForDocument(ctx context.Context, title string, content []string) (EmbeddingResult, error)
}

type GenerateResponse struct {
	Received []string      `json:"received"`
	Usage    *openai.Usage `json:"-"`
	Model    string        `json:"model"`
}

func (r GenerateResponse) Message() string {
	b := strings.Builder{}

	for i, item := range r.Received {
		if i != 0 {
			b.WriteString("\n")
		}
		b.WriteString(item)
	}

	return b.String()
}

type EmbeddingResult struct {
	Model string
	Usage *openai.Usage
	Data  [][]float32
}

const (
	MODEL_BASE_LANGUAGE_CN = "CN"
	MODEL_BASE_LANGUAGE_EN = "EN"
)

// DEFAULT_QUERY_TIMEOUT 单次模型调用的兜底超时，后端挂死不能拖垮整条链路。
const DEFAULT_QUERY_TIMEOUT = time.Second * 60

func NewQueryOptions(ctx context.Context, driver ChatAI, query []*types.MessageContext) *QueryOptions {
	return &QueryOptions{
		ctx:     ctx,
		_driver: driver,
		query:   query,
		timeout: DEFAULT_QUERY_TIMEOUT,
	}
}

type QueryOptions struct {
	ctx     context.Context
	_driver ChatAI
	query   []*types.MessageContext
	prompt  string
	vars    map[string]string
	timeout time.Duration
}

func (s *QueryOptions) WithTimeout(timeout time.Duration) *QueryOptions {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

func (s *QueryOptions) WithPrompt(prompt string) *QueryOptions {
	s.prompt = strings.TrimSpace(prompt)
	return s
}

func (s *QueryOptions) WithVar(key, value string) *QueryOptions {
	if s.vars == nil {
		s.vars = make(map[string]string)
	}

	s.vars[key] = value
	return s
}

// Query 将组装好的 system prompt 注入消息头部后调用驱动。
func (s *QueryOptions) Query() (GenerateResponse, error) {
	for k, v := range s.vars {
		s.prompt = strings.ReplaceAll(s.prompt, k, v)
	}

	if s.prompt != "" {
		if len(s.query) == 0 || s.query[0].Role != types.USER_ROLE_SYSTEM.String() {
			s.query = append([]*types.MessageContext{
				{
					Role:    types.USER_ROLE_SYSTEM.String(),
					Content: s.prompt,
				},
			}, s.query...)
		}
	}

	ctx := s.ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	return s._driver.Query(ctx, s.query)
}

// NumTokens 估算消息的 token 数，用于控制提示词上下文不超限。
func NumTokens(messages []openai.ChatCompletionMessage, model string) (numTokens int, err error) {
	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		if tkm, err = tiktoken.GetEncoding("cl100k_base"); err != nil {
			return 0, err
		}
	}

	for _, message := range messages {
		numTokens += 3
		numTokens += len(tkm.Encode(message.Content, nil, nil))
		numTokens += len(tkm.Encode(message.Role, nil, nil))
	}
	numTokens += 3
	return numTokens, nil
}
