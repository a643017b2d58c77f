package mistral

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"

	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

const (
	NAME = "mistral"

	BASE_URL = "https://api.mistral.ai/v1"
)

// Driver 通过 Mistral 的 OpenAI 兼容接口提供聊天与向量化能力。
type Driver struct {
	client *openai.Client
	model  ai.ModelName
}

func New(token, proxy string, model ai.ModelName) *Driver {
	cfg := openai.DefaultConfig(token)
	if proxy != "" {
		cfg.BaseURL = proxy
	} else {
		cfg.BaseURL = BASE_URL
	}

	if model.ChatModel == "" {
		model.ChatModel = "mistral-small-latest"
	}
	if model.EmbeddingModel == "" {
		model.EmbeddingModel = "mistral-embed"
	}

	return &Driver{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (s *Driver) Lang() string {
	return ai.MODEL_BASE_LANGUAGE_EN
}

func (s *Driver) Name() string {
	return NAME
}

func (s *Driver) embedding(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	slog.Debug("Embedding", slog.String("driver", NAME), slog.Int("contents", len(content)))

	result := ai.EmbeddingResult{
		Model: s.model.EmbeddingModel,
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: content,
		Model: openai.EmbeddingModel(s.model.EmbeddingModel),
	})
	if err != nil {
		return result, fmt.Errorf("Embedding error: %w", err)
	}

	result.Usage = &openai.Usage{
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
	for _, v := range resp.Data {
		result.Data = append(result.Data, v.Embedding)
	}
	return result, nil
}

func (s *Driver) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, content)
}

func (s *Driver) EmbeddingForDocument(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	// Mistral 的嵌入接口不区分任务类型，title 仅保持接口一致
	return s.embedding(ctx, content)
}

func (s *Driver) Query(ctx context.Context, query []*types.MessageContext) (ai.GenerateResponse, error) {
	var result ai.GenerateResponse

	req := openai.ChatCompletionRequest{
		Model: s.model.ChatModel,
		Messages: lo.Map(query, func(item *types.MessageContext, _ int) openai.ChatCompletionMessage {
			return openai.ChatCompletionMessage{
				Role:    item.Role,
				Content: item.Content,
			}
		}),
	}

	slog.Debug("Query", slog.String("driver", NAME), slog.String("model", s.model.ChatModel), slog.Int("messages", len(req.Messages)))

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return result, fmt.Errorf("Completion error: %w", err)
	}

	for _, v := range resp.Choices {
		result.Received = append(result.Received, v.Message.Content)
	}

	result.Model = resp.Model
	result.Usage = &resp.Usage
	return result, nil
}
