package gemini

import (
	"context"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/types"
)

const (
	NAME = "gemini"

	EMBEDDING_MODEL = "embedding-001"
)

type Driver struct {
	client *genai.Client
	model  ai.ModelName
}

func New(token string, model ai.ModelName) *Driver {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(token))
	if err != nil {
		panic(err)
	}

	if model.ChatModel == "" {
		model.ChatModel = "gemini-1.5-flash"
	}
	if model.EmbeddingModel == "" {
		model.EmbeddingModel = EMBEDDING_MODEL
	}

	return &Driver{
		client: client,
		model:  model,
	}
}

func (s *Driver) Lang() string {
	return ai.MODEL_BASE_LANGUAGE_EN
}

func (s *Driver) Name() string {
	return NAME
}

func (s *Driver) embedding(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	slog.Debug("Embedding", slog.String("driver", NAME), slog.Int("contents", len(content)))
	em := s.client.EmbeddingModel(s.model.EmbeddingModel)
	// 索引文档与检索查询使用不同的任务类型，Gemini 会针对性调整向量空间
	if title != "" {
		em.TaskType = genai.TaskTypeRetrievalDocument
	} else {
		em.TaskType = genai.TaskTypeRetrievalQuery
	}

	result := ai.EmbeddingResult{
		Model: s.model.EmbeddingModel,
	}

	batch := em.NewBatch()
	for _, v := range content {
		if title != "" {
			batch = batch.AddContentWithTitle(title, genai.Text(v))
		} else {
			batch = batch.AddContent(genai.Text(v))
		}
	}

	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return result, err
	}

	for _, v := range res.Embeddings {
		result.Data = append(result.Data, v.Values)
	}
	return result, nil
}

func (s *Driver) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, "", content)
}

func (s *Driver) EmbeddingForDocument(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, title, content)
}

func (s *Driver) Query(ctx context.Context, query []*types.MessageContext) (ai.GenerateResponse, error) {
	var result ai.GenerateResponse

	model := s.client.GenerativeModel(s.model.ChatModel)

	// system 消息走 SystemInstruction，其余消息作为多轮对话历史
	var history []*genai.Content
	for _, v := range query {
		switch v.Role {
		case types.USER_ROLE_SYSTEM.String():
			model.SystemInstruction = genai.NewUserContent(genai.Text(v.Content))
		case types.USER_ROLE_ASSISTANT.String():
			history = append(history, &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text(v.Content)},
			})
		default:
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(v.Content)},
			})
		}
	}

	if len(history) == 0 {
		return result, ai.ErrInvalidInput
	}

	last := history[len(history)-1]

	cs := model.StartChat()
	cs.History = history[:len(history)-1]

	slog.Debug("Query", slog.String("driver", NAME), slog.String("model", s.model.ChatModel), slog.Int("history", len(cs.History)))

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return result, err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				result.Received = append(result.Received, string(text))
			}
		}
	}

	result.Model = s.model.ChatModel
	return result, nil
}

func (s *Driver) Close() error {
	return s.client.Close()
}
