package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/tutornest-ai/tutornest/app/logic/v1"
	"github.com/tutornest-ai/tutornest/app/response"
	"github.com/tutornest-ai/tutornest/pkg/types"
	"github.com/tutornest-ai/tutornest/pkg/utils"
)

type GenerateQuizRequest struct {
	KnowledgeBaseID string               `json:"knowledge_base_id"`
	Topic           string               `json:"topic"`
	Content         string               `json:"content"`
	NumQuestions    int                  `json:"num_questions" binding:"lte=20"`
	QuestionTypes   []types.QuestionType `json:"question_types"`
	Difficulty      string               `json:"difficulty"`
	Provider        string               `json:"provider"`
}

// GenerateQuiz 出题来源三选一，优先级：知识库检索 > 原文 > 主题。
func (s *HttpSrv) GenerateQuiz(c *gin.Context) {
	var req GenerateQuizRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	args := v1.QuizGenerateArgs{
		Topic:         req.Topic,
		Content:       req.Content,
		NumQuestions:  req.NumQuestions,
		QuestionTypes: req.QuestionTypes,
		Difficulty:    req.Difficulty,
		Provider:      req.Provider,
	}

	logic := v1.NewQuizLogic(c, s.Core)

	var (
		result *types.QuizGenerateResult
		err    error
	)
	switch {
	case req.KnowledgeBaseID != "":
		result, err = logic.GenerateFromKnowledgeBase(req.KnowledgeBaseID, args)
	case req.Content != "":
		result, err = logic.GenerateFromContent(args)
	default:
		result, err = logic.GenerateFromTopic(args)
	}
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}
