package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/tutornest-ai/tutornest/app/logic/v1"
	"github.com/tutornest-ai/tutornest/app/response"
	"github.com/tutornest-ai/tutornest/pkg/types"
	"github.com/tutornest-ai/tutornest/pkg/utils"
)

type EvaluateAnswerRequest struct {
	Question        string  `json:"question"`
	SubmittedAnswer string  `json:"submitted_answer" binding:"required"`
	ReferenceAnswer string  `json:"reference_answer" binding:"required"`
	MaxPoints       float64 `json:"max_points"`
	UseFeedback     bool    `json:"use_feedback"`
	Provider        string  `json:"provider"`
}

func (s *HttpSrv) EvaluateAnswer(c *gin.Context) {
	var req EvaluateAnswerRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, err := v1.NewEvaluateLogic(c, s.Core).EvaluateAnswer(types.EvaluationRequest{
		Question:        req.Question,
		SubmittedAnswer: req.SubmittedAnswer,
		ReferenceAnswer: req.ReferenceAnswer,
		MaxPoints:       req.MaxPoints,
		UseFeedback:     req.UseFeedback,
	}, req.Provider)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}

type EvaluateChoiceRequest struct {
	SubmittedAnswer string  `json:"submitted_answer" binding:"required"`
	CorrectAnswer   string  `json:"correct_answer" binding:"required"`
	MaxPoints       float64 `json:"max_points"`
}

func (s *HttpSrv) EvaluateChoice(c *gin.Context) {
	var req EvaluateChoiceRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	result, err := v1.NewEvaluateLogic(c, s.Core).EvaluateChoice(req.SubmittedAnswer, req.CorrectAnswer, req.MaxPoints)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}
