package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/tutornest-ai/tutornest/app/logic/v1"
	"github.com/tutornest-ai/tutornest/app/response"
	"github.com/tutornest-ai/tutornest/pkg/types"
	"github.com/tutornest-ai/tutornest/pkg/utils"
)

type QueryTutorRequest struct {
	UserID   string `json:"user_id" binding:"required,max=64"`
	Question string `json:"question" binding:"required"`
}

func (s *HttpSrv) QueryTutor(c *gin.Context) {
	var req QueryTutorRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	resp, err := v1.NewTutorLogic(c, s.Core).QueryTutor(c.Param("kbid"), req.UserID, req.Question)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, resp)
}

type ListHistoryRequest struct {
	UserID string `json:"user_id" form:"user_id" binding:"required,max=64"`
	Limit  uint64 `json:"limit" form:"limit" binding:"lte=100"`
}

type ListHistoryResponse struct {
	List []types.ChatMessage `json:"list"`
}

func (s *HttpSrv) ListChatHistory(c *gin.Context) {
	var req ListHistoryRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if req.Limit == 0 {
		req.Limit = uint64(s.Core.Cfg().RAG.HistoryLimit)
	}

	list, err := v1.NewTutorLogic(c, s.Core).ListHistory(c.Param("kbid"), req.UserID, req.Limit)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListHistoryResponse{List: list})
}

type ClearHistoryRequest struct {
	UserID string `json:"user_id" form:"user_id" binding:"required,max=64"`
}

func (s *HttpSrv) ClearChatHistory(c *gin.Context) {
	var req ClearHistoryRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if err := v1.NewTutorLogic(c, s.Core).ClearHistory(c.Param("kbid"), req.UserID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}
