package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/tutornest-ai/tutornest/app/logic/v1"
	"github.com/tutornest-ai/tutornest/app/response"
	"github.com/tutornest-ai/tutornest/pkg/types"
	"github.com/tutornest-ai/tutornest/pkg/utils"
)

type CreateKnowledgeBaseRequest struct {
	Name         string `json:"name" binding:"required,max=128"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
	Provider     string `json:"provider"`
	ChatModel    string `json:"chat_model"`
}

type CreateKnowledgeBaseResponse struct {
	ID string `json:"id"`
}

func (s *HttpSrv) CreateKnowledgeBase(c *gin.Context) {
	var req CreateKnowledgeBaseRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	kb, err := v1.NewKnowledgeBaseLogic(c, s.Core).CreateKnowledgeBase(req.Name, req.Description, req.SystemPrompt, req.Provider, req.ChatModel)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, CreateKnowledgeBaseResponse{ID: kb.ID})
}

func (s *HttpSrv) GetKnowledgeBase(c *gin.Context) {
	kb, err := v1.NewKnowledgeBaseLogic(c, s.Core).GetKnowledgeBase(c.Param("kbid"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, kb)
}

type UpdateKnowledgeBaseRequest struct {
	Name         string `json:"name" binding:"required,max=128"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
	Provider     string `json:"provider"`
	ChatModel    string `json:"chat_model"`
}

func (s *HttpSrv) UpdateKnowledgeBase(c *gin.Context) {
	var req UpdateKnowledgeBaseRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	err := v1.NewKnowledgeBaseLogic(c, s.Core).UpdateKnowledgeBase(c.Param("kbid"), types.UpdateKnowledgeBaseArgs{
		Name:         req.Name,
		Description:  req.Description,
		SystemPrompt: req.SystemPrompt,
		Provider:     req.Provider,
		ChatModel:    req.ChatModel,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteKnowledgeBase(c *gin.Context) {
	if err := v1.NewKnowledgeBaseLogic(c, s.Core).DeleteKnowledgeBase(c.Param("kbid")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type ListKnowledgeBaseRequest struct {
	Page     uint64 `json:"page" form:"page" binding:"required"`
	PageSize uint64 `json:"pagesize" form:"pagesize" binding:"required,lte=50"`
}

type ListKnowledgeBaseResponse struct {
	List  []types.KnowledgeBase `json:"list"`
	Total int64                 `json:"total"`
}

func (s *HttpSrv) ListKnowledgeBases(c *gin.Context) {
	var req ListKnowledgeBaseRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewKnowledgeBaseLogic(c, s.Core).ListKnowledgeBases(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListKnowledgeBaseResponse{
		List:  list,
		Total: total,
	})
}
