package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tutornest-ai/tutornest/app/response"
)

type ListProvidersResponse struct {
	Providers []string `json:"providers"`
}

func (s *HttpSrv) ListAIProviders(c *gin.Context) {
	response.APISuccess(c, ListProvidersResponse{
		Providers: s.Core.Srv().AI().Providers(),
	})
}
