package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tutornest-ai/tutornest/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
