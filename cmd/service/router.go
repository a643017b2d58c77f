package service

import (
	"github.com/gin-gonic/gin"

	"github.com/tutornest-ai/tutornest/app/core"
	"github.com/tutornest-ai/tutornest/app/response"
	"github.com/tutornest-ai/tutornest/cmd/service/handler"
	"github.com/tutornest-ai/tutornest/cmd/service/middleware"
	"github.com/tutornest-ai/tutornest/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetIPLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			return c.ClientIP()
		}, opts...)
	}
}

func GetKnowledgeBaseLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			kbid, _ := c.Params.Get("kbid")
			return kbid
		}, opts...)
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	ipLimit := GetIPLimitBuilder(s.Core)
	kbLimit := GetKnowledgeBaseLimitBuilder(s.Core)

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)

	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.GET("/ai/providers", s.ListAIProviders)

		knowledgeBase := apiV1.Group("/knowledge-base")
		{
			knowledgeBase.POST("", ipLimit("kb_modify"), s.CreateKnowledgeBase)
			knowledgeBase.GET("/list", s.ListKnowledgeBases)
			knowledgeBase.GET("/:kbid", s.GetKnowledgeBase)
			knowledgeBase.PUT("/:kbid", ipLimit("kb_modify"), s.UpdateKnowledgeBase)
			knowledgeBase.DELETE("/:kbid", ipLimit("kb_modify"), s.DeleteKnowledgeBase)

			document := knowledgeBase.Group("/:kbid/document")
			{
				document.POST("", kbLimit("ingest"), s.UploadDocument)
				document.GET("/list", s.ListDocuments)
				document.GET("/:docid", s.GetDocument)
				document.DELETE("/:docid", s.DeleteDocument)
			}

			chat := knowledgeBase.Group("/:kbid/chat")
			{
				chat.POST("/query", kbLimit("chat_query"), s.QueryTutor)
				chat.GET("/history", s.ListChatHistory)
				chat.DELETE("/history", s.ClearChatHistory)
			}
		}

		evaluate := apiV1.Group("/evaluate")
		{
			evaluate.POST("/answer", ipLimit("evaluate"), s.EvaluateAnswer)
			evaluate.POST("/choice", s.EvaluateChoice)
		}

		apiV1.POST("/quiz/generate", ipLimit("quiz"), s.GenerateQuiz)
	}
}
