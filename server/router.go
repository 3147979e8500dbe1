package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/uslanozan/asset-smith/logger"
)

type RouterConfig struct {
	ServiceName  string
	Log          *logger.Logger
	DB           *gorm.DB
	AssetHandler *AssetHandler
	AgentHandler *AgentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.ServiceName),
		RequestID(cfg.Log),
		RequestLogger(cfg.Log),
		CORS(),
	)

	router.GET("/healthcheck", HealthCheck(cfg.DB))

	// Assets
	assets := router.Group("/assets")
	{
		assets.POST("", cfg.AssetHandler.Create)
		assets.GET("", cfg.AssetHandler.List)
		assets.GET("/:asset_id", cfg.AssetHandler.Get)
		assets.PUT("/:asset_id", cfg.AssetHandler.Update)
		assets.DELETE("/:asset_id", cfg.AssetHandler.Delete)
	}

	// Agent
	ag := router.Group("/agent")
	{
		ag.POST("/query", cfg.AgentHandler.Query)
		ag.GET("/tools", cfg.AgentHandler.Tools)
		ag.GET("/sessions/:session_id", cfg.AgentHandler.Session)
		ag.DELETE("/sessions/:session_id", cfg.AgentHandler.ClearSession)
	}

	return router
}
