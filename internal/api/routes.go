package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/1arunjyoti/resume-builder/internal/api/middleware"
	"github.com/1arunjyoti/resume-builder/internal/auth"
	"github.com/1arunjyoti/resume-builder/internal/config"
	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/settings"
	"github.com/1arunjyoti/resume-builder/internal/storage"
	"github.com/1arunjyoti/resume-builder/internal/store"
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	st *store.Store,
	repo *database.Repo,
	settingsService *settings.Service,
	gate *auth.Gate,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
) {
	resumeHandler := NewResumeHandler(st, repo, asynqClient, storageClient)
	settingsHandler := NewSettingsHandler(settingsService)
	assistHandler := NewAssistHandler(settingsService)
	gateHandler := NewGateHandler(gate)
	assetHandler := NewAssetHandler(storageClient, repo, logger, redisClient, cfg.Assets)
	wsHandler := NewWsHandler(redisClient, gate, logger, nil)
	gateMiddleware := middleware.GateMiddleware(gate)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		gateGroup := v1.Group("/gate")
		{
			gateGroup.GET("/status", gateHandler.Status)
			gateGroup.POST("/unlock", gateHandler.Unlock)
		}

		resumeGroup := v1.Group("/resume")
		resumeGroup.Use(gateMiddleware)
		{
			resumeGroup.GET("", resumeHandler.ListResumes)
			resumeGroup.POST("", resumeHandler.CreateResume)
			resumeGroup.POST("/import", resumeHandler.ImportResume)
			resumeGroup.GET("/current", resumeHandler.GetCurrentResume)
			resumeGroup.PUT("/current", resumeHandler.UpdateCurrentResume)
			resumeGroup.POST("/current/save", resumeHandler.SaveCurrentResume)
			resumeGroup.POST("/current/reset", resumeHandler.ResetCurrentResume)
			resumeGroup.GET("/current/export", resumeHandler.ExportCurrentResume)
			resumeGroup.POST("/:id/load", resumeHandler.LoadResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)
			resumeGroup.POST("/:id/download", resumeHandler.DownloadResume)
			resumeGroup.GET("/:id/download-link", resumeHandler.GetDownloadLink)
		}

		settingsGroup := v1.Group("/settings")
		settingsGroup.Use(gateMiddleware)
		{
			settingsGroup.GET("/assist", settingsHandler.GetAssistSettings)
			settingsGroup.PUT("/assist", settingsHandler.UpdateAssistSettings)
		}

		assistGroup := v1.Group("/assist")
		assistGroup.Use(gateMiddleware)
		{
			assistGroup.POST("/rewrite", assistHandler.Rewrite)
			assistGroup.POST("/summary", assistHandler.Summary)
			assistGroup.POST("/analyze", assistHandler.Analyze)
		}

		assetGroup := v1.Group("/assets")
		assetGroup.Use(gateMiddleware)
		{
			assetGroup.POST("/upload", assetHandler.UploadAsset)
			assetGroup.GET("", assetHandler.ListAssets)
			assetGroup.GET("/view", assetHandler.GetAssetURL)
			assetGroup.DELETE("", assetHandler.DeleteAsset)
		}
	}

	internal := router.Group("/internal")
	internal.Use(middleware.InternalSecretMiddleware(cfg.Export.InternalSecret))
	{
		internal.GET("/print-data/:id", resumeHandler.GetPrintResumeData)
	}
}
