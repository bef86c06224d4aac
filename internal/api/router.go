package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1arunjyoti/resume-builder/internal/api/middleware"
	"github.com/1arunjyoti/resume-builder/internal/config"
	"github.com/1arunjyoti/resume-builder/internal/metrics"
)

// NewRouter 构建 Gin 路由引擎并挂载基础中间件。
func NewRouter(_ *config.Config, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
