package core

import (
	"net/http"
	"time"

	"github.com/anoixa/gen-studio/api/common"
	handlerHistory "github.com/anoixa/gen-studio/api/handler/history"
	handlerImages "github.com/anoixa/gen-studio/api/handler/images"
	"github.com/anoixa/gen-studio/api/middleware"
	"github.com/anoixa/gen-studio/config"
	"github.com/anoixa/gen-studio/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// ServerDependencies 服务器依赖项
type ServerDependencies struct {
	Config *config.Config

	// Provider 为 nil 时历史/图片接口统一返回 "storage not configured"
	Provider storage.Provider
}

// setupRouter 启动gin
func setupRouter(deps *ServerDependencies) (*gin.Engine, func()) {
	cfg := deps.Config

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 全局中间件
	if config.IsDevelopment() {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", handlerHistory.CredentialHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)

	// 并发限制，避免内存过载
	concurrencyLimiter := middleware.NewConcurrencyLimiter(cfg.MaxConcurrentRequests)
	router.Use(concurrencyLimiter.Middleware())

	// 请求ID追踪
	router.Use(middleware.RequestID())

	// 基础监控指标
	router.Use(middleware.Metrics())

	// 速率限制
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	imageRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitImageRPS, cfg.RateLimitImageBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		apiRateLimiter.StopCleanup()
		imageRateLimiter.StopCleanup()
	}

	router.GET("/health", healthHandler(deps))
	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})
	router.GET("/metrics", func(context *gin.Context) {
		context.JSON(http.StatusOK, middleware.GetMetrics())
	})

	// 创建处理器（依赖注入）
	historyHandler := handlerHistory.NewHandler(deps.Provider, cfg.PublicBaseURL())
	imageHandler := handlerImages.NewHandler(deps.Provider)

	apiGroup := router.Group("/api")
	{
		historyGroup := apiGroup.Group("/history")
		historyGroup.Use(apiRateLimiter.Middleware())
		historyGroup.Use(func(context *gin.Context) { // 历史接口禁止缓存
			context.Header("Cache-Control", "no-store")
			context.Next()
		})
		{
			historyGroup.GET("", historyHandler.ListHistory)          // GET /api/history
			historyGroup.POST("", historyHandler.CreateHistoryItem)   // POST /api/history
			historyGroup.DELETE("", historyHandler.DeleteHistoryItem) // DELETE /api/history?id={id}
		}

		imageGroup := apiGroup.Group("/image")
		imageGroup.Use(imageRateLimiter.Middleware())
		{
			imageGroup.GET("", imageHandler.GetImage) // GET /api/image?key={key}
		}
	}

	return router, cleanup
}

// StartServer 创建 http.Server
func StartServer(deps *ServerDependencies) (*http.Server, func()) {
	cfg := deps.Config
	router, clean := setupRouter(deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, clean
}
