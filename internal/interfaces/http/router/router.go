// Package router 提供 HTTP 路由配置
package router

import (
	"ecm-api/internal/config"
	"ecm-api/internal/interfaces/http/handler"
	"ecm-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Health          *handler.HealthHandler
	Auth            *handler.AuthHandler
	User            *handler.UserHandler
	Office          *handler.OfficeHandler
	Position        *handler.PositionHandler
	Document        *handler.DocumentHandler
	DownloadRequest *handler.DownloadRequestHandler
	Search          *handler.SearchHandler
	AccessLog       *handler.AccessLogHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	limiter  middleware.RateLimiter
}

// New 创建新的路由器
func New(cfg *config.Config, handlers Handlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.Auth(middleware.AuthConfig{
		Secret:    r.cfg.Security.JWT.Secret,
		Issuer:    r.cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
		Enabled:   true,
	}))
	r.engine.Use(middleware.RateLimit(r.cfg.Security.RateLimit, r.limiter))
	r.engine.Use(middleware.Audit())
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	// 系统端点
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", h.Auth.Me)
			auth.POST("/password", h.User.ChangePassword)
		}

		users := v1.Group("/users", middleware.RequireAdmin())
		{
			users.POST("", h.User.Create)
			users.GET("", h.User.List)
			users.GET("/:id", h.User.Get)
			users.PATCH("/:id", h.User.Update)
			users.DELETE("/:id", h.User.Delete)
			users.GET("/:id/access-logs", h.AccessLog.ListByUser)
		}

		offices := v1.Group("/offices")
		{
			offices.GET("", h.Office.List)
			offices.GET("/:id", h.Office.Get)
			offices.POST("", middleware.RequireAdmin(), h.Office.Create)
			offices.PATCH("/:id", middleware.RequireAdmin(), h.Office.Update)
			offices.DELETE("/:id", middleware.RequireAdmin(), h.Office.Delete)
		}

		positions := v1.Group("/positions")
		{
			positions.GET("", h.Position.List)
			positions.GET("/:id", h.Position.Get)
			positions.POST("", middleware.RequireAdmin(), h.Position.Create)
			positions.PATCH("/:id", middleware.RequireAdmin(), h.Position.Update)
			positions.DELETE("/:id", middleware.RequireAdmin(), h.Position.Delete)
		}

		documents := v1.Group("/documents")
		{
			documents.POST("", middleware.RequirePermission(middleware.PermDocumentWrite), h.Document.Upload)
			documents.GET("", middleware.RequirePermission(middleware.PermDocumentRead), h.Document.List)
			documents.GET("/:id", middleware.RequirePermission(middleware.PermDocumentRead), h.Document.Get)
			documents.GET("/:id/download", middleware.RequirePermission(middleware.PermDocumentRead), h.Document.Download)
			documents.POST("/:id/reprocess", middleware.RequireAdmin(), h.Document.Reprocess)
			documents.DELETE("/:id", middleware.RequirePermission(middleware.PermDocumentDelete), h.Document.Delete)
			documents.GET("/:id/access-logs", middleware.RequireAdmin(), h.AccessLog.ListByDocument)
		}

		downloads := v1.Group("/download-requests")
		{
			downloads.POST("", h.DownloadRequest.Create)
			downloads.GET("/mine", h.DownloadRequest.ListMine)
			downloads.GET("/pending", middleware.RequirePermission(middleware.PermDownloadApprove), h.DownloadRequest.ListPending)
			downloads.POST("/:id/review", middleware.RequirePermission(middleware.PermDownloadApprove), h.DownloadRequest.Review)
		}

		searchGroup := v1.Group("/search", middleware.RequirePermission(middleware.PermSearch))
		{
			searchGroup.POST("", h.Search.Search)
			searchGroup.POST("/highlight", h.Search.Highlight)
		}
	}
}
