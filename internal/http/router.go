package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/barky-backend/internal/http/handlers"
	httpMW "github.com/yungbote/barky-backend/internal/http/middleware"
	"github.com/yungbote/barky-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	AuthHandler     *httpH.AuthHandler
	UserHandler     *httpH.UserHandler
	BookmarkHandler *httpH.BookmarkHandler
	SnippetHandler  *httpH.SnippetHandler
	ArchHandler     *httpH.ArchHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		name := cfg.ServiceName
		if name == "" {
			name = "barky"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Readyz)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.Authenticate())
	}
	api.GET("/", httpH.APIRoot)

	// Auth (public)
	if cfg.AuthHandler != nil {
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/users", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	// Public reads
	if cfg.UserHandler != nil {
		api.GET("/users", cfg.UserHandler.List)
		api.GET("/users/:id", cfg.UserHandler.Get)
	}
	if cfg.BookmarkHandler != nil {
		api.GET("/bookmarks", cfg.BookmarkHandler.List)
		api.GET("/bookmarks/:id", cfg.BookmarkHandler.Get)
	}
	if cfg.SnippetHandler != nil {
		api.GET("/snippets", cfg.SnippetHandler.List)
		api.GET("/snippets/languages", cfg.SnippetHandler.Languages)
		api.GET("/snippets/styles", cfg.SnippetHandler.Styles)
		api.GET("/snippets/:id", cfg.SnippetHandler.Get)
		api.GET("/snippets/:id/highlight", cfg.SnippetHandler.Highlight)
	}
	if cfg.ArchHandler != nil {
		api.GET("/arch/bookmarks", cfg.ArchHandler.List)
	}

	protected := api.Group("")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	if cfg.AuthHandler != nil {
		protected.POST("/logout", cfg.AuthHandler.Logout)
	}
	if cfg.UserHandler != nil {
		protected.GET("/me", cfg.UserHandler.GetMe)
		protected.PUT("/users/:id", cfg.UserHandler.Update)
		protected.PATCH("/users/:id", cfg.UserHandler.Update)
		protected.DELETE("/users/:id", cfg.UserHandler.Delete)
	}
	if cfg.BookmarkHandler != nil {
		protected.POST("/bookmarks", cfg.BookmarkHandler.Create)
		protected.PUT("/bookmarks/:id", cfg.BookmarkHandler.Update)
		protected.PATCH("/bookmarks/:id", cfg.BookmarkHandler.Update)
		protected.DELETE("/bookmarks/:id", cfg.BookmarkHandler.Delete)
	}
	if cfg.SnippetHandler != nil {
		protected.POST("/snippets", cfg.SnippetHandler.Create)
		protected.PUT("/snippets/:id", cfg.SnippetHandler.Update)
		protected.PATCH("/snippets/:id", cfg.SnippetHandler.Update)
		protected.DELETE("/snippets/:id", cfg.SnippetHandler.Delete)
	}
	if cfg.ArchHandler != nil {
		protected.POST("/arch/bookmarks", cfg.ArchHandler.Add)
		protected.PUT("/arch/bookmarks/:id", cfg.ArchHandler.Edit)
		protected.DELETE("/arch/bookmarks/:id", cfg.ArchHandler.Delete)
	}

	return r
}
