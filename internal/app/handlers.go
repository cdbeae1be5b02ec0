package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	httpserver "github.com/yungbote/barky-backend/internal/http"
	httpH "github.com/yungbote/barky-backend/internal/http/handlers"
	httpMW "github.com/yungbote/barky-backend/internal/http/middleware"
	"github.com/yungbote/barky-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Bookmark *httpH.BookmarkHandler
	Snippet  *httpH.SnippetHandler
	Arch     *httpH.ArchHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Auth:     httpH.NewAuthHandler(services.Auth),
		User:     httpH.NewUserHandler(services.User),
		Bookmark: httpH.NewBookmarkHandler(services.Bookmark),
		Snippet:  httpH.NewSnippetHandler(services.Snippet),
		Arch:     httpH.NewArchHandler(services.Commands),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(cfg Config, log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpserver.NewRouter(httpserver.RouterConfig{
		Log:             log,
		ServiceName:     cfg.Otel.ServiceName,
		TracingEnabled:  cfg.Otel.Enabled,
		CORSOrigins:     cfg.CORS.AllowOrigins,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		UserHandler:     handlers.User,
		BookmarkHandler: handlers.Bookmark,
		SnippetHandler:  handlers.Snippet,
		ArchHandler:     handlers.Arch,
	})
}
