package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/barky-backend/internal/commands"
	"github.com/yungbote/barky-backend/internal/data/cache"
	"github.com/yungbote/barky-backend/internal/platform/logger"
	"github.com/yungbote/barky-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	User     services.UserService
	Bookmark services.BookmarkService
	Snippet  services.SnippetService
	Commands *commands.Commands
}

// wireHighlightCache connects to Redis when an address is configured. An unreachable
// Redis degrades to rendering on every request.
func wireHighlightCache(cfg Config, log *logger.Logger) cache.HighlightCache {
	if cfg.Redis.Addr == "" {
		log.Info("No REDIS_ADDR set; highlight previews are not cached")
		return cache.NewNoopHighlightCache()
	}
	hc, err := cache.NewRedisHighlightCache(cfg.CacheConfig(), log)
	if err != nil {
		log.Warn("Redis unavailable; highlight previews are not cached", "addr", cfg.Redis.Addr, "error", err)
		return cache.NewNoopHighlightCache()
	}
	return hc
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, highlightCache cache.HighlightCache) Services {
	log.Info("Wiring services...")
	pages := cfg.PageConfig()
	return Services{
		Auth: services.NewAuthService(
			db, log,
			reposet.User, reposet.UserToken,
			cfg.Auth.JWTSecretKey, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL,
		),
		User:     services.NewUserService(db, log, reposet.User, reposet.UserToken, reposet.Bookmark, reposet.Snippet),
		Bookmark: services.NewBookmarkService(db, log, reposet.User, reposet.Bookmark, pages),
		Snippet:  services.NewSnippetService(db, log, reposet.User, reposet.Snippet, highlightCache, pages),
		Commands: commands.New(db, reposet.Bookmark, log),
	}
}
