package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/barky-backend/internal/data/repos"
	"github.com/yungbote/barky-backend/internal/platform/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Bookmark  repos.BookmarkRepo
	Snippet   repos.SnippetRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Bookmark:  repos.NewBookmarkRepo(db, log),
		Snippet:   repos.NewSnippetRepo(db, log),
	}
}
