package repos

import (
	"github.com/yungbote/barky-backend/internal/data/repos/auth"
	"github.com/yungbote/barky-backend/internal/data/repos/bookmark"
	"github.com/yungbote/barky-backend/internal/data/repos/snippet"
	"github.com/yungbote/barky-backend/internal/data/repos/user"
	"github.com/yungbote/barky-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo
type BookmarkRepo = bookmark.BookmarkRepo
type SnippetRepo = snippet.SnippetRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	return bookmark.NewBookmarkRepo(db, baseLog)
}

func NewSnippetRepo(db *gorm.DB, baseLog *logger.Logger) SnippetRepo {
	return snippet.NewSnippetRepo(db, baseLog)
}
