package domain

import (
	"github.com/yungbote/barky-backend/internal/domain/auth"
	"github.com/yungbote/barky-backend/internal/domain/bookmark"
	"github.com/yungbote/barky-backend/internal/domain/snippet"
	"github.com/yungbote/barky-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken
type Bookmark = bookmark.Bookmark
type Snippet = snippet.Snippet

// Models lists every table, in dependency order, for migrations.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&Bookmark{},
		&Snippet{},
	}
}
