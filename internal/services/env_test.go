package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/barky-backend/internal/data/cache"
	"github.com/yungbote/barky-backend/internal/data/repos"
	"github.com/yungbote/barky-backend/internal/data/repos/testutil"
	types "github.com/yungbote/barky-backend/internal/domain"
	"github.com/yungbote/barky-backend/internal/platform/ctxutil"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	auth     AuthService
	users    UserService
	bookmark BookmarkService
	snippet  SnippetService
}

func newTestEnv(t *testing.T, highlightCache cache.HighlightCache) *testEnv {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(db, log)
	tokenRepo := repos.NewUserTokenRepo(db, log)
	bookmarkRepo := repos.NewBookmarkRepo(db, log)
	snippetRepo := repos.NewSnippetRepo(db, log)
	pages := PageConfig{DefaultPageSize: 10, MaxPageSize: 50}

	return &testEnv{
		db:       db,
		auth:     NewAuthService(db, log, userRepo, tokenRepo, "test-secret", 5*time.Minute, time.Hour),
		users:    NewUserService(db, log, userRepo, tokenRepo, bookmarkRepo, snippetRepo),
		bookmark: NewBookmarkService(db, log, userRepo, bookmarkRepo, pages),
		snippet:  NewSnippetService(db, log, userRepo, snippetRepo, highlightCache, pages),
	}
}

func (e *testEnv) register(t *testing.T, username string) *types.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{Username: username, Password: "pw-" + username})
	if err != nil {
		t.Fatalf("Register(%q): %v", username, err)
	}
	return u
}

func asUser(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID:   u.ID,
		Username: u.Username,
		IsStaff:  u.IsStaff,
	})
}

func ptr[T any](v T) *T { return &v }
