package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/barky-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedBookmark(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID *uuid.UUID, title, url string, added time.Time) *types.Bookmark {
	tb.Helper()
	b := &types.Bookmark{
		Title:     title,
		URL:       url,
		OwnerID:   ownerID,
		DateAdded: added.UTC(),
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed bookmark: %v", err)
	}
	return b
}

func SeedSnippet(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, title, code string) *types.Snippet {
	tb.Helper()
	s := &types.Snippet{
		Title:   title,
		Code:    code,
		OwnerID: ownerID,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed snippet: %v", err)
	}
	return s
}
