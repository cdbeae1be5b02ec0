package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/barky-backend/internal/data/repos"
	"github.com/yungbote/barky-backend/internal/data/repos/testutil"
	types "github.com/yungbote/barky-backend/internal/domain"
	"github.com/yungbote/barky-backend/internal/platform/ctxutil"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *Commands, DomainBookmark, DomainBookmark) {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	cmds := New(db, repos.NewBookmarkRepo(db, log), log)

	rightNow := today()
	b1 := DomainBookmark{ID: 1, Title: "Test Bookmark", URL: "http://www.example.com", Notes: "Test notes", DateAdded: rightNow}
	b2 := DomainBookmark{ID: 2, Title: "Test Bookmark 2", URL: "http://www.example2.com", Notes: "Test notes 2", DateAdded: rightNow}
	return db, cmds, b1, b2
}

func count(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&types.Bookmark{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func as(u *types.User, staff bool) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID:   u.ID,
		Username: u.Username,
		IsStaff:  staff,
	})
}

func TestCommandAdd(t *testing.T) {
	db, cmds, b1, _ := setup(t)
	stored, err := cmds.Add.Execute(context.Background(), b1)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if stored.ID != 1 || stored.URL != b1.URL {
		t.Fatalf("Add returned %+v", stored)
	}
	if n := count(t, db); n != 1 {
		t.Fatalf("expected 1 bookmark, got %d", n)
	}
	var got types.Bookmark
	if err := db.First(&got, 1).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.URL != b1.URL || got.OwnerID != nil {
		t.Fatalf("unexpected stored bookmark %+v", got)
	}
}

func TestCommandAddDuplicate(t *testing.T) {
	db, cmds, b1, _ := setup(t)
	ctx := context.Background()
	if _, err := cmds.Add.Execute(ctx, b1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	dup := b1
	dup.ID = 0
	dup.Title = "Another title"
	stored, err := cmds.Add.Execute(ctx, dup)
	if err != nil {
		t.Fatalf("Add duplicate should be a no-op, got %v", err)
	}
	if stored.ID != b1.ID || stored.Title != b1.Title {
		t.Fatalf("duplicate Add should return the stored bookmark, got %+v", stored)
	}
	if n := count(t, db); n != 1 {
		t.Fatalf("expected still 1 bookmark, got %d", n)
	}
}

func TestCommandAddInvalidData(t *testing.T) {
	db, cmds, _, _ := setup(t)
	cases := []struct {
		name string
		in   DomainBookmark
	}{
		{"missing url", DomainBookmark{ID: 3, Title: "Invalid Bookmark"}},
		{"missing title", DomainBookmark{URL: "https://example.com"}},
		{"script scheme", DomainBookmark{Title: "x", URL: "javascript:alert(1)"}},
		{"ftp scheme", DomainBookmark{Title: "x", URL: "ftp://files.example.com"}},
		{"missing host", DomainBookmark{Title: "x", URL: "http:///path/only"}},
		{"relative", DomainBookmark{Title: "x", URL: "/just/a/path"}},
	}
	for _, tc := range cases {
		if _, err := cmds.Add.Execute(context.Background(), tc.in); !errors.Is(err, ErrInvalidBookmark) {
			t.Fatalf("%s: expected ErrInvalidBookmark, got %v", tc.name, err)
		}
	}
	if n := count(t, db); n != 0 {
		t.Fatalf("no bookmark should be added, got %d", n)
	}
}

func TestCommandAddDefaultsDateAndOwner(t *testing.T) {
	db, cmds, b1, _ := setup(t)
	alice := testutil.SeedUser(t, context.Background(), db, "alice")
	b1.DateAdded = time.Time{}
	b1.ID = 0
	stored, err := cmds.Add.Execute(as(alice, false), b1)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if stored.ID == 0 || !stored.DateAdded.Equal(today()) {
		t.Fatalf("Add should return the assigned id and date, got %+v", stored)
	}
	var got types.Bookmark
	if err := db.First(&got).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.DateAdded.Equal(today()) {
		t.Fatalf("expected date_added to default to today, got %v", got.DateAdded)
	}
	if !got.OwnedBy(alice.ID) {
		t.Fatalf("expected the caller to own the bookmark, got owner %v", got.OwnerID)
	}
}

func TestCommandList(t *testing.T) {
	_, cmds, b1, b2 := setup(t)
	ctx := context.Background()
	b1.DateAdded = b1.DateAdded.AddDate(0, 0, -1)
	for _, b := range []DomainBookmark{b2, b1} {
		if _, err := cmds.Add.Execute(ctx, b); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := cmds.List.Execute(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("expected date_added order [1 2], got %+v", got)
	}
	if got[0].String() != "Test Bookmark" {
		t.Fatalf("String: got %q", got[0].String())
	}

	cmds.List.OrderBy = "-title"
	got, err = cmds.List.Execute(ctx)
	if err != nil {
		t.Fatalf("List -title: %v", err)
	}
	if got[0].ID != 2 {
		t.Fatalf("expected title desc order, got %+v", got)
	}

	cmds.List.OrderBy = "owner"
	if _, err := cmds.List.Execute(ctx); err == nil {
		t.Fatalf("expected error for unknown order field")
	}
}

func TestCommandDelete(t *testing.T) {
	db, cmds, b1, _ := setup(t)
	ctx := context.Background()
	if _, err := cmds.Add.Execute(ctx, b1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := cmds.Delete.Execute(ctx, b1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := count(t, db); n != 0 {
		t.Fatalf("expected 0 bookmarks, got %d", n)
	}
	if err := cmds.Delete.Execute(ctx, b1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete missing: expected ErrNotFound, got %v", err)
	}
}

func TestCommandEdit(t *testing.T) {
	db, cmds, b1, _ := setup(t)
	ctx := context.Background()
	if _, err := cmds.Add.Execute(ctx, b1); err != nil {
		t.Fatalf("Add: %v", err)
	}

	edited := b1
	edited.Title = "Edited"
	edited.Notes = "new notes"
	edited.DateAdded = time.Time{}
	stored, err := cmds.Edit.Execute(ctx, edited)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if stored.Title != "Edited" || !stored.DateAdded.Equal(b1.DateAdded) {
		t.Fatalf("Edit should return the stored bookmark, got %+v", stored)
	}
	var got types.Bookmark
	if err := db.First(&got, b1.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Title != "Edited" || got.Notes != "new notes" {
		t.Fatalf("Edit not applied: %+v", got)
	}

	edited.ID = 404
	if _, err := cmds.Edit.Execute(ctx, edited); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Edit missing: expected ErrNotFound, got %v", err)
	}
	edited.ID = b1.ID
	edited.URL = ""
	if _, err := cmds.Edit.Execute(ctx, edited); !errors.Is(err, ErrInvalidBookmark) {
		t.Fatalf("Edit invalid: expected ErrInvalidBookmark, got %v", err)
	}
	edited.URL = "javascript:alert(1)"
	if _, err := cmds.Edit.Execute(ctx, edited); !errors.Is(err, ErrInvalidBookmark) {
		t.Fatalf("Edit bad scheme: expected ErrInvalidBookmark, got %v", err)
	}
}

func TestCommandOwnership(t *testing.T) {
	db, cmds, _, _ := setup(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, ctx, db, "alice")
	bob := testutil.SeedUser(t, ctx, db, "bob")
	admin := testutil.SeedUser(t, ctx, db, "admin")

	owned := testutil.SeedBookmark(t, ctx, db, &alice.ID, "Alice's", "https://alice.example", today())
	edit := DomainBookmark{ID: owned.ID, Title: "hijacked", URL: "https://evil.example/"}

	if _, err := cmds.Edit.Execute(as(bob, false), edit); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Edit by non-owner: expected ErrForbidden, got %v", err)
	}
	if _, err := cmds.Edit.Execute(ctx, edit); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Edit without caller: expected ErrForbidden, got %v", err)
	}
	if err := cmds.Delete.Execute(as(bob, false), owned.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Delete by non-owner: expected ErrForbidden, got %v", err)
	}
	var got types.Bookmark
	if err := db.First(&got, owned.ID).Error; err != nil {
		t.Fatalf("bookmark should survive: %v", err)
	}
	if got.Title != "Alice's" {
		t.Fatalf("bookmark should be unchanged, got %+v", got)
	}

	edit.Title = "Alice's edit"
	if _, err := cmds.Edit.Execute(as(alice, false), edit); err != nil {
		t.Fatalf("Edit by owner: %v", err)
	}
	edit.Title = "Staff edit"
	if _, err := cmds.Edit.Execute(as(admin, true), edit); err != nil {
		t.Fatalf("Edit by staff: %v", err)
	}
	if err := cmds.Delete.Execute(as(admin, true), owned.ID); err != nil {
		t.Fatalf("Delete by staff: %v", err)
	}

	open := testutil.SeedBookmark(t, ctx, db, nil, "Shared", "https://shared.example", today())
	if err := cmds.Delete.Execute(as(bob, false), open.ID); err != nil {
		t.Fatalf("Delete unowned: %v", err)
	}
	if n := count(t, db); n != 0 {
		t.Fatalf("expected 0 bookmarks, got %d", n)
	}
}
