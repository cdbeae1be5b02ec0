package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/barky-backend/internal/platform/apierr"
)

func TestBookmarkServiceCreateAndValidate(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.register(t, "alice")
	ctx := asUser(alice)

	if _, err := env.bookmark.Create(context.Background(), BookmarkInput{Title: ptr("x"), URL: ptr("https://x.example")}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous Create: expected ErrUnauthorized, got %v", err)
	}

	cases := []struct {
		name string
		in   BookmarkInput
	}{
		{"missing url", BookmarkInput{Title: ptr("t")}},
		{"blank title", BookmarkInput{Title: ptr("  "), URL: ptr("https://x.example")}},
		{"relative url", BookmarkInput{Title: ptr("t"), URL: ptr("/just/a/path")}},
		{"ftp url", BookmarkInput{Title: ptr("t"), URL: ptr("ftp://x.example")}},
	}
	for _, tc := range cases {
		if _, err := env.bookmark.Create(ctx, tc.in); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}

	b, err := env.bookmark.Create(ctx, BookmarkInput{
		ID:    ptr(uint(99)),
		Title: ptr("Django REST framework"),
		URL:   ptr("https://www.django-rest-framework.org/"),
		Tags:  ptr([]string{"python", " ", "python", "api"}),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID != 99 || b.Owner == nil || b.Owner.Username != "alice" {
		t.Fatalf("Create: unexpected bookmark %+v", b)
	}
	if len(b.Tags) != 2 {
		t.Fatalf("tags should be trimmed and deduplicated, got %v", b.Tags)
	}
	if _, err := env.bookmark.Create(ctx, BookmarkInput{ID: ptr(uint(99)), Title: ptr("t"), URL: ptr("https://y.example")}); !errors.Is(err, ErrConflict) {
		t.Fatalf("Create with taken id: expected ErrConflict, got %v", err)
	}
}

func TestBookmarkServicePermissions(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	b, err := env.bookmark.Create(asUser(alice), BookmarkInput{Title: ptr("Go"), URL: ptr("https://go.dev")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := env.bookmark.Update(asUser(bob), b.ID, BookmarkInput{Title: ptr("mine now")}, true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Update by non-owner: expected ErrForbidden, got %v", err)
	}
	if err := env.bookmark.Delete(asUser(bob), b.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Delete by non-owner: expected ErrForbidden, got %v", err)
	}

	if _, err := env.bookmark.Update(asUser(alice), b.ID, BookmarkInput{Title: ptr("Only title")}, false); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("full Update without url: expected ErrInvalidArgument, got %v", err)
	}
	updated, err := env.bookmark.Update(asUser(alice), b.ID, BookmarkInput{Notes: ptr("docs")}, true)
	if err != nil {
		t.Fatalf("partial Update: %v", err)
	}
	if updated.Title != "Go" || updated.Notes != "docs" {
		t.Fatalf("partial Update: unexpected %+v", updated)
	}

	// unowned bookmarks are writable by any authenticated user
	if err := env.db.Exec("UPDATE bookmark SET owner_id = NULL WHERE id = ?", b.ID).Error; err != nil {
		t.Fatalf("clear owner: %v", err)
	}
	if _, err := env.bookmark.Update(asUser(bob), b.ID, BookmarkInput{Title: ptr("Shared"), URL: ptr("https://go.dev")}, false); err != nil {
		t.Fatalf("Update unowned: %v", err)
	}
	if err := env.bookmark.Delete(asUser(bob), b.ID); err != nil {
		t.Fatalf("Delete unowned: %v", err)
	}
	if _, err := env.bookmark.Get(context.Background(), b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get deleted: expected ErrNotFound, got %v", err)
	}
	if err := env.bookmark.Delete(asUser(bob), b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete missing: expected ErrNotFound, got %v", err)
	}
}

func TestBookmarkServiceList(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	mk := func(owner context.Context, title, url string, day time.Time) {
		t.Helper()
		if _, err := env.bookmark.Create(owner, BookmarkInput{Title: ptr(title), URL: ptr(url), DateAdded: ptr(day)}); err != nil {
			t.Fatalf("Create %q: %v", title, err)
		}
	}
	mk(asUser(alice), "AAA Bookmark", "https://AAA.org/1", time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC))
	mk(asUser(alice), "BBB Bookmark", "https://dosstroop.com/1", time.Date(2024, 4, 16, 12, 0, 0, 0, time.UTC))
	mk(asUser(bob), "CCC Bookmark", "https://dosstroop.com/2", time.Date(2024, 4, 17, 12, 0, 0, 0, time.UTC))

	ctx := context.Background()
	page, err := env.bookmark.List(ctx, BookmarkListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 3 || page.Items[0].Title != "AAA Bookmark" {
		t.Fatalf("List: expected default date order, got %d items starting %q", page.Total, page.Items[0].Title)
	}

	page, err = env.bookmark.List(ctx, BookmarkListRequest{Search: "dosstroop.com/1"})
	if err != nil || page.Total != 1 {
		t.Fatalf("List search url: %v total=%v", err, page)
	}
	page, err = env.bookmark.List(ctx, BookmarkListRequest{Owner: "bob"})
	if err != nil || page.Total != 1 || page.Items[0].Title != "CCC Bookmark" {
		t.Fatalf("List owner=bob: %v %+v", err, page)
	}
	page, err = env.bookmark.List(asUser(alice), BookmarkListRequest{Owner: "me", Ordering: "-date_added"})
	if err != nil || page.Total != 2 || page.Items[0].Title != "BBB Bookmark" {
		t.Fatalf("List owner=me: %v %+v", err, page)
	}
	page, err = env.bookmark.List(ctx, BookmarkListRequest{Owner: "nobody"})
	if err != nil || page.Total != 0 {
		t.Fatalf("List unknown owner: %v %+v", err, page)
	}
	page, err = env.bookmark.List(ctx, BookmarkListRequest{DateAdded: "2024-04-16"})
	if err != nil || page.Total != 1 || page.Items[0].Title != "BBB Bookmark" {
		t.Fatalf("List date_added: %v %+v", err, page)
	}
	page, err = env.bookmark.List(ctx, BookmarkListRequest{DateAddedBefore: "2024-04-16"})
	if err != nil || page.Total != 2 {
		t.Fatalf("List date_added_before: %v %+v", err, page)
	}
	page, err = env.bookmark.List(ctx, BookmarkListRequest{Page: "2", PageSize: "2"})
	if err != nil || len(page.Items) != 1 || !page.HasPrevious() || page.HasNext() {
		t.Fatalf("List page 2: %v %+v", err, page)
	}

	_, err = env.bookmark.List(ctx, BookmarkListRequest{Page: "9"})
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusNotFound || ae.Code != "invalid_page" {
		t.Fatalf("page past end: expected 404 invalid_page, got %v", err)
	}
	for _, req := range []BookmarkListRequest{{Ordering: "notes"}, {Page: "zero"}, {DateAdded: "yesterday"}} {
		_, err = env.bookmark.List(ctx, req)
		if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusBadRequest {
			t.Fatalf("List(%+v): expected 400, got %v", req, err)
		}
	}
}

func TestBookmarkServiceFullUpdateResetsOptionalFields(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.register(t, "alice")
	ctx := asUser(alice)

	b, err := env.bookmark.Create(ctx, BookmarkInput{
		Title: ptr("Go"),
		URL:   ptr("https://go.dev"),
		Notes: ptr("docs"),
		Tags:  ptr([]string{"go", "lang"}),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	patched, err := env.bookmark.Update(ctx, b.ID, BookmarkInput{Title: ptr("Go!")}, true)
	if err != nil {
		t.Fatalf("partial Update: %v", err)
	}
	if patched.Notes != "docs" || len(patched.Tags) != 2 {
		t.Fatalf("partial Update should keep notes and tags, got %+v", patched)
	}

	put, err := env.bookmark.Update(ctx, b.ID, BookmarkInput{Title: ptr("Go"), URL: ptr("https://go.dev")}, false)
	if err != nil {
		t.Fatalf("full Update: %v", err)
	}
	if put.Notes != "" || len(put.Tags) != 0 {
		t.Fatalf("full Update should reset notes and tags, got notes=%q tags=%v", put.Notes, put.Tags)
	}
}
