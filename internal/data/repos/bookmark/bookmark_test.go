package bookmark

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/barky-backend/internal/data/query"
	"github.com/yungbote/barky-backend/internal/data/repos/testutil"
	types "github.com/yungbote/barky-backend/internal/domain"
	"gorm.io/gorm"
)

func TestBookmarkRepoCRUD(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewBookmarkRepo(db, testutil.Logger(t))
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, tx, "bookmarker")

	created, err := repo.Create(ctx, tx, []*types.Bookmark{
		{Title: "Go", URL: "https://go.dev", OwnerID: &owner.ID, Tags: []string{"lang"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b := created[0]
	if b.ID == 0 || b.DateAdded.IsZero() {
		t.Fatalf("Create: expected id and date_added to be set, got %+v", b)
	}

	got, err := repo.GetByID(ctx, tx, b.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Owner == nil || got.Owner.Username != "bookmarker" {
		t.Fatalf("GetByID: expected owner preloaded, got %+v", got.Owner)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "lang" {
		t.Fatalf("GetByID: unexpected tags %v", got.Tags)
	}

	byURL, err := repo.GetByURL(ctx, tx, "https://go.dev")
	if err != nil || byURL == nil || byURL.ID != b.ID {
		t.Fatalf("GetByURL: got %+v, %v", byURL, err)
	}
	missing, err := repo.GetByURL(ctx, tx, "https://nowhere.example")
	if err != nil || missing != nil {
		t.Fatalf("GetByURL (missing): got %+v, %v", missing, err)
	}

	got.Title = "The Go site"
	got.Notes = "docs"
	if err := repo.Update(ctx, tx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, err := repo.GetByID(ctx, tx, b.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if again.Title != "The Go site" || again.Notes != "docs" {
		t.Fatalf("Update not persisted: %+v", again)
	}

	ids, err := repo.ListIDsByOwner(ctx, tx, []uuid.UUID{owner.ID})
	if err != nil {
		t.Fatalf("ListIDsByOwner: %v", err)
	}
	if len(ids[owner.ID]) != 1 || ids[owner.ID][0] != b.ID {
		t.Fatalf("ListIDsByOwner: unexpected %v", ids)
	}

	if err := repo.Delete(ctx, tx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, b.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByID after delete: expected ErrRecordNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, tx, b.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Delete (missing): expected ErrRecordNotFound, got %v", err)
	}
}

func TestBookmarkRepoListQuery(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewBookmarkRepo(db, testutil.Logger(t))
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, tx, "lister")

	day := time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)
	testutil.SeedBookmark(t, ctx, tx, &owner.ID, "Zebra facts", "https://zebra.example", day)
	testutil.SeedBookmark(t, ctx, tx, nil, "Alpha", "https://alpha.example", day.AddDate(0, 0, 1))
	testutil.SeedBookmark(t, ctx, tx, &owner.ID, "Middle", "https://middle.example/zebra", day.AddDate(0, 0, 2))

	all, total, err := repo.List(ctx, tx, query.Params{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("List: expected 3, got %d/%d", len(all), total)
	}
	if all[0].Title != "Zebra facts" || all[2].Title != "Middle" {
		t.Fatalf("List: expected date_added order, got %s..%s", all[0].Title, all[2].Title)
	}

	searched, total, err := repo.List(ctx, tx, query.Params{Search: "ZEBRA", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if total != 2 || len(searched) != 2 {
		t.Fatalf("List search: expected 2 matches over title and url, got %d", total)
	}

	ordering, err := query.ParseOrdering("-title", ListSpec)
	if err != nil {
		t.Fatalf("ParseOrdering: %v", err)
	}
	page, total, err := repo.List(ctx, tx, query.Params{Ordering: ordering, Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if total != 3 || len(page) != 1 || page[0].Title != "Alpha" {
		t.Fatalf("List page 2: unexpected %+v (total %d)", page, total)
	}

	filters, err := query.DayFilters("bookmark.date_added", "", "2024-04-16", "")
	if err != nil {
		t.Fatalf("DayFilters: %v", err)
	}
	filters = append(filters, query.Filter{Column: "bookmark.owner_id", Op: query.OpEq, Value: owner.ID})
	owned, total, err := repo.List(ctx, tx, query.Params{Filters: filters, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if total != 1 || owned[0].Title != "Middle" {
		t.Fatalf("List filtered: unexpected %+v", owned)
	}

	n, err := repo.DeleteByOwner(ctx, tx, []uuid.UUID{owner.ID})
	if err != nil || n != 2 {
		t.Fatalf("DeleteByOwner: %d, %v", n, err)
	}
	count, err := repo.Count(ctx, tx)
	if err != nil || count != 1 {
		t.Fatalf("Count: %d, %v", count, err)
	}
}

func TestBookmarkRepoCreateWithExplicitID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewBookmarkRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if _, err := repo.Create(ctx, tx, []*types.Bookmark{{ID: 4242, Title: "Fixed", URL: "https://fixed.example"}}); err != nil {
		t.Fatalf("Create explicit id: %v", err)
	}
	next, err := repo.Create(ctx, tx, []*types.Bookmark{{Title: "Auto", URL: "https://auto.example"}})
	if err != nil {
		t.Fatalf("Create auto id: %v", err)
	}
	if next[0].ID <= 4242 {
		t.Fatalf("expected auto id past 4242, got %d", next[0].ID)
	}
}
