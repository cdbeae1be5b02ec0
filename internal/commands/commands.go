// Package commands wraps bookmark persistence in small command objects, each with a single
// Execute method, so callers never touch the ORM directly.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/barky-backend/internal/data/query"
	"github.com/yungbote/barky-backend/internal/data/repos"
	bookmarkrepo "github.com/yungbote/barky-backend/internal/data/repos/bookmark"
	types "github.com/yungbote/barky-backend/internal/domain"
	bookmarkdomain "github.com/yungbote/barky-backend/internal/domain/bookmark"
	"github.com/yungbote/barky-backend/internal/platform/ctxutil"
	"github.com/yungbote/barky-backend/internal/platform/logger"
)

var (
	ErrInvalidBookmark = errors.New("invalid bookmark")
	ErrNotFound        = errors.New("bookmark not found")
	ErrForbidden       = errors.New("not allowed to change this bookmark")
)

func validate(b DomainBookmark) error {
	if err := bookmarkdomain.Validate(b.Title, b.URL); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBookmark, err)
	}
	return nil
}

// authorize applies the bookmark write rule to the caller stored in ctx: unowned records
// are open, owned ones need the owner or a staff user.
func authorize(ctx context.Context, r *types.Bookmark) error {
	if r.OwnerID == nil {
		return nil
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("%w: %d", ErrForbidden, r.ID)
	}
	if rd.IsStaff || r.OwnedBy(rd.UserID) {
		return nil
	}
	return fmt.Errorf("%w: %d", ErrForbidden, r.ID)
}

func loadBookmark(ctx context.Context, tx *gorm.DB, repo repos.BookmarkRepo, id uint) (*types.Bookmark, error) {
	record, err := repo.GetByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load bookmark: %w", err)
	}
	return record, nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

type AddBookmarkCommand struct {
	db   *gorm.DB
	repo repos.BookmarkRepo
	log  *logger.Logger
}

func NewAddBookmarkCommand(db *gorm.DB, repo repos.BookmarkRepo, log *logger.Logger) *AddBookmarkCommand {
	return &AddBookmarkCommand{db: db, repo: repo, log: log.With("command", "AddBookmark")}
}

// Execute inserts b unless a bookmark with the same URL already exists, in which case the
// stored one is returned unchanged. The caller in ctx, if any, becomes the owner.
func (c *AddBookmarkCommand) Execute(ctx context.Context, b DomainBookmark) (DomainBookmark, error) {
	if err := validate(b); err != nil {
		return DomainBookmark{}, err
	}
	var out DomainBookmark
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := c.repo.GetByURL(ctx, tx, b.URL)
		if err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if existing != nil {
			c.log.Debug("Skipping duplicate bookmark", "url", b.URL, "bookmark_id", existing.ID)
			out = fromRecord(existing)
			return nil
		}
		added := b.DateAdded
		if added.IsZero() {
			added = today()
		}
		record := &types.Bookmark{
			ID:        b.ID,
			Title:     b.Title,
			URL:       b.URL,
			Notes:     b.Notes,
			DateAdded: added.UTC(),
		}
		if uid := ctxutil.UserID(ctx); uid != uuid.Nil {
			record.OwnerID = &uid
		}
		if _, err := c.repo.Create(ctx, tx, []*types.Bookmark{record}); err != nil {
			return fmt.Errorf("insert bookmark: %w", err)
		}
		out = fromRecord(record)
		return nil
	})
	if err != nil {
		return DomainBookmark{}, err
	}
	return out, nil
}

type ListBookmarksCommand struct {
	repo repos.BookmarkRepo
	// OrderBy is an ordering expression such as "date_added" or "-title".
	OrderBy string
}

func NewListBookmarksCommand(repo repos.BookmarkRepo) *ListBookmarksCommand {
	return &ListBookmarksCommand{repo: repo, OrderBy: "date_added"}
}

func (c *ListBookmarksCommand) Execute(ctx context.Context) ([]DomainBookmark, error) {
	orderBy := c.OrderBy
	if strings.TrimSpace(orderBy) == "" {
		orderBy = "date_added"
	}
	ordering, err := query.ParseOrdering(orderBy, bookmarkrepo.ListSpec)
	if err != nil {
		return nil, err
	}
	ordering = append(ordering, query.OrderField{Column: "bookmark.id"})
	records, _, err := c.repo.List(ctx, nil, query.Params{Ordering: ordering})
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	out := make([]DomainBookmark, 0, len(records))
	for _, r := range records {
		out = append(out, fromRecord(r))
	}
	return out, nil
}

type DeleteBookmarkCommand struct {
	db   *gorm.DB
	repo repos.BookmarkRepo
}

func NewDeleteBookmarkCommand(db *gorm.DB, repo repos.BookmarkRepo) *DeleteBookmarkCommand {
	return &DeleteBookmarkCommand{db: db, repo: repo}
}

func (c *DeleteBookmarkCommand) Execute(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := loadBookmark(ctx, tx, c.repo, id)
		if err != nil {
			return err
		}
		if err := authorize(ctx, record); err != nil {
			return err
		}
		if err := c.repo.Delete(ctx, tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrNotFound, id)
			}
			return fmt.Errorf("delete bookmark: %w", err)
		}
		return nil
	})
}

type EditBookmarkCommand struct {
	db   *gorm.DB
	repo repos.BookmarkRepo
}

func NewEditBookmarkCommand(db *gorm.DB, repo repos.BookmarkRepo) *EditBookmarkCommand {
	return &EditBookmarkCommand{db: db, repo: repo}
}

// Execute copies title, url, notes and date_added from b onto the stored bookmark b.ID and
// returns the result. A zero DateAdded keeps the stored date.
func (c *EditBookmarkCommand) Execute(ctx context.Context, b DomainBookmark) (DomainBookmark, error) {
	if err := validate(b); err != nil {
		return DomainBookmark{}, err
	}
	var out DomainBookmark
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := loadBookmark(ctx, tx, c.repo, b.ID)
		if err != nil {
			return err
		}
		if err := authorize(ctx, record); err != nil {
			return err
		}
		record.Title = b.Title
		record.URL = b.URL
		record.Notes = b.Notes
		if !b.DateAdded.IsZero() {
			record.DateAdded = b.DateAdded.UTC()
		}
		if err := c.repo.Update(ctx, tx, record); err != nil {
			return fmt.Errorf("update bookmark: %w", err)
		}
		out = fromRecord(record)
		return nil
	})
	if err != nil {
		return DomainBookmark{}, err
	}
	return out, nil
}

// Commands bundles the four bookmark commands over one repository.
type Commands struct {
	Add    *AddBookmarkCommand
	List   *ListBookmarksCommand
	Delete *DeleteBookmarkCommand
	Edit   *EditBookmarkCommand
}

func New(db *gorm.DB, repo repos.BookmarkRepo, log *logger.Logger) *Commands {
	return &Commands{
		Add:    NewAddBookmarkCommand(db, repo, log),
		List:   NewListBookmarksCommand(repo),
		Delete: NewDeleteBookmarkCommand(db, repo),
		Edit:   NewEditBookmarkCommand(db, repo),
	}
}
