package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/barky-backend/internal/data/query"
	"github.com/yungbote/barky-backend/internal/data/repos"
	bookmarkrepo "github.com/yungbote/barky-backend/internal/data/repos/bookmark"
	types "github.com/yungbote/barky-backend/internal/domain"
	bookmarkdomain "github.com/yungbote/barky-backend/internal/domain/bookmark"
	"github.com/yungbote/barky-backend/internal/platform/ctxutil"
	"github.com/yungbote/barky-backend/internal/platform/logger"
)

type BookmarkListRequest struct {
	Search          string
	Ordering        string
	Owner           string
	Title           string
	URL             string
	DateAdded       string
	DateAddedAfter  string
	DateAddedBefore string
	Page            string
	PageSize        string
}

// BookmarkInput carries client fields; nil means "not sent".
type BookmarkInput struct {
	ID        *uint
	Title     *string
	URL       *string
	Notes     *string
	DateAdded *time.Time
	Tags      *[]string
}

type BookmarkService interface {
	List(ctx context.Context, req BookmarkListRequest) (*query.Page[*types.Bookmark], error)
	Get(ctx context.Context, id uint) (*types.Bookmark, error)
	Create(ctx context.Context, in BookmarkInput) (*types.Bookmark, error)
	Update(ctx context.Context, id uint, in BookmarkInput, partial bool) (*types.Bookmark, error)
	Delete(ctx context.Context, id uint) error
}

type bookmarkService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	bookmarkRepo repos.BookmarkRepo
	pages        PageConfig
}

func NewBookmarkService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	bookmarkRepo repos.BookmarkRepo,
	pages PageConfig,
) BookmarkService {
	serviceLog := log.With("service", "BookmarkService")
	return &bookmarkService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		bookmarkRepo: bookmarkRepo,
		pages:        pages,
	}
}

func (bs *bookmarkService) List(ctx context.Context, req BookmarkListRequest) (*query.Page[*types.Bookmark], error) {
	page, size, err := bs.pages.parse(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	ordering, err := query.ParseOrdering(req.Ordering, bookmarkrepo.ListSpec)
	if err != nil {
		return nil, queryError(err)
	}
	filters, err := query.DayFilters("bookmark.date_added", req.DateAdded, req.DateAddedAfter, req.DateAddedBefore)
	if err != nil {
		return nil, queryError(err)
	}
	if v := strings.TrimSpace(req.Title); v != "" {
		filters = append(filters, query.Filter{Column: "bookmark.title", Op: query.OpIContains, Value: v})
	}
	if v := strings.TrimSpace(req.URL); v != "" {
		filters = append(filters, query.Filter{Column: "bookmark.url", Op: query.OpIContains, Value: v})
	}
	if strings.TrimSpace(req.Owner) != "" {
		ownerID, err := resolveOwner(ctx, bs.userRepo, req.Owner)
		if err != nil {
			return nil, fmt.Errorf("resolve owner: %w", err)
		}
		filters = append(filters, query.Filter{Column: "bookmark.owner_id", Op: query.OpEq, Value: ownerID})
	}

	params := query.Params{
		Search:   req.Search,
		Filters:  filters,
		Ordering: ordering,
		Page:     page,
		PageSize: size,
	}
	items, total, err := bs.bookmarkRepo.List(ctx, nil, params)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	if err := query.CheckRange(params, total); err != nil {
		return nil, pageRangeError(err)
	}
	return &query.Page[*types.Bookmark]{Items: items, Total: total, Page: page, PageSize: size}, nil
}

func (bs *bookmarkService) Get(ctx context.Context, id uint) (*types.Bookmark, error) {
	b, err := bs.bookmarkRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bookmark %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	return b, nil
}

func (bs *bookmarkService) Create(ctx context.Context, in BookmarkInput) (*types.Bookmark, error) {
	rd, err := requireCaller(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	b := &types.Bookmark{OwnerID: &rd.UserID}
	if in.ID != nil {
		b.ID = *in.ID
	}
	if err := applyBookmarkInput(b, in, false); err != nil {
		return nil, err
	}

	err = bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if b.ID != 0 {
			_, err := bs.bookmarkRepo.GetByID(ctx, tx, b.ID)
			if err == nil {
				return fmt.Errorf("%w: bookmark %d already exists", ErrConflict, b.ID)
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("check bookmark id: %w", err)
			}
		}
		if _, err := bs.bookmarkRepo.Create(ctx, tx, []*types.Bookmark{b}); err != nil {
			return fmt.Errorf("create bookmark: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	bs.log.Debug("Bookmark created", "bookmark_id", b.ID, "owner_id", rd.UserID)
	return bs.Get(ctx, b.ID)
}

// Update applies in to an existing bookmark. A full update (partial=false) requires title
// and url; the id in the body is never applied.
func (bs *bookmarkService) Update(ctx context.Context, id uint, in BookmarkInput, partial bool) (*types.Bookmark, error) {
	rd := ctxutil.GetRequestData(ctx)
	if _, err := requireCaller(rd); err != nil {
		return nil, err
	}
	err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := bs.bookmarkRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: bookmark %d", ErrNotFound, id)
			}
			return fmt.Errorf("load bookmark: %w", err)
		}
		if err := canWrite(rd, b.OwnerID); err != nil {
			return err
		}
		if err := applyBookmarkInput(b, in, partial); err != nil {
			return err
		}
		return bs.bookmarkRepo.Update(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	return bs.Get(ctx, id)
}

func (bs *bookmarkService) Delete(ctx context.Context, id uint) error {
	rd := ctxutil.GetRequestData(ctx)
	if _, err := requireCaller(rd); err != nil {
		return err
	}
	return bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := bs.bookmarkRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: bookmark %d", ErrNotFound, id)
			}
			return fmt.Errorf("load bookmark: %w", err)
		}
		if err := canWrite(rd, b.OwnerID); err != nil {
			return err
		}
		return bs.bookmarkRepo.Delete(ctx, tx, id)
	})
}

func applyBookmarkInput(b *types.Bookmark, in BookmarkInput, partial bool) error {
	if !partial {
		if in.Title == nil {
			return invalidf("title is required")
		}
		if in.URL == nil {
			return invalidf("url is required")
		}
	}
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.URL != nil {
		b.URL = strings.TrimSpace(*in.URL)
	}
	if in.Notes != nil {
		b.Notes = *in.Notes
	} else if !partial {
		b.Notes = ""
	}
	if in.DateAdded != nil {
		b.DateAdded = in.DateAdded.UTC()
	}
	if in.Tags != nil {
		b.Tags = cleanTags(*in.Tags)
	} else if !partial {
		b.Tags = []string{}
	}
	return ValidateBookmark(b.Title, b.URL)
}

// ValidateBookmark enforces a non-empty title and an absolute http(s) URL.
func ValidateBookmark(title, rawURL string) error {
	if err := bookmarkdomain.Validate(title, rawURL); err != nil {
		return invalidf("%v", err)
	}
	return nil
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
