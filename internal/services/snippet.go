package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/barky-backend/internal/data/cache"
	"github.com/yungbote/barky-backend/internal/data/query"
	"github.com/yungbote/barky-backend/internal/data/repos"
	snippetrepo "github.com/yungbote/barky-backend/internal/data/repos/snippet"
	types "github.com/yungbote/barky-backend/internal/domain"
	"github.com/yungbote/barky-backend/internal/platform/ctxutil"
	"github.com/yungbote/barky-backend/internal/platform/highlight"
	"github.com/yungbote/barky-backend/internal/platform/logger"
)

const maxSnippetTitleLen = 100

type SnippetListRequest struct {
	Search        string
	Ordering      string
	Owner         string
	Title         string
	Language      string
	Created       string
	CreatedAfter  string
	CreatedBefore string
	Page          string
	PageSize      string
}

type SnippetInput struct {
	Title    *string
	Code     *string
	LineNos  *bool
	Language *string
	Style    *string
}

// HighlightRequest asks for an alternate rendering. Empty Style and nil LineNos mean the
// stored rendering.
type HighlightRequest struct {
	Style   string
	LineNos *bool
}

type SnippetService interface {
	List(ctx context.Context, req SnippetListRequest) (*query.Page[*types.Snippet], error)
	Get(ctx context.Context, id uint) (*types.Snippet, error)
	Create(ctx context.Context, in SnippetInput) (*types.Snippet, error)
	Update(ctx context.Context, id uint, in SnippetInput, partial bool) (*types.Snippet, error)
	Delete(ctx context.Context, id uint) error
	Highlight(ctx context.Context, id uint, req HighlightRequest) (string, error)
	Languages() []string
	Styles() []string
}

type snippetService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	snippetRepo repos.SnippetRepo
	cache       cache.HighlightCache
	pages       PageConfig
}

func NewSnippetService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	snippetRepo repos.SnippetRepo,
	highlightCache cache.HighlightCache,
	pages PageConfig,
) SnippetService {
	serviceLog := log.With("service", "SnippetService")
	if highlightCache == nil {
		highlightCache = cache.NewNoopHighlightCache()
	}
	return &snippetService{
		db:          db,
		log:         serviceLog,
		userRepo:    userRepo,
		snippetRepo: snippetRepo,
		cache:       highlightCache,
		pages:       pages,
	}
}

func (ss *snippetService) List(ctx context.Context, req SnippetListRequest) (*query.Page[*types.Snippet], error) {
	page, size, err := ss.pages.parse(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	ordering, err := query.ParseOrdering(req.Ordering, snippetrepo.ListSpec)
	if err != nil {
		return nil, queryError(err)
	}
	filters, err := query.DayFilters("snippet.created", req.Created, req.CreatedAfter, req.CreatedBefore)
	if err != nil {
		return nil, queryError(err)
	}
	if v := strings.TrimSpace(req.Title); v != "" {
		filters = append(filters, query.Filter{Column: "snippet.title", Op: query.OpIContains, Value: v})
	}
	if v := strings.TrimSpace(req.Language); v != "" {
		filters = append(filters, query.Filter{Column: "snippet.language", Op: query.OpEq, Value: strings.ToLower(v)})
	}
	if strings.TrimSpace(req.Owner) != "" {
		ownerID, err := resolveOwner(ctx, ss.userRepo, req.Owner)
		if err != nil {
			return nil, fmt.Errorf("resolve owner: %w", err)
		}
		filters = append(filters, query.Filter{Column: "snippet.owner_id", Op: query.OpEq, Value: ownerID})
	}

	params := query.Params{
		Search:   req.Search,
		Filters:  filters,
		Ordering: ordering,
		Page:     page,
		PageSize: size,
	}
	items, total, err := ss.snippetRepo.List(ctx, nil, params)
	if err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	if err := query.CheckRange(params, total); err != nil {
		return nil, pageRangeError(err)
	}
	return &query.Page[*types.Snippet]{Items: items, Total: total, Page: page, PageSize: size}, nil
}

func (ss *snippetService) Get(ctx context.Context, id uint) (*types.Snippet, error) {
	s, err := ss.snippetRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: snippet %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get snippet: %w", err)
	}
	return s, nil
}

func (ss *snippetService) Create(ctx context.Context, in SnippetInput) (*types.Snippet, error) {
	rd, err := requireCaller(ctxutil.GetRequestData(ctx))
	if err != nil {
		return nil, err
	}
	s := &types.Snippet{OwnerID: rd.UserID}
	if err := applySnippetInput(s, in, false); err != nil {
		return nil, err
	}
	if _, err := ss.snippetRepo.Create(ctx, nil, []*types.Snippet{s}); err != nil {
		return nil, fmt.Errorf("create snippet: %w", err)
	}
	ss.log.Debug("Snippet created", "snippet_id", s.ID, "owner_id", rd.UserID)
	return ss.Get(ctx, s.ID)
}

func (ss *snippetService) Update(ctx context.Context, id uint, in SnippetInput, partial bool) (*types.Snippet, error) {
	rd := ctxutil.GetRequestData(ctx)
	if _, err := requireCaller(rd); err != nil {
		return nil, err
	}
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := ss.snippetRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: snippet %d", ErrNotFound, id)
			}
			return fmt.Errorf("load snippet: %w", err)
		}
		ownerID := s.OwnerID
		if err := canWrite(rd, &ownerID); err != nil {
			return err
		}
		if err := applySnippetInput(s, in, partial); err != nil {
			return err
		}
		return ss.snippetRepo.Update(ctx, tx, s)
	})
	if err != nil {
		return nil, err
	}
	return ss.Get(ctx, id)
}

func (ss *snippetService) Delete(ctx context.Context, id uint) error {
	rd := ctxutil.GetRequestData(ctx)
	if _, err := requireCaller(rd); err != nil {
		return err
	}
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := ss.snippetRepo.GetByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: snippet %d", ErrNotFound, id)
			}
			return fmt.Errorf("load snippet: %w", err)
		}
		ownerID := s.OwnerID
		if err := canWrite(rd, &ownerID); err != nil {
			return err
		}
		return ss.snippetRepo.Delete(ctx, tx, id)
	})
}

// Highlight returns the stored rendering, or an alternate one built on demand and cached.
func (ss *snippetService) Highlight(ctx context.Context, id uint, req HighlightRequest) (string, error) {
	s, err := ss.Get(ctx, id)
	if err != nil {
		return "", err
	}
	style := strings.ToLower(strings.TrimSpace(req.Style))
	if style == "" && req.LineNos == nil {
		return s.Highlighted, nil
	}

	opts := s.HighlightOptions()
	if style != "" {
		if !highlight.IsStyle(style) {
			return "", invalidf("unknown style %q", style)
		}
		opts.Style = style
	}
	if req.LineNos != nil {
		opts.LineNos = *req.LineNos
	}
	if opts.Style == s.Style && opts.LineNos == s.LineNos {
		return s.Highlighted, nil
	}

	key := cache.HighlightKey(s.ID, s.UpdatedAt, opts.Style, opts.LineNos)
	if html, ok, err := ss.cache.Get(ctx, key); err != nil {
		ss.log.Warn("Highlight cache read failed", "error", err)
	} else if ok {
		return html, nil
	}

	html, err := highlight.Render(s.Code, opts)
	if err != nil {
		return "", fmt.Errorf("render snippet %d: %w", s.ID, err)
	}
	if err := ss.cache.Set(ctx, key, html); err != nil {
		ss.log.Warn("Highlight cache write failed", "error", err)
	}
	return html, nil
}

func (ss *snippetService) Languages() []string { return highlight.Languages() }

func (ss *snippetService) Styles() []string { return highlight.Styles() }

func applySnippetInput(s *types.Snippet, in SnippetInput, partial bool) error {
	if !partial && in.Code == nil {
		return invalidf("code is required")
	}
	if in.Title != nil {
		s.Title = strings.TrimSpace(*in.Title)
	} else if !partial {
		s.Title = ""
	}
	if in.Code != nil {
		s.Code = *in.Code
	}
	if in.LineNos != nil {
		s.LineNos = *in.LineNos
	} else if !partial {
		s.LineNos = false
	}
	if in.Language != nil {
		s.Language = strings.ToLower(strings.TrimSpace(*in.Language))
	} else if !partial {
		s.Language = highlight.DefaultLanguage
	}
	if in.Style != nil {
		s.Style = strings.ToLower(strings.TrimSpace(*in.Style))
	} else if !partial {
		s.Style = highlight.DefaultStyle
	}
	return ValidateSnippet(s.Title, s.Code, s.Language, s.Style)
}

func ValidateSnippet(title, code, language, style string) error {
	if len(title) > maxSnippetTitleLen {
		return invalidf("title must be at most %d characters", maxSnippetTitleLen)
	}
	if strings.TrimSpace(code) == "" {
		return invalidf("code may not be blank")
	}
	if language != "" && !highlight.IsLanguage(language) {
		return invalidf("%q is not a valid language", language)
	}
	if style != "" && !highlight.IsStyle(style) {
		return invalidf("%q is not a valid style", style)
	}
	return nil
}
