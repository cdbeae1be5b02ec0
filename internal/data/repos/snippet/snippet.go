package snippet

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/barky-backend/internal/data/query"
	types "github.com/yungbote/barky-backend/internal/domain"
	"github.com/yungbote/barky-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ListSpec = query.Spec{
	SearchColumns: []string{"snippet.title", "snippet.code", "snippet.language"},
	Orderable: map[string]string{
		"id":       "snippet.id",
		"title":    "snippet.title",
		"language": "snippet.language",
		"created":  "snippet.created",
	},
	DefaultOrder: []query.OrderField{
		{Column: "snippet.created"},
		{Column: "snippet.id"},
	},
}

type SnippetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, snippets []*types.Snippet) ([]*types.Snippet, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Snippet, error)
	List(ctx context.Context, tx *gorm.DB, params query.Params) ([]*types.Snippet, int64, error)
	ListIDsByOwner(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) (map[uuid.UUID][]uint, error)
	Update(ctx context.Context, tx *gorm.DB, snippet *types.Snippet) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteByOwner(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) (int64, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type snippetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnippetRepo(db *gorm.DB, baseLog *logger.Logger) SnippetRepo {
	repoLog := baseLog.With("repo", "SnippetRepo")
	return &snippetRepo{db: db, log: repoLog}
}

// Create runs the Snippet save hook, so Highlighted is rendered on the way in.
func (sr *snippetRepo) Create(ctx context.Context, tx *gorm.DB, snippets []*types.Snippet) ([]*types.Snippet, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(snippets) == 0 {
		return []*types.Snippet{}, nil
	}

	if err := transaction.WithContext(ctx).
		Omit(clause.Associations).
		Create(&snippets).Error; err != nil {
		return nil, err
	}
	return snippets, nil
}

func (sr *snippetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Snippet, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.Snippet
	if err := transaction.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *snippetRepo) List(ctx context.Context, tx *gorm.DB, params query.Params) ([]*types.Snippet, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	base := query.Where(transaction.WithContext(ctx).Model(&types.Snippet{}), params, ListSpec)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Snippet
	q := query.Paginate(query.Order(base.Session(&gorm.Session{}), params, ListSpec), params)
	if err := q.Preload("Owner").Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (sr *snippetRepo) ListIDsByOwner(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) (map[uuid.UUID][]uint, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	out := make(map[uuid.UUID][]uint, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		ID      uint
		OwnerID uuid.UUID
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Snippet{}).
		Select("id", "owner_id").
		Where("owner_id IN ?", ownerIDs).
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.OwnerID] = append(out[r.OwnerID], r.ID)
	}
	return out, nil
}

// Update saves every column so the save hook re-renders Highlighted.
func (sr *snippetRepo) Update(ctx context.Context, tx *gorm.DB, snippet *types.Snippet) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Omit(clause.Associations).
		Save(snippet).Error
}

func (sr *snippetRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Snippet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (sr *snippetRepo) DeleteByOwner(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(ownerIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("owner_id IN ?", ownerIDs).
		Delete(&types.Snippet{})
	return res.RowsAffected, res.Error
}

func (sr *snippetRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	err := transaction.WithContext(ctx).Model(&types.Snippet{}).Count(&count).Error
	return count, err
}
