package bookmark

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/barky-backend/internal/data/query"
	types "github.com/yungbote/barky-backend/internal/domain"
	"github.com/yungbote/barky-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListSpec is the search and ordering surface of the bookmark list.
var ListSpec = query.Spec{
	SearchColumns: []string{"bookmark.title", "bookmark.url", "bookmark.notes"},
	Orderable: map[string]string{
		"id":         "bookmark.id",
		"title":      "bookmark.title",
		"url":        "bookmark.url",
		"date_added": "bookmark.date_added",
	},
	DefaultOrder: []query.OrderField{
		{Column: "bookmark.date_added"},
		{Column: "bookmark.id"},
	},
}

type BookmarkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bookmarks []*types.Bookmark) ([]*types.Bookmark, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Bookmark, error)
	GetByURL(ctx context.Context, tx *gorm.DB, url string) (*types.Bookmark, error)
	List(ctx context.Context, tx *gorm.DB, params query.Params) ([]*types.Bookmark, int64, error)
	ListIDsByOwner(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) (map[uuid.UUID][]uint, error)
	Update(ctx context.Context, tx *gorm.DB, bookmark *types.Bookmark) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DeleteByOwner(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) (int64, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type bookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	repoLog := baseLog.With("repo", "BookmarkRepo")
	return &bookmarkRepo{db: db, log: repoLog}
}

func (br *bookmarkRepo) Create(ctx context.Context, tx *gorm.DB, bookmarks []*types.Bookmark) ([]*types.Bookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if len(bookmarks) == 0 {
		return []*types.Bookmark{}, nil
	}

	explicitID := false
	for _, b := range bookmarks {
		if b.ID != 0 {
			explicitID = true
		}
	}

	if err := transaction.WithContext(ctx).
		Omit(clause.Associations).
		Create(&bookmarks).Error; err != nil {
		return nil, err
	}

	if explicitID {
		if err := syncSequence(ctx, transaction, "bookmark"); err != nil {
			return nil, err
		}
	}
	return bookmarks, nil
}

// GetByID returns gorm.ErrRecordNotFound when the row is missing.
func (br *bookmarkRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Bookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var result types.Bookmark
	if err := transaction.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// GetByURL returns nil without error when no bookmark has the URL.
func (br *bookmarkRepo) GetByURL(ctx context.Context, tx *gorm.DB, url string) (*types.Bookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*types.Bookmark
	if err := transaction.WithContext(ctx).
		Where("url = ?", url).
		Order("id ASC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// List applies params and returns the requested page plus the unpaged total.
// A zero PageSize returns every matching row.
func (br *bookmarkRepo) List(ctx context.Context, tx *gorm.DB, params query.Params) ([]*types.Bookmark, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	base := query.Where(transaction.WithContext(ctx).Model(&types.Bookmark{}), params, ListSpec)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Bookmark
	q := query.Paginate(query.Order(base.Session(&gorm.Session{}), params, ListSpec), params)
	if err := q.Preload("Owner").Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (br *bookmarkRepo) ListIDsByOwner(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) (map[uuid.UUID][]uint, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
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
		Model(&types.Bookmark{}).
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

func (br *bookmarkRepo) Update(ctx context.Context, tx *gorm.DB, bookmark *types.Bookmark) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	return transaction.WithContext(ctx).
		Omit(clause.Associations).
		Save(bookmark).Error
}

func (br *bookmarkRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (br *bookmarkRepo) DeleteByOwner(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if len(ownerIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("owner_id IN ?", ownerIDs).
		Delete(&types.Bookmark{})
	return res.RowsAffected, res.Error
}

func (br *bookmarkRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var count int64
	err := transaction.WithContext(ctx).Model(&types.Bookmark{}).Count(&count).Error
	return count, err
}

// syncSequence moves a Postgres serial past client-supplied ids so later inserts do not collide.
func syncSequence(ctx context.Context, tx *gorm.DB, table string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.WithContext(ctx).Exec(
		"SELECT setval(pg_get_serial_sequence(?, 'id'), GREATEST((SELECT COALESCE(MAX(id), 0) FROM "+table+"), 1))",
		table,
	).Error
}
