package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/barky-backend/internal/data/repos"
	types "github.com/yungbote/barky-backend/internal/domain"
	"github.com/yungbote/barky-backend/internal/platform/ctxutil"
	"github.com/yungbote/barky-backend/internal/platform/dbctx"
	"github.com/yungbote/barky-backend/internal/platform/logger"
)

// UserView is a user plus the ids of everything they own.
type UserView struct {
	User        *types.User
	BookmarkIDs []uint
	SnippetIDs  []uint
}

// UserUpdate carries optional changes; nil fields are left alone.
type UserUpdate struct {
	Username  *string
	Password  *string
	Email     *string
	FirstName *string
	LastName  *string
}

type UserService interface {
	List(ctx context.Context) ([]*UserView, error)
	Get(ctx context.Context, userID uuid.UUID) (*UserView, error)
	GetMe(ctx context.Context) (*UserView, error)
	Update(ctx context.Context, userID uuid.UUID, in UserUpdate) (*UserView, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	bookmarkRepo  repos.BookmarkRepo
	snippetRepo   repos.SnippetRepo
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	bookmarkRepo repos.BookmarkRepo,
	snippetRepo repos.SnippetRepo,
) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		bookmarkRepo:  bookmarkRepo,
		snippetRepo:   snippetRepo,
	}
}

func (us *userService) List(ctx context.Context) ([]*UserView, error) {
	users, err := us.userRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return us.views(ctx, users)
}

func (us *userService) Get(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	views, err := us.views(ctx, users)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (us *userService) GetMe(ctx context.Context) (*UserView, error) {
	rd, err := requireCaller(ctxutil.GetRequestData(ctx))
	if err != nil {
		us.log.Warn("Request data not set in context")
		return nil, err
	}
	return us.Get(ctx, rd.UserID)
}

func (us *userService) Update(ctx context.Context, userID uuid.UUID, in UserUpdate) (*UserView, error) {
	if err := us.requireSelfOrStaff(ctx, userID); err != nil {
		return nil, err
	}

	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 {
			return fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		u := users[0]

		if in.Username != nil {
			name := strings.TrimSpace(*in.Username)
			if name == "" {
				return invalidf("username may not be blank")
			}
			if len(name) > maxUsernameLen {
				return invalidf("username must be at most %d characters", maxUsernameLen)
			}
			if name != u.Username {
				exists, err := us.userRepo.UsernameExists(ctx, tx, name)
				if err != nil {
					return fmt.Errorf("check username: %w", err)
				}
				if exists {
					return fmt.Errorf("%w: username %q is taken", ErrConflict, name)
				}
				u.Username = name
			}
		}
		if in.Password != nil {
			if *in.Password == "" {
				return invalidf("password may not be blank")
			}
			hash, err := hashPassword(*in.Password)
			if err != nil {
				return err
			}
			u.Password = hash
			if err := us.userTokenRepo.DeleteByUserIDs(dbctx.Context{Ctx: ctx, Tx: tx}, []uuid.UUID{u.ID}); err != nil {
				return fmt.Errorf("revoke tokens: %w", err)
			}
		}
		if in.Email != nil {
			u.Email = strings.TrimSpace(*in.Email)
		}
		if in.FirstName != nil {
			u.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			u.LastName = strings.TrimSpace(*in.LastName)
		}
		return us.userRepo.Update(ctx, tx, u)
	})
	if err != nil {
		return nil, err
	}
	return us.Get(ctx, userID)
}

// Delete removes the user together with their tokens, bookmarks and snippets.
func (us *userService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := us.requireSelfOrStaff(ctx, userID); err != nil {
		return err
	}
	return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.userTokenRepo.DeleteByUserIDs(dbctx.Context{Ctx: ctx, Tx: tx}, []uuid.UUID{userID}); err != nil {
			return fmt.Errorf("delete tokens: %w", err)
		}
		if _, err := us.bookmarkRepo.DeleteByOwner(ctx, tx, []uuid.UUID{userID}); err != nil {
			return fmt.Errorf("delete bookmarks: %w", err)
		}
		if _, err := us.snippetRepo.DeleteByOwner(ctx, tx, []uuid.UUID{userID}); err != nil {
			return fmt.Errorf("delete snippets: %w", err)
		}
		if err := us.userRepo.Delete(ctx, tx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, userID)
			}
			return fmt.Errorf("delete user: %w", err)
		}
		us.log.Info("User deleted", "user_id", userID)
		return nil
	})
}

func (us *userService) requireSelfOrStaff(ctx context.Context, userID uuid.UUID) error {
	rd, err := requireCaller(ctxutil.GetRequestData(ctx))
	if err != nil {
		return err
	}
	if rd.UserID != userID && !rd.IsStaff {
		return ErrForbidden
	}
	return nil
}

func (us *userService) views(ctx context.Context, users []*types.User) ([]*UserView, error) {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	bookmarkIDs, err := us.bookmarkRepo.ListIDsByOwner(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("list bookmark ids: %w", err)
	}
	snippetIDs, err := us.snippetRepo.ListIDsByOwner(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("list snippet ids: %w", err)
	}
	out := make([]*UserView, 0, len(users))
	for _, u := range users {
		v := &UserView{User: u, BookmarkIDs: bookmarkIDs[u.ID], SnippetIDs: snippetIDs[u.ID]}
		if v.BookmarkIDs == nil {
			v.BookmarkIDs = []uint{}
		}
		if v.SnippetIDs == nil {
			v.SnippetIDs = []uint{}
		}
		out = append(out, v)
	}
	return out, nil
}
