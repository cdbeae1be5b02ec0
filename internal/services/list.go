package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/barky-backend/internal/data/query"
	"github.com/yungbote/barky-backend/internal/data/repos"
	"github.com/yungbote/barky-backend/internal/platform/apierr"
	"github.com/yungbote/barky-backend/internal/platform/ctxutil"
)

// PageConfig bounds page-number pagination for list endpoints.
type PageConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

func (pc PageConfig) parse(page, pageSize string) (int, int, error) {
	def := pc.DefaultPageSize
	if def <= 0 {
		def = 10
	}
	p, s, err := query.ParsePage(page, pageSize, def, pc.MaxPageSize)
	if err != nil {
		return 0, 0, queryError(err)
	}
	return p, s, nil
}

// queryError maps list-parameter failures onto API errors.
func queryError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	if errors.Is(err, query.ErrInvalidOrdering) || errors.Is(err, query.ErrInvalidPage) || errors.Is(err, query.ErrInvalidDate) {
		return apierr.New(http.StatusBadRequest, "invalid_query", err)
	}
	return err
}

func pageRangeError(err error) error {
	return apierr.New(http.StatusNotFound, "invalid_page", err)
}

// resolveOwner turns an owner filter (a username, or "me") into an id. Unknown names and
// anonymous "me" resolve to uuid.Nil, which matches nothing.
func resolveOwner(ctx context.Context, userRepo repos.UserRepo, raw string) (uuid.UUID, error) {
	name := strings.TrimSpace(raw)
	if strings.EqualFold(name, "me") {
		return ctxutil.UserID(ctx), nil
	}
	users, err := userRepo.GetByUsernames(ctx, nil, []string{name})
	if err != nil {
		return uuid.Nil, err
	}
	if len(users) == 0 {
		return uuid.Nil, nil
	}
	return users[0].ID, nil
}
