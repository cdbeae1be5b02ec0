package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yungbote/barky-backend/internal/platform/ctxutil"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// requireCaller returns the authenticated caller or ErrUnauthorized.
func requireCaller(rd *ctxutil.RequestData) (*ctxutil.RequestData, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	return rd, nil
}

// canWrite allows writes on unowned objects, on the caller's own objects and for staff.
func canWrite(rd *ctxutil.RequestData, ownerID *uuid.UUID) error {
	caller, err := requireCaller(rd)
	if err != nil {
		return err
	}
	if ownerID == nil || *ownerID == caller.UserID || caller.IsStaff {
		return nil
	}
	return ErrForbidden
}
