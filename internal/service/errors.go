package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/favourites-api/internal/domain"
	apperrors "github.com/spec-kit/favourites-api/pkg/util"
)

// mapStoreError turns repository failures into the API's error kinds.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, domain.ErrUserNotFound):
		return apperrors.NewNotFound("user")
	case errors.Is(err, domain.ErrUsernameTaken):
		return apperrors.NewDuplicateUsername("User Name already taken")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		pgconn.Timeout(err), pgconn.SafeToRetry(err):
		return apperrors.NewStoreUnavailable(err)
	default:
		return apperrors.NewInternalError(err)
	}
}
