package usecase

import (
	"context"
	"errors"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"
	"skillmates-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// currentUserID returns the authenticated caller or an Unauthorized error.
func currentUserID(ctx context.Context) (string, error) {
	id := domain.UserIDFrom(ctx)
	if id == "" {
		return "", apperror.Unauthorized("User not authenticated")
	}
	return id, nil
}

// wrapRepoErr maps domain.ErrNotFound to a NotFound with msg, passes AppErrors
// through and wraps anything else as Internal.
func wrapRepoErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(msg)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(err)
}

func validate(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	return nil
}
