package services

import (
	"errors"

	"findtern_backend/internal/repositories"
	"findtern_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// handleRepoError - sentinel-ошибки репозиториев в AppError
func handleRepoError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrEmployerNotFound),
		errors.Is(err, repositories.ErrProjectNotFound),
		errors.Is(err, repositories.ErrInterviewNotFound),
		errors.Is(err, repositories.ErrProposalNotFound),
		errors.Is(err, repositories.ErrOnboardingNotFound),
		errors.Is(err, repositories.ErrDocumentNotFound),
		errors.Is(err, repositories.ErrCalendarTokenNotFound):
		return apperrors.ErrNotFound(err)
	case errors.Is(err, repositories.ErrUserAlreadyExists),
		errors.Is(err, repositories.ErrEmployerAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	}
	return apperrors.InternalError(err)
}

// fieldError - ошибка валидации одного поля
func fieldError(field, message string) error {
	return apperrors.ValidationError(map[string]string{field: message})
}
