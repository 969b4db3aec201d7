package service

import (
	"fmt"
	"net/http"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
)

func missingSession() *apperrors.AppError {
	return apperrors.New(domain.CodeMissingSession, http.StatusBadRequest, domain.ErrMissingSession)
}

func invalidPartFormat() *apperrors.AppError {
	return apperrors.New(domain.CodeInvalidPartFormat, http.StatusBadRequest, domain.ErrInvalidPartFormat)
}

func invalidQuantity() *apperrors.AppError {
	return apperrors.New(domain.CodeInvalidQuantity, http.StatusBadRequest, domain.ErrInvalidQuantity)
}

func missingName() *apperrors.AppError {
	return apperrors.New(domain.CodeMissingName, http.StatusBadRequest, domain.ErrMissingName)
}

func emptyCart() *apperrors.AppError {
	return apperrors.New(domain.CodeEmptyCart, http.StatusUnprocessableEntity, domain.ErrEmptyCart)
}

// storageFailure reports a store error to callers as STORAGE_FAILURE while
// keeping the underlying classification reachable through errors.Is.
func storageFailure(op string, err error) *apperrors.AppError {
	return &apperrors.AppError{
		Code:    domain.CodeStorageFailure,
		Message: domain.ErrStorageFailure.Error(),
		Status:  http.StatusServiceUnavailable,
		Err:     fmt.Errorf("%s: %w: %w", op, domain.ErrStorageFailure, err),
	}
}
