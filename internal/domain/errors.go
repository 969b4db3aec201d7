package domain

import (
	"fmt"

	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
)

// Validation and outcome sentinels. Each wraps a pkg/errors sentinel so the
// HTTP layer can map it without knowing the cart domain.
var (
	ErrMissingSession    = fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	ErrInvalidPartFormat = fmt.Errorf("%w: part number must be PS followed by digits", apperrors.ErrInvalidInput)
	ErrInvalidQuantity   = fmt.Errorf("%w: quantity must be a positive whole number", apperrors.ErrInvalidInput)
	ErrMissingName       = fmt.Errorf("%w: item name is required", apperrors.ErrInvalidInput)
	ErrEmptyCart         = fmt.Errorf("%w: cart is empty", apperrors.ErrUnprocessable)
	ErrStorageFailure    = fmt.Errorf("%w: cart storage failed", apperrors.ErrServiceUnavail)
)

// Error codes carried by AppError values built from the sentinels above.
const (
	CodeMissingSession    = "MISSING_SESSION"
	CodeInvalidPartFormat = "INVALID_PART_FORMAT"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeMissingName       = "MISSING_NAME"
	CodeEmptyCart         = "EMPTY_CART"
	CodeStorageFailure    = "STORAGE_FAILURE"
)
