package repository

import (
	"context"
	"fmt"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
)

// Store failures. Both wrap apperrors.ErrServiceUnavail so an unhandled store
// error still maps to 503.
var (
	// ErrUnavailable means the backend could not be reached at all: no
	// client, refused connection, closed pool, or an open circuit.
	ErrUnavailable = fmt.Errorf("%w: session store unavailable", apperrors.ErrServiceUnavail)

	// ErrBackend means the backend answered with an error or returned data
	// that could not be decoded.
	ErrBackend = fmt.Errorf("%w: session store error", apperrors.ErrServiceUnavail)
)

// SessionStore persists session metadata, the active cart and the latest
// order record for each session, each with its own expiry window.
//
// Every method returns an explicit error; callers decide how to degrade.
type SessionStore interface {
	// TouchSession merges updates and a fresh last_active timestamp into the
	// session record and restarts its expiry window.
	TouchSession(ctx context.Context, sessionID string, updates map[string]string) error

	// GetSession returns the session record or an ErrNotFound error.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// UpsertCartItem writes the item under an already normalized part number
	// and restarts the cart expiry window. Inputs are not re-validated.
	UpsertCartItem(ctx context.Context, sessionID, partNumber string, item domain.Item) error

	// ReadCart returns the cart, empty when absent. An undecodable entry is
	// reported as domain.CorruptItem without failing the read.
	ReadCart(ctx context.Context, sessionID string) (*domain.Cart, error)

	// ClearCart deletes the cart and reports whether anything was removed.
	ClearCart(ctx context.Context, sessionID string) (bool, error)

	// CreateOrderRecord replaces the session's order record slot. Missing
	// OrderID, Status and CreatedAt are filled in on the record.
	CreateOrderRecord(ctx context.Context, record *domain.OrderRecord) error

	// GetOrderRecord returns the current order record or an ErrNotFound error.
	GetOrderRecord(ctx context.Context, sessionID string) (*domain.OrderRecord, error)

	// Ping checks backend availability.
	Ping(ctx context.Context) error
}
