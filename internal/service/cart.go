package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
	"github.com/khamseaffan/PartSelectAI/internal/repository"
	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
)

// DefaultRedirectURL is where a finalized cart sends the user to complete the
// purchase.
const DefaultRedirectURL = "https://www.partselect.com/"

// EventPublisher emits cart domain events. Publishing is best effort: a
// failure is logged and never fails the operation.
type EventPublisher interface {
	PublishItemAdded(ctx context.Context, sessionID, partNumber string, item domain.Item) error
	PublishCartCleared(ctx context.Context, sessionID string, removed bool) error
	PublishCartFinalized(ctx context.Context, record *domain.OrderRecord) error
}

// AddItemInput holds the parameters for adding an item to the cart. Quantity
// is loosely typed because it arrives from free-form tool arguments.
type AddItemInput struct {
	SessionID  string `json:"session_id"`
	PartNumber string `json:"part_number"`
	Quantity   any    `json:"quantity"`
	Name       string `json:"name"`
}

// AddItemResult echoes the stored entry.
type AddItemResult struct {
	PartNumber string `json:"part_number"`
	Quantity   int    `json:"quantity"`
	Name       string `json:"name"`
}

// CartView is the read model of a cart. Degraded is set when the store could
// not be read and the view falls back to empty.
type CartView struct {
	SessionID string        `json:"session_id"`
	Items     []domain.Line `json:"items"`
	ItemCount int           `json:"item_count"`
	Degraded  bool          `json:"degraded,omitempty"`
}

// IsEmpty reports whether the view holds no entries.
func (v *CartView) IsEmpty() bool {
	return len(v.Items) == 0
}

// FinalizeResult summarizes a finalized cart.
type FinalizeResult struct {
	OrderID     string        `json:"order_id"`
	ItemCount   int           `json:"item_count"`
	RedirectURL string        `json:"redirect_url"`
	CreatedAt   time.Time     `json:"created_at"`
	Items       []domain.Line `json:"items"`
}

// CartService validates cart requests and sequences them against the session
// store. It holds no state between calls.
//
// Same-session calls are not serialized: concurrent adds are last-write-wins
// per part number and concurrent finalizes may both write a record, the later
// one replacing the earlier.
type CartService struct {
	store       repository.SessionStore
	events      EventPublisher
	logger      *slog.Logger
	redirectURL string
	now         func() time.Time
}

// NewCartService creates a new cart service. An empty redirectURL falls back
// to DefaultRedirectURL.
func NewCartService(store repository.SessionStore, events EventPublisher, logger *slog.Logger, redirectURL string) *CartService {
	if redirectURL == "" {
		redirectURL = DefaultRedirectURL
	}
	return &CartService{
		store:       store,
		events:      events,
		logger:      logger,
		redirectURL: redirectURL,
		now:         time.Now,
	}
}

// RedirectURL returns the external checkout target.
func (s *CartService) RedirectURL() string {
	return s.redirectURL
}

// AddItem validates the input in a single pass, reporting the first violation,
// and upserts the item under its normalized part number.
func (s *CartService) AddItem(ctx context.Context, input AddItemInput) (*AddItemResult, error) {
	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return nil, missingSession()
	}
	pn, err := domain.ParsePartNumber(input.PartNumber)
	if err != nil {
		return nil, invalidPartFormat()
	}
	qty, err := domain.ParseQuantity(input.Quantity)
	if err != nil {
		return nil, invalidQuantity()
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, missingName()
	}

	item := domain.Item{Quantity: qty, Name: name}
	if err := s.store.UpsertCartItem(ctx, sessionID, pn, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to add item to cart",
			slog.String("session_id", sessionID),
			slog.String("part_number", pn),
			slog.String("error", err.Error()),
		)
		return nil, storageFailure("add item", err)
	}

	if err := s.events.PublishItemAdded(ctx, sessionID, pn, item); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.item_added event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("part_number", pn),
		slog.Int("quantity", qty),
	)

	return &AddItemResult{PartNumber: pn, Quantity: qty, Name: name}, nil
}

// ViewCart returns the cart contents. An unreadable store yields an empty,
// degraded view instead of an error.
func (s *CartService) ViewCart(ctx context.Context, sessionID string) (*CartView, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, missingSession()
	}

	cart, err := s.store.ReadCart(ctx, sessionID)
	if err != nil {
		s.logger.WarnContext(ctx, "cart unreadable, showing empty cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return &CartView{SessionID: sessionID, Items: []domain.Line{}, Degraded: true}, nil
	}

	return &CartView{
		SessionID: sessionID,
		Items:     cart.Lines(),
		ItemCount: cart.ItemCount(),
	}, nil
}

// ClearCart deletes the cart and reports whether anything was removed.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, missingSession()
	}

	removed, err := s.store.ClearCart(ctx, sessionID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return false, storageFailure("clear cart", err)
	}

	if err := s.events.PublishCartCleared(ctx, sessionID, removed); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
		slog.Bool("removed", removed),
	)
	return removed, nil
}

// Finalize snapshots the cart into the session's order record and clears the
// cart only after the record is written. A failed clear after a successful
// write is logged and left as is.
func (s *CartService) Finalize(ctx context.Context, sessionID string) (*FinalizeResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, missingSession()
	}

	cart, err := s.store.ReadCart(ctx, sessionID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read cart for checkout",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil, storageFailure("read cart", err)
	}
	if cart.IsEmpty() {
		return nil, emptyCart()
	}

	record := domain.NewOrderRecord(cart.Clone(), s.now())
	if err := s.store.CreateOrderRecord(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to write order record",
			slog.String("session_id", sessionID),
			slog.String("order_id", record.OrderID),
			slog.String("error", err.Error()),
		)
		return nil, storageFailure("create order record", err)
	}

	removed, err := s.store.ClearCart(ctx, sessionID)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "order record written but cart not cleared",
			slog.String("session_id", sessionID),
			slog.String("order_id", record.OrderID),
			slog.String("error", err.Error()),
		)
	case !removed:
		s.logger.WarnContext(ctx, "order record written but cart was already gone",
			slog.String("session_id", sessionID),
			slog.String("order_id", record.OrderID),
		)
	}

	if err := s.events.PublishCartFinalized(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.finalized event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart finalized",
		slog.String("session_id", sessionID),
		slog.String("order_id", record.OrderID),
		slog.Int("item_count", record.ItemCount()),
	)

	return &FinalizeResult{
		OrderID:     record.OrderID,
		ItemCount:   record.ItemCount(),
		RedirectURL: s.redirectURL,
		CreatedAt:   record.CreatedAt,
		Items:       record.Lines(),
	}, nil
}

// GetOrderRecord returns the session's current order record.
func (s *CartService) GetOrderRecord(ctx context.Context, sessionID string) (*domain.OrderRecord, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, missingSession()
	}

	record, err := s.store.GetOrderRecord(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, storageFailure("get order record", err)
	}
	return record, nil
}
