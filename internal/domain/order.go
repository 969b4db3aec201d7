package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// OrderIDPrefix starts every order record identifier.
	OrderIDPrefix = "REC-"

	// DefaultOrderStatus is recorded when the cart is handed off to the
	// external storefront.
	DefaultOrderStatus = "Cart Finalized - User Redirected"
)

// OrderRecord is the receipt written when a cart is finalized. Each session
// has a single slot; a later finalize replaces it.
type OrderRecord struct {
	SessionID string          `json:"session_id"`
	OrderID   string          `json:"order_id"`
	Status    string          `json:"status"`
	Items     map[string]Item `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewOrderID returns "REC-" followed by six upper-case hex characters drawn
// from a random UUID.
func NewOrderID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return OrderIDPrefix + strings.ToUpper(hex[:6])
}

// NewOrderRecord snapshots the cart into a record stamped with now.
func NewOrderRecord(cart *Cart, now time.Time) *OrderRecord {
	return &OrderRecord{
		SessionID: cart.SessionID,
		OrderID:   NewOrderID(),
		Status:    DefaultOrderStatus,
		Items:     cloneItems(cart.Items),
		CreatedAt: now.UTC(),
	}
}

// ItemCount returns the sum of quantities in the snapshot.
func (o *OrderRecord) ItemCount() int {
	return countItems(o.Items)
}

// Lines returns the snapshot entries sorted by part number.
func (o *OrderRecord) Lines() []Line {
	return linesOf(o.Items)
}
