package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
)

func sampleCart() *Cart {
	c := NewCart("s1")
	c.Items["PS200"] = Item{Quantity: 1, Name: "Drain Pump"}
	c.Items["PS100"] = Item{Quantity: 2, Name: "Water Filter"}
	return c
}

// ============================================================================
// Cart
// ============================================================================

func TestCart_ItemCountSumsQuantities(t *testing.T) {
	c := sampleCart()
	assert.Equal(t, 3, c.ItemCount())
	assert.Equal(t, 2, c.Len())
	assert.False(t, c.IsEmpty())
}

func TestCart_Empty(t *testing.T) {
	assert.True(t, NewCart("s1").IsEmpty())
	assert.Equal(t, 0, NewCart("s1").ItemCount())

	var nilCart *Cart
	assert.True(t, nilCart.IsEmpty())
}

func TestCart_LinesSortedByPartNumber(t *testing.T) {
	lines := sampleCart().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, Line{PartNumber: "PS100", Quantity: 2, Name: "Water Filter"}, lines[0])
	assert.Equal(t, "PS200", lines[1].PartNumber)
}

func TestCart_CloneIsIndependent(t *testing.T) {
	c := sampleCart()
	clone := c.Clone()

	c.Items["PS100"] = Item{Quantity: 9, Name: "changed"}
	delete(c.Items, "PS200")

	assert.Equal(t, 2, clone.Items["PS100"].Quantity)
	assert.Contains(t, clone.Items, "PS200")
	assert.Equal(t, "s1", clone.SessionID)
}

func TestCorruptItem(t *testing.T) {
	assert.Equal(t, Item{Quantity: 0, Name: "[Error Reading Data]"}, CorruptItem())
}

// ============================================================================
// OrderRecord
// ============================================================================

func TestNewOrderID_Format(t *testing.T) {
	id := NewOrderID()
	assert.Regexp(t, `^REC-[0-9A-F]{6}$`, id)
}

func TestNewOrderID_Distinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[NewOrderID()] = struct{}{}
	}
	// Six hex characters leave room for the odd collision; fifty draws
	// colliding more than once would point at a broken generator.
	assert.GreaterOrEqual(t, len(seen), 49)
}

func TestNewOrderRecord_Snapshot(t *testing.T) {
	c := sampleCart()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("EST", -5*3600))

	rec := NewOrderRecord(c, now)

	assert.Equal(t, "s1", rec.SessionID)
	assert.Equal(t, DefaultOrderStatus, rec.Status)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.True(t, rec.CreatedAt.Equal(now))
	assert.Equal(t, 3, rec.ItemCount())
	assert.Len(t, rec.Lines(), 2)

	c.Items["PS100"] = Item{Quantity: 50, Name: "mutated"}
	assert.Equal(t, 2, rec.Items["PS100"].Quantity)
}

// ============================================================================
// Errors
// ============================================================================

func TestSentinels_WrapAppErrorKinds(t *testing.T) {
	for _, err := range []error{ErrMissingSession, ErrInvalidPartFormat, ErrInvalidQuantity, ErrMissingName} {
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), err.Error())
	}
	assert.ErrorIs(t, ErrEmptyCart, apperrors.ErrUnprocessable)
	assert.ErrorIs(t, ErrStorageFailure, apperrors.ErrServiceUnavail)
}
