package domain

import "sort"

// CorruptItemName replaces the name of a stored cart entry that could not be
// decoded.
const CorruptItemName = "[Error Reading Data]"

// Item is the value stored under a part number in a cart.
type Item struct {
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

// CorruptItem is reported in place of an undecodable stored entry.
func CorruptItem() Item {
	return Item{Quantity: 0, Name: CorruptItemName}
}

// Cart maps normalized part numbers to items for one session.
type Cart struct {
	SessionID string          `json:"session_id"`
	Items     map[string]Item `json:"items"`
}

// Line is one cart entry in display order.
type Line struct {
	PartNumber string `json:"part_number"`
	Quantity   int    `json:"quantity"`
	Name       string `json:"name"`
}

// NewCart returns an empty cart for the session.
func NewCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Items: make(map[string]Item)}
}

// ItemCount returns the sum of quantities across all entries.
func (c *Cart) ItemCount() int {
	return countItems(c.Items)
}

// Len returns the number of distinct part numbers.
func (c *Cart) Len() int {
	return len(c.Items)
}

// IsEmpty reports whether the cart holds no entries.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Lines returns the entries sorted by part number.
func (c *Cart) Lines() []Line {
	return linesOf(c.Items)
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	return &Cart{SessionID: c.SessionID, Items: cloneItems(c.Items)}
}

func countItems(items map[string]Item) int {
	var total int
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

func linesOf(items map[string]Item) []Line {
	lines := make([]Line, 0, len(items))
	for pn, it := range items {
		lines = append(lines, Line{PartNumber: pn, Quantity: it.Quantity, Name: it.Name})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].PartNumber < lines[j].PartNumber })
	return lines
}

func cloneItems(items map[string]Item) map[string]Item {
	out := make(map[string]Item, len(items))
	for pn, it := range items {
		out[pn] = it
	}
	return out
}
