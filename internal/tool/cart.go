package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
	"github.com/khamseaffan/PartSelectAI/internal/service"
	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
)

// Tool names as the reasoning component knows them.
const (
	NameAddToCart    = "AddToCart"
	NameViewCart     = "ViewCart"
	NameClearCart    = "ClearCart"
	NameCheckout     = "Checkout"
	NameReturnPolicy = "ReturnPolicy"
	NameHelpLinks    = "HelpLinks"
)

// CartActions is the part of service.CartService the cart tools call.
type CartActions interface {
	AddItem(ctx context.Context, input service.AddItemInput) (*service.AddItemResult, error)
	ViewCart(ctx context.Context, sessionID string) (*service.CartView, error)
	ClearCart(ctx context.Context, sessionID string) (bool, error)
	Finalize(ctx context.Context, sessionID string) (*service.FinalizeResult, error)
}

// CartTools returns the cart tools backed by svc.
func CartTools(svc CartActions) []Tool {
	return []Tool{
		{
			Name:        NameAddToCart,
			Description: "Adds a specific part to the shopping cart. Requires MANDATORY arguments in a dictionary: 'part_number' (the PS number string), 'quantity' (an integer), and 'name' (the part name string).",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"part_number": map[string]any{"type": "string", "description": "PartSelect number, e.g. PS123456"},
					"quantity":    map[string]any{"type": "integer", "minimum": 1},
					"name":        map[string]any{"type": "string"},
				},
				"required": []string{"part_number", "quantity", "name"},
			},
			Call: addToCart(svc),
		},
		{
			Name:        NameViewCart,
			Description: "Displays the contents (part number, quantity, name if known) of the current shopping cart for this session. Does not show prices or totals.",
			Call:        viewCart(svc),
		},
		{
			Name:        NameClearCart,
			Description: "Removes every item from the current shopping cart for this session.",
			Call:        clearCart(svc),
		},
		{
			Name:        NameCheckout,
			Description: "Prepares a record of the current cart items and quantities, then directs the user to the PartSelect.com homepage to place the actual order and make payment.",
			Call:        checkout(svc),
		},
	}
}

func addToCart(svc CartActions) Func {
	return func(ctx context.Context, sessionID string, raw json.RawMessage) string {
		if strings.TrimSpace(sessionID) == "" {
			return "❌ Tool Error: Session ID missing."
		}

		args, err := decodeArgs(raw)
		switch {
		case errors.Is(err, errWrapperJSON):
			return "❌ Tool Error: Invalid JSON in __arg1."
		case err != nil:
			return "❌ Tool Error: Expected dictionary input."
		}

		for _, key := range []string{"part_number", "quantity", "name"} {
			if _, ok := args[key]; !ok {
				return fmt.Sprintf("❌ Tool Input Error: '%s' missing.", key)
			}
		}
		partNumber, ok := args["part_number"].(string)
		if !ok {
			return "❌ Tool Input Error: 'part_number' must be string."
		}
		name, ok := args["name"].(string)
		if !ok {
			return "❌ Tool Input Error: 'name' must be string."
		}

		res, err := svc.AddItem(ctx, service.AddItemInput{
			SessionID:  sessionID,
			PartNumber: partNumber,
			Quantity:   args["quantity"],
			Name:       name,
		})
		if err != nil {
			return renderAddError(err, domain.NormalizePartNumber(partNumber))
		}
		return fmt.Sprintf("✅ Added/Updated %dx **%s**%s to your cart.", res.Quantity, res.PartNumber, nameSuffix(res.Name))
	}
}

func renderAddError(err error, pn string) string {
	switch {
	case errors.Is(err, domain.ErrMissingSession):
		return "❌ Tool Error: Session ID missing."
	case errors.Is(err, domain.ErrInvalidPartFormat):
		return "❌ Invalid Format: 'part_number' needs PS format (e.g., PS123456)."
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "❌ Tool Input Error: 'quantity' must be a positive whole number."
	case errors.Is(err, domain.ErrMissingName):
		return "❌ Tool Input Error: 'name' must not be empty."
	case errors.Is(err, apperrors.ErrServiceUnavail):
		return fmt.Sprintf("⚠️ Could not add/update %s. Storage operation failed.", pn)
	default:
		return "❌ Error storing item in cart."
	}
}

func viewCart(svc CartActions) Func {
	return func(ctx context.Context, sessionID string, _ json.RawMessage) string {
		view, err := svc.ViewCart(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrMissingSession) {
				return "❌ Tool Error: Session ID is missing."
			}
			return "❌ Error retrieving cart contents."
		}
		if view.Degraded {
			return "⚠️ Your cart could not be loaded right now. Storage is temporarily unavailable."
		}
		if view.IsEmpty() {
			return "🛒 Your cart is currently empty."
		}

		var b strings.Builder
		b.WriteString("📦 Cart Contents:\n")
		for _, l := range view.Items {
			fmt.Fprintf(&b, "- %dx **%s**%s\n", l.Quantity, l.PartNumber, nameSuffix(l.Name))
		}
		b.WriteString("(Note: Prices/totals not shown.)")
		return b.String()
	}
}

func clearCart(svc CartActions) Func {
	return func(ctx context.Context, sessionID string, _ json.RawMessage) string {
		removed, err := svc.ClearCart(ctx, sessionID)
		switch {
		case errors.Is(err, domain.ErrMissingSession):
			return "❌ Tool Error: Session ID is missing."
		case errors.Is(err, apperrors.ErrServiceUnavail):
			return "⚠️ Could not clear your cart. Storage operation failed."
		case err != nil:
			return "❌ Error clearing cart."
		case removed:
			return "🗑️ Your cart has been cleared."
		default:
			return "🛒 Your cart was already empty."
		}
	}
}

func checkout(svc CartActions) Func {
	return func(ctx context.Context, sessionID string, _ json.RawMessage) string {
		res, err := svc.Finalize(ctx, sessionID)
		switch {
		case errors.Is(err, domain.ErrMissingSession):
			return "❌ Tool Error: Session ID is missing."
		case errors.Is(err, domain.ErrEmptyCart):
			return "🛒 Your cart is empty. Please add items before checking out."
		case errors.Is(err, apperrors.ErrServiceUnavail):
			return "⚠️ There was an issue finalizing the cart record. Please try again."
		case err != nil:
			return "❌ An unexpected error occurred during checkout preparation."
		}

		unit := "items"
		if res.ItemCount == 1 {
			unit = "item"
		}
		return fmt.Sprintf("✅ Okay, your cart containing %d %s is ready for purchase.\n"+
			"To complete your order securely, please go to the official PartSelect website, add the item(s) to your cart *there*, and proceed through their checkout process:\n"+
			"<a href='%s' target='_blank'>Go to PartSelect.com</a>\n"+
			"(A record of this session's cart (ID: %s) has been noted.)",
			res.ItemCount, unit, res.RedirectURL, res.OrderID)
	}
}

func nameSuffix(name string) string {
	if name == "" {
		return ""
	}
	return " (" + name + ")"
}
