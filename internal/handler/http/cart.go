package http

import (
	"log/slog"
	"net/http"

	"github.com/khamseaffan/PartSelectAI/pkg/httputil"
	"github.com/khamseaffan/PartSelectAI/pkg/validator"

	"github.com/khamseaffan/PartSelectAI/internal/service"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
// Presence and format are checked by the service so every violation carries
// its own error code; the tags only bound sizes.
type AddItemRequest struct {
	PartNumber string `json:"part_number" validate:"max=32"`
	Quantity   any    `json:"quantity"`
	Name       string `json:"name" validate:"max=500"`
}

// ClearCartResponse reports whether a cart existed.
type ClearCartResponse struct {
	Removed bool `json:"removed"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/sessions/{sessionID}/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ViewCart(r.Context(), sessionFromURL(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// AddItem handles POST /api/v1/sessions/{sessionID}/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeDecodeError(w, r, err, h.logger)
		return
	}

	res, err := h.service.AddItem(r.Context(), service.AddItemInput{
		SessionID:  sessionFromURL(r),
		PartNumber: req.PartNumber,
		Quantity:   req.Quantity,
		Name:       req.Name,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: res})
}

// ClearCart handles DELETE /api/v1/sessions/{sessionID}/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.ClearCart(r.Context(), sessionFromURL(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ClearCartResponse{Removed: removed}})
}

// Checkout handles POST /api/v1/sessions/{sessionID}/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Finalize(r.Context(), sessionFromURL(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: res})
}

// GetOrder handles GET /api/v1/sessions/{sessionID}/order
func (h *CartHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetOrderRecord(r.Context(), sessionFromURL(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: rec})
}
