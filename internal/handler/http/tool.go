package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
	"github.com/khamseaffan/PartSelectAI/pkg/httputil"

	"github.com/khamseaffan/PartSelectAI/internal/tool"
)

// ToolHandler exposes the tool registry to the reasoning component.
type ToolHandler struct {
	registry *tool.Registry
	logger   *slog.Logger
}

// NewToolHandler creates a new tool HTTP handler.
func NewToolHandler(registry *tool.Registry, logger *slog.Logger) *ToolHandler {
	return &ToolHandler{registry: registry, logger: logger}
}

// List handles GET /api/v1/tools
func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.registry.List()})
}

// Invoke handles POST /api/v1/tools/{name}. The body is the raw argument
// object and the session comes from X-Session-ID. The result is plain text.
func (h *ToolHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	args, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, r, apperrors.InvalidInput("request body too large"), h.logger)
			return
		}
		httputil.WriteError(w, r, apperrors.InvalidInput("could not read request body"), h.logger)
		return
	}

	out, err := h.registry.Invoke(r.Context(), chi.URLParam(r, "name"), sessionFromHeader(r), args)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteText(w, http.StatusOK, out)
}
