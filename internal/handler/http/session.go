package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
	"github.com/khamseaffan/PartSelectAI/pkg/httputil"
	"github.com/khamseaffan/PartSelectAI/pkg/validator"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
	"github.com/khamseaffan/PartSelectAI/internal/service"
)

// SessionHandler handles HTTP requests for session endpoints.
type SessionHandler struct {
	service *service.SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(svc *service.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{service: svc, logger: logger}
}

// --- Request/response DTOs ---

// StartSessionRequest is the optional JSON body of POST /api/v1/sessions.
type StartSessionRequest struct {
	SessionID string `json:"session_id" validate:"max=128"`
}

// TouchSessionRequest is the JSON body of PUT /api/v1/sessions/{sessionID}.
type TouchSessionRequest struct {
	Metadata map[string]string `json:"metadata" validate:"max=32,dive,keys,min=1,max=64,endkeys,max=1024"`
}

// SessionStateResponse reports the session id and whether it was stored.
type SessionStateResponse struct {
	SessionID string `json:"session_id"`
	Persisted bool   `json:"persisted"`
}

// --- Handlers ---

// Start handles POST /api/v1/sessions. An absent or malformed session id is
// replaced with a fresh one.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeDecodeError(w, r, err, h.logger)
		return
	}

	id, persisted := h.service.Start(r.Context(), req.SessionID)
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: SessionStateResponse{SessionID: id, Persisted: persisted},
	})
}

// Get handles GET /api/v1/sessions/{sessionID}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), sessionFromURL(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess})
}

// Touch handles PUT /api/v1/sessions/{sessionID}.
func (h *SessionHandler) Touch(w http.ResponseWriter, r *http.Request) {
	id := sessionFromURL(r)
	if id == "" {
		httputil.WriteError(w, r, missingSessionError(), h.logger)
		return
	}

	var req TouchSessionRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeDecodeError(w, r, err, h.logger)
		return
	}
	delete(req.Metadata, domain.FieldLastActive)

	if !h.service.Touch(r.Context(), id, req.Metadata) {
		httputil.WriteError(w, r, apperrors.Unavailable("session could not be saved", nil), h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: SessionStateResponse{SessionID: id, Persisted: true},
	})
}

// writeDecodeError reports a body that failed to decode or validate.
func writeDecodeError(w http.ResponseWriter, r *http.Request, err error, l *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteValidationError(w, err)
		return
	}
	httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), l)
}
