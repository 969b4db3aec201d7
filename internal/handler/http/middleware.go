package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
	"github.com/khamseaffan/PartSelectAI/pkg/httputil"
	"github.com/khamseaffan/PartSelectAI/pkg/logger"
	"github.com/khamseaffan/PartSelectAI/pkg/middleware"
)

// sessionParam is the chi route parameter naming the session.
const sessionParam = "sessionID"

// SessionFromURL adds the {sessionID} route parameter to the request-scoped
// logger so every log line of a session route carries it.
func SessionFromURL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, sessionParam))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := logger.WithSessionID(r.Context(), id)
		if logger.SessionIDFromContext(r.Context()) == "" {
			ctx = logger.NewContext(ctx, logger.FromContext(r.Context()).With(slog.String("session_id", id)))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFromURL returns the trimmed {sessionID} route parameter.
func sessionFromURL(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, sessionParam))
}

// sessionFromHeader returns the trimmed X-Session-ID header.
func sessionFromHeader(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(middleware.SessionHeader))
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// maxBodyBytes caps request bodies on the API routes.
const maxBodyBytes = 64 << 10

// LimitBody rejects bodies larger than maxBodyBytes while they are read.
func LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// missingSessionError is returned when a route needs a session id and the
// request carries none.
func missingSessionError() *apperrors.AppError {
	return apperrors.New(domain.CodeMissingSession, http.StatusBadRequest, domain.ErrMissingSession)
}
