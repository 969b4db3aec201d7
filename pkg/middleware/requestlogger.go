package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/khamseaffan/PartSelectAI/pkg/logger"
)

// SessionHeader identifies the chat session a request belongs to.
const SessionHeader = "X-Session-ID"

// RequestLogger returns middleware that builds a request-scoped logger enriched
// with correlation_id, session_id, trace_id, and span_id, then stores it in
// context via logger.NewContext.
//
// Mount it after RequestLogging and Tracing so both IDs are already present.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if sessionID := strings.TrimSpace(r.Header.Get(SessionHeader)); sessionID != "" {
				ctx = logger.WithSessionID(ctx, sessionID)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
