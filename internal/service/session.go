package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
	"github.com/khamseaffan/PartSelectAI/internal/repository"
)

// SessionService manages chat session metadata. Touches are best effort.
type SessionService struct {
	store  repository.SessionStore
	logger *slog.Logger
	now    func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(store repository.SessionStore, logger *slog.Logger) *SessionService {
	return &SessionService{store: store, logger: logger, now: time.Now}
}

// Resolve keeps a well-formed UUID session id and replaces anything else with
// a fresh UUIDv4. generated reports whether a new id was issued.
func (s *SessionService) Resolve(sessionID string) (id string, generated bool) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID != "" {
		if _, err := uuid.Parse(sessionID); err == nil {
			return sessionID, false
		}
	}
	return uuid.NewString(), true
}

// Touch refreshes the session record. A store failure is logged and reported
// as false; the caller carries on without session persistence.
func (s *SessionService) Touch(ctx context.Context, sessionID string, updates map[string]string) bool {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false
	}
	if err := s.store.TouchSession(ctx, sessionID, updates); err != nil {
		s.logger.WarnContext(ctx, "session touch failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// Start resolves the session id. A session seen for the first time gets
// agent_initialized and created_at; a known one is only refreshed. persisted
// is false when the store could not be written.
func (s *SessionService) Start(ctx context.Context, sessionID string) (id string, persisted bool) {
	id, generated := s.Resolve(sessionID)

	var updates map[string]string
	if generated || !s.exists(ctx, id) {
		updates = map[string]string{
			domain.FieldAgentInitialized: strconv.FormatBool(true),
			domain.FieldCreatedAt:        s.now().UTC().Format(time.RFC3339),
		}
	}
	persisted = s.Touch(ctx, id, updates)

	s.logger.InfoContext(ctx, "session started",
		slog.String("session_id", id),
		slog.Bool("generated", generated),
		slog.Bool("persisted", persisted),
	)
	return id, persisted
}

// Get returns the stored session metadata.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, missingSession()
	}
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionService) exists(ctx context.Context, sessionID string) bool {
	_, err := s.store.GetSession(ctx, sessionID)
	return err == nil
}
