package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
)

// TouchSession merges updates and last_active into session:<id> and resets
// its expiry in a single MULTI/EXEC.
func (s *Store) TouchSession(ctx context.Context, sessionID string, updates map[string]string) error {
	key := SessionKey(sessionID)

	fields := make([]any, 0, 2*len(updates)+2)
	for k, v := range updates {
		if k == domain.FieldLastActive {
			continue
		}
		fields = append(fields, k, v)
	}
	fields = append(fields, domain.FieldLastActive, s.now().UTC().Format(time.RFC3339))

	return s.exec(ctx, "TouchSession", key, func(ctx context.Context) error {
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields...)
			pipe.Expire(ctx, key, s.ttl.Session)
			return nil
		})
		return err
	})
}

// GetSession reads session:<id>.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	key := SessionKey(sessionID)

	var raw map[string]string
	err := s.exec(ctx, "GetSession", key, func(ctx context.Context) error {
		var err error
		raw, err = s.client.HGetAll(ctx, key).Result()
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, apperrors.NotFound("session", sessionID)
	}

	sess := &domain.Session{ID: sessionID, Metadata: make(map[string]string, len(raw))}
	for k, v := range raw {
		if k == domain.FieldLastActive {
			if ts, perr := time.Parse(time.RFC3339, v); perr == nil {
				sess.LastActive = ts
			}
			continue
		}
		sess.Metadata[k] = v
	}
	return sess, nil
}
