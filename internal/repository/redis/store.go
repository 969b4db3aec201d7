package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/khamseaffan/PartSelectAI/internal/repository"
	"github.com/khamseaffan/PartSelectAI/pkg/database"
)

// Key prefixes of the persisted layout.
const (
	sessionPrefix = "session:"
	cartPrefix    = "cart:"
	orderPrefix   = "order:"
)

// SessionKey returns the Redis key of a session record.
func SessionKey(sessionID string) string { return sessionPrefix + sessionID }

// CartKey returns the Redis key of a session's cart hash.
func CartKey(sessionID string) string { return cartPrefix + sessionID }

// OrderKey returns the Redis key of a session's order record.
func OrderKey(sessionID string) string { return orderPrefix + sessionID }

var storeOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "session_store_operations_total",
		Help: "Session store operations by outcome (ok, unavailable, error)",
	},
	[]string{"operation", "outcome"},
)

// TTLs holds the expiry window of each record kind.
type TTLs struct {
	Session time.Duration
	Cart    time.Duration
	Order   time.Duration
}

// DefaultTTLs keeps sessions and carts for a week and order records for two.
func DefaultTTLs() TTLs {
	return TTLs{
		Session: 7 * 24 * time.Hour,
		Cart:    7 * 24 * time.Hour,
		Order:   14 * 24 * time.Hour,
	}
}

// Store implements repository.SessionStore on Redis hashes.
//
// A nil client is allowed: the process keeps serving when Redis was down at
// startup and every call reports repository.ErrUnavailable.
type Store struct {
	client  *redis.Client
	breaker *database.Breaker
	ttl     TTLs
	logger  *slog.Logger
	now     func() time.Time
}

var _ repository.SessionStore = (*Store)(nil)

// NewStore creates a Redis-backed session store. breaker may be nil.
func NewStore(client *redis.Client, breaker *database.Breaker, ttl TTLs, logger *slog.Logger) *Store {
	return &Store{
		client:  client,
		breaker: breaker,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// BreakerSuccess tells the circuit breaker which outcomes must not count as
// backend failures.
func BreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, redis.Nil) ||
		errors.Is(err, context.Canceled)
}

// Ping checks that Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.exec(ctx, "Ping", "", func(ctx context.Context) error {
		return s.client.Ping(ctx).Err()
	})
}

// exec runs one store operation with tracing, the circuit breaker, error
// classification and outcome accounting.
func (s *Store) exec(ctx context.Context, op, key string, fn func(ctx context.Context) error) error {
	if s.client == nil {
		storeOperations.WithLabelValues(op, "unavailable").Inc()
		return fmt.Errorf("%s %s: %w", op, key, repository.ErrUnavailable)
	}

	ctx, end := database.TraceCommand(ctx, op, key)
	var err error
	if s.breaker != nil {
		err = s.breaker.Do(func() error { return fn(ctx) })
	} else {
		err = fn(ctx)
	}
	end(err)

	if err == nil {
		storeOperations.WithLabelValues(op, "ok").Inc()
		return nil
	}

	kind, outcome := repository.ErrBackend, "error"
	if isUnavailable(err) {
		kind, outcome = repository.ErrUnavailable, "unavailable"
	}
	storeOperations.WithLabelValues(op, outcome).Inc()

	s.logger.WarnContext(ctx, "session store operation failed",
		slog.String("operation", op),
		slog.String("key", key),
		slog.String("outcome", outcome),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%s %s: %w: %w", op, key, kind, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, database.ErrCircuitOpen) ||
		errors.Is(err, database.ErrTooManyRequests) ||
		errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
