package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
	"github.com/khamseaffan/PartSelectAI/internal/repository"
	apperrors "github.com/khamseaffan/PartSelectAI/pkg/errors"
)

// Fields of the order:<id> hash.
const (
	fieldOrderID   = "order_id"
	fieldStatus    = "status"
	fieldItems     = "items"
	fieldCreatedAt = "created_at"
)

// CreateOrderRecord replaces order:<id> with the record. The old hash is
// deleted first so no field of an earlier record survives.
func (s *Store) CreateOrderRecord(ctx context.Context, record *domain.OrderRecord) error {
	if record.OrderID == "" {
		record.OrderID = domain.NewOrderID()
	}
	if record.Status == "" {
		record.Status = domain.DefaultOrderStatus
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	if record.Items == nil {
		record.Items = map[string]domain.Item{}
	}

	items, err := json.Marshal(record.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	key := OrderKey(record.SessionID)
	return s.exec(ctx, "CreateOrderRecord", key, func(ctx context.Context) error {
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key,
				fieldOrderID, record.OrderID,
				fieldStatus, record.Status,
				fieldItems, items,
				fieldCreatedAt, record.CreatedAt.Format(time.RFC3339Nano),
			)
			pipe.Expire(ctx, key, s.ttl.Order)
			return nil
		})
		return err
	})
}

// GetOrderRecord reads order:<id>.
func (s *Store) GetOrderRecord(ctx context.Context, sessionID string) (*domain.OrderRecord, error) {
	key := OrderKey(sessionID)

	var raw map[string]string
	err := s.exec(ctx, "GetOrderRecord", key, func(ctx context.Context) error {
		var err error
		raw, err = s.client.HGetAll(ctx, key).Result()
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, apperrors.NotFound("order record", sessionID)
	}

	record := &domain.OrderRecord{
		SessionID: sessionID,
		OrderID:   raw[fieldOrderID],
		Status:    raw[fieldStatus],
		Items:     map[string]domain.Item{},
	}
	if v := raw[fieldItems]; v != "" {
		if err := json.Unmarshal([]byte(v), &record.Items); err != nil {
			return nil, fmt.Errorf("GetOrderRecord %s: decode items: %w: %w", key, repository.ErrBackend, err)
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw[fieldCreatedAt]); err == nil {
		record.CreatedAt = ts
	}
	return record, nil
}
