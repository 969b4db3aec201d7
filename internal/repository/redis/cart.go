package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
)

// UpsertCartItem stores the item JSON under the part number field of
// cart:<id> and resets the cart expiry in a single MULTI/EXEC.
func (s *Store) UpsertCartItem(ctx context.Context, sessionID, partNumber string, item domain.Item) error {
	key := CartKey(sessionID)

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal cart item: %w", err)
	}

	return s.exec(ctx, "UpsertCartItem", key, func(ctx context.Context) error {
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, partNumber, data)
			pipe.Expire(ctx, key, s.ttl.Cart)
			return nil
		})
		return err
	})
}

// ReadCart loads cart:<id>. A missing key is an empty cart.
func (s *Store) ReadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	key := CartKey(sessionID)

	var raw map[string]string
	err := s.exec(ctx, "ReadCart", key, func(ctx context.Context) error {
		var err error
		raw, err = s.client.HGetAll(ctx, key).Result()
		return err
	})
	if err != nil {
		return nil, err
	}

	cart := domain.NewCart(sessionID)
	for pn, v := range raw {
		item, derr := decodeCartItem(v)
		if derr != nil {
			s.logger.WarnContext(ctx, "unreadable cart entry",
				slog.String("key", key),
				slog.String("part_number", pn),
				slog.String("error", derr.Error()),
			)
			item = domain.CorruptItem()
		}
		cart.Items[pn] = item
	}
	return cart, nil
}

// decodeCartItem parses a stored entry and enforces the same rules AddItem
// does on write: a positive quantity, which may have been stored as a numeric
// string, and a non-empty name.
func decodeCartItem(v string) (domain.Item, error) {
	var raw struct {
		Quantity any `json:"quantity"`
		Name     any `json:"name"`
	}
	dec := json.NewDecoder(strings.NewReader(v))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return domain.Item{}, err
	}
	qty, err := domain.ParseQuantity(raw.Quantity)
	if err != nil {
		return domain.Item{}, fmt.Errorf("quantity %v: %w", raw.Quantity, err)
	}
	name, _ := raw.Name.(string)
	if strings.TrimSpace(name) == "" {
		return domain.Item{}, fmt.Errorf("name %v: %w", raw.Name, domain.ErrMissingName)
	}
	return domain.Item{Quantity: qty, Name: name}, nil
}

// ClearCart deletes cart:<id>. Deleting an absent cart is not an error.
func (s *Store) ClearCart(ctx context.Context, sessionID string) (bool, error) {
	key := CartKey(sessionID)

	var deleted int64
	err := s.exec(ctx, "ClearCart", key, func(ctx context.Context) error {
		var err error
		deleted, err = s.client.Del(ctx, key).Result()
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}
