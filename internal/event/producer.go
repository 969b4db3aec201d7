package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pkgkafka "github.com/khamseaffan/PartSelectAI/pkg/kafka"
	"github.com/khamseaffan/PartSelectAI/pkg/logger"

	"github.com/khamseaffan/PartSelectAI/internal/domain"
)

// Kafka topics for cart domain events.
var (
	TopicItemAdded     = pkgkafka.Topic("cart", "item_added")
	TopicCartCleared   = pkgkafka.Topic("cart", "cleared")
	TopicCartFinalized = pkgkafka.Topic("cart", "finalized")
)

// AggregateTypeCart is the aggregate type of every cart event.
const AggregateTypeCart = "cart"

// SourceCartService identifies events originating from this service.
const SourceCartService = "partselect-cart"

// ItemAddedData is the payload for a cart.item_added event.
type ItemAddedData struct {
	SessionID  string `json:"session_id"`
	PartNumber string `json:"part_number"`
	Quantity   int    `json:"quantity"`
	Name       string `json:"name"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
	Removed   bool   `json:"removed"`
}

// CartFinalizedData is the payload for a cart.finalized event.
type CartFinalizedData struct {
	SessionID string        `json:"session_id"`
	OrderID   string        `json:"order_id"`
	Status    string        `json:"status"`
	ItemCount int           `json:"item_count"`
	Items     []domain.Line `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
}

// Sender is the part of pkg/kafka.Producer the event producer needs.
type Sender interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes cart domain events to Kafka.
type Producer struct {
	sender Sender
	logger *slog.Logger
}

// NewProducer creates a new event producer for the cart service.
func NewProducer(sender Sender, logger *slog.Logger) *Producer {
	return &Producer{
		sender: sender,
		logger: logger,
	}
}

// PublishItemAdded publishes a cart.item_added event.
func (p *Producer) PublishItemAdded(ctx context.Context, sessionID, partNumber string, item domain.Item) error {
	data := ItemAddedData{
		SessionID:  sessionID,
		PartNumber: partNumber,
		Quantity:   item.Quantity,
		Name:       item.Name,
	}
	return p.publish(ctx, TopicItemAdded, sessionID, data)
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string, removed bool) error {
	return p.publish(ctx, TopicCartCleared, sessionID, CartClearedData{SessionID: sessionID, Removed: removed})
}

// PublishCartFinalized publishes a cart.finalized event carrying the order
// record snapshot.
func (p *Producer) PublishCartFinalized(ctx context.Context, record *domain.OrderRecord) error {
	data := CartFinalizedData{
		SessionID: record.SessionID,
		OrderID:   record.OrderID,
		Status:    record.Status,
		ItemCount: record.ItemCount(),
		Items:     record.Lines(),
		CreatedAt: record.CreatedAt,
	}
	return p.publish(ctx, TopicCartFinalized, record.SessionID, data)
}

func (p *Producer) publish(ctx context.Context, topic, sessionID string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, pkgkafka.Aggregate{ID: sessionID, Type: AggregateTypeCart}, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.CorrelationID = id
	}

	if err := p.sender.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published cart event",
		slog.String("topic", topic),
		slog.String("session_id", sessionID),
	)
	return nil
}

// Noop discards every event. It is used when Kafka is disabled.
type Noop struct{}

// PublishItemAdded does nothing.
func (Noop) PublishItemAdded(context.Context, string, string, domain.Item) error { return nil }

// PublishCartCleared does nothing.
func (Noop) PublishCartCleared(context.Context, string, bool) error { return nil }

// PublishCartFinalized does nothing.
func (Noop) PublishCartFinalized(context.Context, *domain.OrderRecord) error { return nil }
