package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// --- Event tests ---

var testCart = Aggregate{ID: "sess-1", Type: "cart"}

func TestNewEvent_Fields(t *testing.T) {
	type finalized struct {
		OrderID   string `json:"order_id"`
		ItemCount int    `json:"item_count"`
	}

	data := finalized{OrderID: "REC-1A2B3C", ItemCount: 2}
	event, err := NewEvent("cart.finalized", testCart, "cart-assistant", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "cart.finalized", event.EventType)
	assert.Equal(t, "sess-1", event.AggregateID)
	assert.Equal(t, "cart", event.AggregateType)
	assert.Equal(t, "cart-assistant", event.Source)
	assert.Equal(t, SchemaVersion, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var decoded finalized
	require.NoError(t, event.Decode(&decoded))
	assert.Equal(t, data, decoded)
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := NewEvent("cart.item_added", testCart, "cart-assistant", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode cart.item_added payload")
}

func TestEvent_Message(t *testing.T) {
	event, err := NewEvent("cart.cleared", Aggregate{ID: "sess-9", Type: "cart"}, "cart-assistant", map[string]bool{"removed": true})
	require.NoError(t, err)
	event.CorrelationID = "corr-abc"

	msg, err := event.message("partselect.cart.cleared")
	require.NoError(t, err)

	assert.Equal(t, "partselect.cart.cleared", msg.Topic)
	assert.Equal(t, []byte("sess-9"), msg.Key)
	carrier := HeaderCarrier{Headers: &msg.Headers}
	assert.Equal(t, "cart.cleared", carrier.Get(HeaderEventType))
	assert.Equal(t, "cart-assistant", carrier.Get(HeaderSource))
	assert.Equal(t, "corr-abc", carrier.Get(HeaderCorrelationID))

	restored, err := ParseEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, restored.EventID)
	assert.Equal(t, "corr-abc", restored.CorrelationID)

	var payload map[string]bool
	require.NoError(t, restored.Decode(&payload))
	assert.True(t, payload["removed"])
}

func TestEvent_MessageWithoutCorrelationID(t *testing.T) {
	event, err := NewEvent("cart.cleared", testCart, "cart-assistant", nil)
	require.NoError(t, err)

	msg, err := event.message("t")
	require.NoError(t, err)
	assert.Len(t, msg.Headers, 2)
}

func TestEvent_Decode_Invalid(t *testing.T) {
	event := &Event{Data: json.RawMessage(`{not json`)}
	var target map[string]any
	assert.Error(t, event.Decode(&target))
}

func TestParseEvent_Invalid(t *testing.T) {
	_, err := ParseEvent([]byte("nope"))
	assert.ErrorContains(t, err, "decode event")

	_, err = ParseEvent([]byte(`{"event_id":"x"}`))
	assert.ErrorContains(t, err, "missing event_type")
}

// --- Topic ---

func TestTopic(t *testing.T) {
	tests := []struct {
		domain, action, want string
	}{
		{"cart", "item_added", "partselect.cart.item_added"},
		{"cart", "cleared", "partselect.cart.cleared"},
		{"cart", "finalized", "partselect.cart.finalized"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Topic(tt.domain, tt.action))
		})
	}
}

// --- HeaderCarrier ---

func TestHeaderCarrier_SetGetKeys(t *testing.T) {
	headers := []kafka.Header{{Key: "event_type", Value: []byte("cart.cleared")}}
	c := HeaderCarrier{Headers: &headers}

	c.Set("traceparent", "00-abc-def-01")
	c.Set("event_type", "cart.finalized")

	assert.Equal(t, "00-abc-def-01", c.Get("traceparent"))
	assert.Equal(t, "cart.finalized", c.Get("event_type"))
	assert.Equal(t, "", c.Get("missing"))
	assert.ElementsMatch(t, []string{"event_type", "traceparent"}, c.Keys())
	assert.Len(t, headers, 2)
}

func TestHeaderCarrier_InjectsTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	var headers []kafka.Header
	propagation.TraceContext{}.Inject(ctx, HeaderCarrier{Headers: &headers})

	c := HeaderCarrier{Headers: &headers}
	assert.Contains(t, c.Get("traceparent"), span.SpanContext().TraceID().String())
}

// --- Producer ---

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig([]string{"b1:9092", "b2:9092"})
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Brokers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10*time.Millisecond, cfg.BatchTimeout)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.False(t, cfg.Async)
}

func TestNewProducer_CloseWithoutBroker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewProducer(DefaultProducerConfig([]string{"localhost:19092"}), logger)
	require.NotNil(t, p)
	assert.Equal(t, []string{"localhost:19092"}, p.brokers)
	assert.NoError(t, p.Close())
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(t.Context(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers configured")
}

func TestPingBrokers_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()

	err := PingBrokers(ctx, []string{"127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all brokers unreachable")
}

func TestPublish_UnreachableBrokerCountsWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := DefaultProducerConfig([]string{"127.0.0.1:1"})
	cfg.MaxAttempts = 1
	p := NewProducer(cfg, logger)
	t.Cleanup(func() { _ = p.Close() })

	event, err := NewEvent("cart.cleared", testCart, "cart-assistant", map[string]bool{"removed": true})
	require.NoError(t, err)

	topic := "test.publish.unreachable"
	before := testutil.ToFloat64(eventsPublished.WithLabelValues(topic, outcomeWriteError))

	ctx, cancel := context.WithTimeout(t.Context(), 300*time.Millisecond)
	defer cancel()
	err = p.Publish(ctx, topic, event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish event to "+topic)
	assert.Equal(t, before+1, testutil.ToFloat64(eventsPublished.WithLabelValues(topic, outcomeWriteError)))
	assert.Zero(t, testutil.ToFloat64(eventsPublished.WithLabelValues(topic, outcomeOK)))
}
