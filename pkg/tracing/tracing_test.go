package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), DefaultConfig("cart-assistant"))
	if err != nil {
		t.Fatalf("InitTracer(disabled) returned error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown(disabled) returned error: %v", err)
	}

	fields := otel.GetTextMapPropagator().Fields()
	found := false
	for _, f := range fields {
		if f == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Errorf("propagator fields %v missing traceparent", fields)
	}
}

func TestInitTracer_Enabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := DefaultConfig("cart-assistant")
	cfg.Enabled = true
	cfg.Environment = "test"
	cfg.OTLPEndpoint = "127.0.0.1:0"

	shutdown, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitTracer(enabled) returned error: %v", err)
	}

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Errorf("expected *sdktrace.TracerProvider, got %T", otel.GetTracerProvider())
	}

	if err := shutdown(context.Background()); err != nil {
		t.Logf("shutdown with unreachable endpoint: %v", err)
	}
}

func TestInitTracer_RejectsBadSampleRate(t *testing.T) {
	cfg := DefaultConfig("cart-assistant")
	cfg.Enabled = true
	cfg.SampleRate = 1.5

	if _, err := InitTracer(context.Background(), cfg); err == nil {
		t.Fatal("expected error for sample rate above 1")
	}
}

func TestSampler(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	params := sdktrace.SamplingParameters{
		ParentContext: context.Background(),
		TraceID:       traceID,
		Name:          "root",
	}

	if got := Sampler(1).ShouldSample(params).Decision; got != sdktrace.RecordAndSample {
		t.Errorf("rate 1 decision = %v, want RecordAndSample", got)
	}
	if got := Sampler(0).ShouldSample(params).Decision; got != sdktrace.Drop {
		t.Errorf("rate 0 decision = %v, want Drop", got)
	}

	sampledParent := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     trace.SpanID{1},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))
	params.ParentContext = sampledParent
	if got := Sampler(0).ShouldSample(params).Decision; got != sdktrace.RecordAndSample {
		t.Errorf("sampled parent should win over rate 0, got %v", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("cart-assistant")
	if cfg.ServiceName != "cart-assistant" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.Enabled {
		t.Error("tracing should be disabled by default")
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("SampleRate = %v, want 1.0", cfg.SampleRate)
	}
}
