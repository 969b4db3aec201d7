package database

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      50 * time.Millisecond,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
}

func TestBreaker_ClosedState_Success(t *testing.T) {
	b := NewBreaker(testBreakerConfig("test-closed"), testLogger())

	calls := 0
	err := b.Do(func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.Equal(t, "test-closed", b.Name())
}

func TestBreaker_PassesThroughError(t *testing.T) {
	b := NewBreaker(testBreakerConfig("test-passthrough"), testLogger())
	boom := errors.New("boom")

	err := b.Do(func() error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_TripsOnFailures(t *testing.T) {
	b := NewBreaker(testBreakerConfig("test-trip"), testLogger())
	boom := errors.New("connection refused")

	for i := 0; i < 3; i++ {
		_ = b.Do(func() error { return boom })
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	calls := 0
	err := b.Do(func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 0, calls, "open breaker must not run the call")
}

func TestBreaker_HalfOpenRecovers(t *testing.T) {
	b := NewBreaker(testBreakerConfig("test-recover"), testLogger())

	for i := 0; i < 3; i++ {
		_ = b.Do(func() error { return errors.New("down") })
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, b.State())

	require.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_IsSuccessfulIgnoresErrors(t *testing.T) {
	notFound := errors.New("not found")
	cfg := testBreakerConfig("test-ignore")
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, notFound)
	}
	b := NewBreaker(cfg, testLogger())

	for i := 0; i < 10; i++ {
		err := b.Do(func() error { return notFound })
		assert.ErrorIs(t, err, notFound)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestDefaultBreakerConfig(t *testing.T) {
	cfg := DefaultBreakerConfig("redis")
	assert.Equal(t, "redis", cfg.Name)
	assert.Equal(t, uint32(1), cfg.MaxRequests)
	assert.Equal(t, 0.5, cfg.FailureRatio)
	assert.Equal(t, uint32(5), cfg.MinRequests)
	assert.Nil(t, cfg.IsSuccessful)
}

func TestStateToFloat(t *testing.T) {
	assert.Equal(t, 0.0, stateToFloat(gobreaker.StateClosed))
	assert.Equal(t, 1.0, stateToFloat(gobreaker.StateHalfOpen))
	assert.Equal(t, 2.0, stateToFloat(gobreaker.StateOpen))
}
