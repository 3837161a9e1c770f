package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC))
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	}, clock)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	clock.Advance(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second half-open probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Second}, clock)

	b.RecordFailure()
	clock.Advance(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failed probe, got %s", state)
	}
}

func TestCircuitBreaker_DisabledAlwaysAllows(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1}, clockwork.NewFakeClock())
	b.RecordFailure()
	b.RecordFailure()
	if err := b.Allow(); err != nil {
		t.Fatalf("disabled breaker must allow, got %v", err)
	}
}
