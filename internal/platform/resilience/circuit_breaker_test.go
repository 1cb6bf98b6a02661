package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	t.Parallel()

	breaker := NewCircuitBreaker(3, time.Minute, 1)

	for i := 0; i < 3; i++ {
		if err := breaker.Allow(); err != nil {
			t.Fatalf("call %d unexpectedly rejected: %v", i, err)
		}
		breaker.RecordFailure()
	}

	if got := breaker.State(); got != CircuitStateOpen {
		t.Fatalf("state = %v, want open", got)
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("got %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreaker_SuccessResetsFailureRun(t *testing.T) {
	t.Parallel()

	breaker := NewCircuitBreaker(2, time.Minute, 1)

	breaker.RecordFailure()
	breaker.RecordSuccess()
	breaker.RecordFailure()

	if got := breaker.State(); got != CircuitStateClosed {
		t.Fatalf("state = %v, want closed", got)
	}
}

func TestCircuitBreaker_HalfOpenProbeClosesOnSuccess(t *testing.T) {
	t.Parallel()

	breaker := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	current := time.Unix(100, 0)
	breaker.now = func() time.Time { return current }

	breaker.RecordFailure()
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected rejection while open, got %v", err)
	}

	current = current.Add(11 * time.Millisecond)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("probe unexpectedly rejected: %v", err)
	}
	breaker.RecordSuccess()

	if got := breaker.State(); got != CircuitStateClosed {
		t.Fatalf("state = %v, want closed after successful probe", got)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	breaker := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	current := time.Unix(100, 0)
	breaker.now = func() time.Time { return current }

	breaker.RecordFailure()
	current = current.Add(11 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("probe unexpectedly rejected: %v", err)
	}
	breaker.RecordFailure()

	if got := breaker.State(); got != CircuitStateOpen {
		t.Fatalf("state = %v, want open after failed probe", got)
	}
}

func TestCircuitBreaker_HalfOpenLimitsConcurrentProbes(t *testing.T) {
	t.Parallel()

	breaker := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	current := time.Unix(100, 0)
	breaker.now = func() time.Time { return current }

	breaker.RecordFailure()
	current = current.Add(11 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("first probe rejected: %v", err)
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second concurrent probe should be rejected, got %v", err)
	}
}
