package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type manualTime struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualTime) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

var errBoom = errors.New("boom")

func fail(context.Context) error    { return errBoom }
func succeed(context.Context) error { return nil }

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 2,
		OpenTimeout:      200 * time.Millisecond,
	})

	if err := cb.Execute(context.Background(), fail); err == nil {
		t.Fatalf("expected first failure")
	}
	if err := cb.Execute(context.Background(), fail); err == nil {
		t.Fatalf("expected second failure")
	}
	if cb.State() != CircuitOpen {
		t.Fatalf("expected circuit open, got %s", cb.State())
	}
	if err := cb.Execute(context.Background(), fail); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2})

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), succeed)
	_ = cb.Execute(context.Background(), fail)

	if cb.State() != CircuitClosed {
		t.Fatalf("expected circuit closed, got %s", cb.State())
	}
}

func TestCircuitBreakerHalfOpenTransitions(t *testing.T) {
	clock := &manualTime{now: time.Unix(1700000000, 0)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "redis",
		FailureThreshold: 1,
		OpenTimeout:      time.Second,
		Now:              clock.Now,
	})

	_ = cb.Execute(context.Background(), fail)
	clock.Advance(time.Second)
	if cb.State() != CircuitHalfOpen {
		t.Fatalf("expected half-open, got %s", cb.State())
	}

	// A failed probe re-opens the circuit.
	if err := cb.Execute(context.Background(), fail); !errors.Is(err, errBoom) {
		t.Fatalf("expected probe failure, got %v", err)
	}
	if cb.State() != CircuitOpen {
		t.Fatalf("expected circuit open, got %s", cb.State())
	}

	clock.Advance(time.Second)
	if err := cb.Execute(context.Background(), succeed); err != nil {
		t.Fatalf("expected success in half-open, got %v", err)
	}
	if cb.State() != CircuitClosed {
		t.Fatalf("expected circuit closed, got %s", cb.State())
	}
}

func TestCircuitBreakerSingleProbe(t *testing.T) {
	clock := &manualTime{now: time.Unix(1700000000, 0)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second, Now: clock.Now})

	_ = cb.Execute(context.Background(), fail)
	clock.Advance(time.Second)

	err := cb.Execute(context.Background(), func(context.Context) error {
		return cb.Execute(context.Background(), succeed)
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected concurrent probe to be rejected, got %v", err)
	}
}

func TestCircuitBreakerIgnoresCancellation(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1})

	_ = cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	if cb.State() != CircuitClosed {
		t.Fatalf("expected circuit closed, got %s", cb.State())
	}
}

func TestCircuitBreakerOpenErrorCarriesRetryAfter(t *testing.T) {
	clock := &manualTime{now: time.Unix(1700000000, 0)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "redis:6379",
		FailureThreshold: 1,
		OpenTimeout:      200 * time.Millisecond,
		Now:              clock.Now,
	})

	_ = cb.Execute(context.Background(), fail)
	clock.Advance(50 * time.Millisecond)

	err := cb.Execute(context.Background(), succeed)
	var openErr *CircuitOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected CircuitOpenError, got %T", err)
	}
	if openErr.RetryAfter != 150*time.Millisecond {
		t.Fatalf("expected retry_after 150ms, got %s", openErr.RetryAfter)
	}
	if openErr.Name != "redis:6379" {
		t.Fatalf("expected name redis:6379, got %s", openErr.Name)
	}
}
