package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anthanhphan/go-secure-file-storage/pkg/resilience"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type fakeTimeSource struct {
	calls int
	val   time.Time
	err   error
}

func (f *fakeTimeSource) Time(ctx context.Context) *redis.TimeCmd {
	f.calls++
	return redis.NewTimeCmdResult(f.val, f.err)
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	got := SystemClock{}.Now()
	assert.False(t, got.Before(before))
}

func TestRedisClock_UsesRedisTime(t *testing.T) {
	want := time.Date(2024, 11, 7, 10, 0, 0, 0, time.UTC)
	src := &fakeTimeSource{val: want}

	c := NewRedisClock(src, nil, 0)

	assert.True(t, want.Equal(c.Now()))
	assert.Equal(t, 1, src.calls)
}

func TestRedisClock_FallsBackAndTripsBreaker(t *testing.T) {
	src := &fakeTimeSource{err: errors.New("connection refused")}
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	})
	c := NewRedisClock(src, breaker, time.Millisecond)

	for i := 0; i < 5; i++ {
		before := time.Now()
		got := c.Now()
		assert.WithinDuration(t, before, got, time.Second)
	}

	// Only the calls before the breaker opened reached Redis.
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, resilience.CircuitOpen, breaker.State())
}

func TestRedisClock_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = client.Close() }()

	c := NewRedisClock(client, nil, 100*time.Millisecond)
	before := time.Now()
	assert.WithinDuration(t, before, c.Now(), 5*time.Second)
}
