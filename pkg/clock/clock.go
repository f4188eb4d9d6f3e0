// Package clock supplies the timestamps embedded in storage names.
package clock

import (
	"context"
	"time"

	"github.com/anthanhphan/go-secure-file-storage/pkg/resilience"
	"github.com/redis/go-redis/v9"
)

// Clock abstracts the time source.
type Clock interface {
	Now() time.Time
}

// SystemClock uses the local system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// TimeSource is the subset of a Redis client the clock needs.
type TimeSource interface {
	Time(ctx context.Context) *redis.TimeCmd
}

const defaultRedisTimeout = 200 * time.Millisecond

// RedisClock reads the Redis TIME command so several instances share one
// time source. It falls back to the system clock when Redis fails, and stops
// asking Redis while the breaker is open.
type RedisClock struct {
	client   TimeSource
	breaker  *resilience.CircuitBreaker
	timeout  time.Duration
	fallback Clock
}

func NewRedisClock(client TimeSource, breaker *resilience.CircuitBreaker, timeout time.Duration) *RedisClock {
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "redis-clock"})
	}
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	return &RedisClock{
		client:   client,
		breaker:  breaker,
		timeout:  timeout,
		fallback: SystemClock{},
	}
}

func (r *RedisClock) Now() time.Time {
	var now time.Time
	err := r.breaker.Execute(context.Background(), func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		t, err := r.client.Time(ctx).Result()
		if err != nil {
			return err
		}
		now = t
		return nil
	})
	if err != nil {
		return r.fallback.Now()
	}
	return now
}
