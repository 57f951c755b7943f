package nlparser

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dpinto-lab/chrono/internal/command"
)

// BreakerParser wraps a Parser with a circuit breaker: three consecutive
// failures trip the breaker, and for the cooldown window every call fails
// fast with ErrUnavailable instead of paying the underlying deadline
// while the backend is down. This protects against a flapping-but-not-
// fully-down parser in a way a bare per-call timeout cannot.
type BreakerParser struct {
	inner Parser
	cb    *gobreaker.CircuitBreaker
	avail availability
}

// NewBreakerParser wraps inner with a breaker that trips after 3
// consecutive failures and stays open for cooldown before allowing a
// single trial request through.
func NewBreakerParser(inner Parser, cooldown time.Duration) *BreakerParser {
	settings := gobreaker.Settings{
		Name:        "nlparser",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &BreakerParser{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Parse runs the wrapped parser through the breaker. A call made while
// the breaker is open fails immediately with ErrUnavailable.
func (b *BreakerParser) Parse(ctx context.Context, text string, events []EventContext) ([]command.Command, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Parse(ctx, text, events)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, ErrUnavailable
		}
		return nil, err
	}
	return result.([]command.Command), nil
}

// Available reports the cached reachability of the underlying parser,
// probed at most once until Reset is called.
func (b *BreakerParser) Available(check func() bool) bool {
	return b.avail.get(check)
}

// Reset clears the cached availability flag.
func (b *BreakerParser) Reset() {
	b.avail.reset()
}
