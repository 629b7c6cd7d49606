package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings configures the per-client circuit breaker. A zero
// Failures value disables it.
type BreakerSettings struct {
	// Failures is the number of consecutive failed attempts that opens the
	// breaker.
	Failures uint32
	// Cooldown is how long an open breaker rejects attempts before letting
	// one probe through.
	Cooldown time.Duration
	// OnStateChange is called on every transition.
	OnStateChange func(name string, from, to gobreaker.State)
}

func (s BreakerSettings) enabled() bool {
	return s.Failures > 0
}

// breakerClient fails fast while the key it wraps keeps failing, so the
// invoker moves on to the next key without waiting for a timeout.
type breakerClient struct {
	inner Client
	cb    *gobreaker.CircuitBreaker
}

func newBreakerClient(name string, inner Client, s BreakerSettings) *breakerClient {
	failures := s.Failures
	return &breakerClient{
		inner: inner,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     s.Cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				// The caller going away says nothing about the key.
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: s.OnStateChange,
		}),
	}
}

func (b *breakerClient) Generate(ctx context.Context, messages []Message) (*Response, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		resp, err := b.inner.Generate(ctx, messages)
		if err == nil && resp == nil {
			err = errEmptyResponse
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	return out.(*Response), nil
}

// State returns the breaker state, for diagnostics.
func (b *breakerClient) State() gobreaker.State {
	return b.cb.State()
}
