package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

type countingClient struct {
	calls int
	err   error
}

func (c *countingClient) Generate(ctx context.Context, messages []Message) (*Response, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &Response{Content: PlainText("ok")}, nil
}

func TestBreakerClient_OpensAfterFailures(t *testing.T) {
	inner := &countingClient{err: errors.New("quota exceeded")}
	b := newBreakerClient("m/...0001", inner, BreakerSettings{Failures: 2, Cooldown: time.Minute})

	for i := 0; i < 2; i++ {
		if _, err := b.Generate(context.Background(), nil); err == nil {
			t.Fatalf("attempt %d: expected error", i)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", b.State())
	}

	_, err := b.Generate(context.Background(), nil)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Generate() error = %v, want ErrOpenState", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner client called %d times, want 2", inner.calls)
	}
}

func TestBreakerClient_IgnoresCancellation(t *testing.T) {
	inner := &countingClient{err: context.Canceled}
	b := newBreakerClient("m/...0001", inner, BreakerSettings{Failures: 1, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		b.Generate(context.Background(), nil)
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", b.State())
	}
	if inner.calls != 3 {
		t.Errorf("inner client called %d times, want 3", inner.calls)
	}
}

func TestBreakerClient_NilResponseIsFailure(t *testing.T) {
	b := newBreakerClient("m", nilClient{}, BreakerSettings{Failures: 1, Cooldown: time.Minute})

	if _, err := b.Generate(context.Background(), nil); !errors.Is(err, errEmptyResponse) {
		t.Errorf("Generate() error = %v, want errEmptyResponse", err)
	}
	if b.State() != gobreaker.StateOpen {
		t.Errorf("State() = %v, want open", b.State())
	}
}

type nilClient struct{}

func (nilClient) Generate(context.Context, []Message) (*Response, error) { return nil, nil }
