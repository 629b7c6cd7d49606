package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Invoker sends requests through a Pool, rotating keys on failure.
type Invoker struct {
	pool        *Pool
	timeout     time.Duration
	maxAttempts int
	logger      *zap.Logger
}

// InvokerOption customizes an Invoker.
type InvokerOption func(*Invoker)

// WithTimeout bounds every single attempt. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) InvokerOption {
	return func(inv *Invoker) {
		inv.timeout = d
	}
}

// WithMaxAttempts overrides the default number of attempts per call, which
// is the pool size.
func WithMaxAttempts(n int) InvokerOption {
	return func(inv *Invoker) {
		inv.maxAttempts = n
	}
}

// WithLogger sets the logger used for attempt bookkeeping.
func WithLogger(logger *zap.Logger) InvokerOption {
	return func(inv *Invoker) {
		if logger != nil {
			inv.logger = logger
		}
	}
}

// NewInvoker creates an invoker over pool.
func NewInvoker(pool *Pool, opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		pool:   pool,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Pool returns the pool the invoker draws keys from.
func (inv *Invoker) Pool() *Pool {
	return inv.pool
}

// Invoke sends messages to model using the configured number of attempts.
func (inv *Invoker) Invoke(ctx context.Context, messages []Message, model string) (*Response, error) {
	return inv.InvokeN(ctx, messages, model, inv.maxAttempts)
}

// InvokeN sends messages to model, trying up to maxAttempts keys. A value of
// zero or less means one attempt per key in the pool. Every attempt takes
// the next key from the pool, skipping keys this call already used until all
// of them were tried. There is no backoff: moving to another key is the
// retry. When every attempt fails the returned ExhaustedError wraps the last
// attempt's error.
func (inv *Invoker) InvokeN(ctx context.Context, messages []Message, model string, maxAttempts int) (*Response, error) {
	size := inv.pool.Size()
	if maxAttempts <= 0 {
		maxAttempts = size
	}

	tried := make(map[int]bool, size)
	last := -1
	made := 0
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		if len(tried) == size {
			// Every key was used once; allow them again, except the one
			// that just failed.
			tried = make(map[int]bool, size)
			if size > 1 {
				tried[last] = true
			}
		}

		idx, cred := inv.pool.next(tried)
		tried[idx] = true
		last = idx
		made++

		start := time.Now()
		resp, err := inv.attempt(ctx, model, cred, messages)
		if err == nil {
			inv.logger.Debug("model call succeeded",
				zap.String("model", model),
				zap.Int("attempt", attempt),
				zap.Int("key_index", idx),
				zap.String("key_suffix", cred.Suffix()),
				zap.Duration("duration", time.Since(start)))
			return resp, nil
		}

		lastErr = &ProviderError{
			Attempt:   attempt,
			KeyIndex:  idx,
			KeySuffix: cred.Suffix(),
			Model:     model,
			Err:       err,
		}
		inv.logger.Warn("model call failed, rotating key",
			zap.String("model", model),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Int("key_index", idx),
			zap.String("key_suffix", cred.Suffix()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
	}

	inv.logger.Error("model call exhausted all attempts",
		zap.String("model", model),
		zap.Int("attempts", made),
		zap.Error(lastErr))
	return nil, &ExhaustedError{Model: model, Attempts: made, Last: lastErr}
}

func (inv *Invoker) attempt(ctx context.Context, model string, cred Credential, messages []Message) (*Response, error) {
	client, err := inv.pool.ClientFor(ctx, model, cred)
	if err != nil {
		return nil, err
	}

	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	resp, err := client.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errEmptyResponse
	}
	return resp, nil
}
