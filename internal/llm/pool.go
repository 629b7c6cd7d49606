package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// clientKey identifies one cached client.
type clientKey struct {
	model string
	cred  Credential
}

// Pool holds a fixed, ordered set of credentials. Next cycles through them
// in strict round-robin order starting at the first, and ClientFor caches
// one client per model and credential. The mutex only guards the cursor and
// the cache map; clients are built outside it, at most once per key.
type Pool struct {
	mu      sync.Mutex
	creds   []Credential
	cursor  uint64
	factory ClientFactory
	clients map[clientKey]*clientEntry
	breaker BreakerSettings
}

// clientEntry is a cache slot filled once by the first caller.
type clientEntry struct {
	once   sync.Once
	client Client
	err    error
}

// PoolOption customizes a Pool.
type PoolOption func(*Pool)

// WithBreaker wraps every cached client in a circuit breaker.
func WithBreaker(settings BreakerSettings) PoolOption {
	return func(p *Pool) {
		p.breaker = settings
	}
}

// NewPool creates a pool over creds. An empty list or a blank credential is
// a configuration error.
func NewPool(creds []Credential, factory ClientFactory, opts ...PoolOption) (*Pool, error) {
	if len(creds) == 0 {
		return nil, &ConfigError{Field: "llm.api_keys", Reason: "at least one API key is required"}
	}
	for i, c := range creds {
		if strings.TrimSpace(string(c)) == "" {
			return nil, &ConfigError{Field: "llm.api_keys", Reason: fmt.Sprintf("key #%d is empty", i)}
		}
	}
	if factory == nil {
		return nil, &ConfigError{Field: "llm.provider", Reason: "no client factory"}
	}

	p := &Pool{
		creds:   append([]Credential(nil), creds...),
		factory: factory,
		clients: make(map[clientKey]*clientEntry),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Size returns the number of credentials. It never changes.
func (p *Pool) Size() int {
	return len(p.creds)
}

// Next returns the index and value of the next credential.
func (p *Pool) Next() (int, Credential) {
	return p.next(nil)
}

// next advances the cursor past indexes in exclude. If every index is
// excluded the credential at the cursor is returned anyway.
func (p *Pool) next(exclude map[int]bool) (int, Credential) {
	p.mu.Lock()
	defer p.mu.Unlock()

	size := uint64(len(p.creds))
	idx := int(p.cursor % size)
	for i := uint64(0); i < size; i++ {
		idx = int(p.cursor % size)
		p.cursor++
		if !exclude[idx] {
			break
		}
	}
	return idx, p.creds[idx]
}

// ClientFor returns the cached client for model and cred, building it on
// first use. Concurrent callers for the same key wait for one build; a
// failed build is not cached.
func (p *Pool) ClientFor(ctx context.Context, model string, cred Credential) (Client, error) {
	key := clientKey{model: model, cred: cred}

	p.mu.Lock()
	entry, ok := p.clients[key]
	if !ok {
		entry = &clientEntry{}
		p.clients[key] = entry
	}
	p.mu.Unlock()

	entry.once.Do(func() {
		entry.client, entry.err = p.build(ctx, model, cred)
	})
	if entry.err != nil {
		p.mu.Lock()
		if p.clients[key] == entry {
			delete(p.clients, key)
		}
		p.mu.Unlock()
		return nil, entry.err
	}
	return entry.client, nil
}

func (p *Pool) build(ctx context.Context, model string, cred Credential) (Client, error) {
	client, err := p.factory(ctx, model, cred)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for key ...%s: %w", cred.Suffix(), err)
	}
	if p.breaker.enabled() {
		client = newBreakerClient(fmt.Sprintf("%s/...%s", model, cred.Suffix()), client, p.breaker)
	}
	return client, nil
}
