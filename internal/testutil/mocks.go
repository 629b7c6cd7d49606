package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/thienthu/internal/llm"
)

// ReplyFunc produces the reply text for one call.
type ReplyFunc func(call MockCall) (string, error)

// MockCall records one Generate call.
type MockCall struct {
	Model    string
	Cred     llm.Credential
	Messages []llm.Message
}

// MockFactory builds scripted llm clients and records every call. It is
// safe for concurrent use.
type MockFactory struct {
	mu sync.Mutex

	// Failures makes every call with the given credential fail.
	Failures map[llm.Credential]error
	// Reply produces the response text. When nil the mock echoes "{}".
	Reply ReplyFunc
	// Block makes Generate wait for the context to end for these keys.
	Block map[llm.Credential]bool
	// BuildErr, when set, is returned by the factory itself.
	BuildErr error

	Calls  []MockCall
	Builds []string
}

// Factory returns an llm.ClientFactory backed by the mock.
func (m *MockFactory) Factory() llm.ClientFactory {
	return func(ctx context.Context, model string, cred llm.Credential) (llm.Client, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.BuildErr != nil {
			return nil, m.BuildErr
		}
		m.Builds = append(m.Builds, fmt.Sprintf("%s/%s", model, cred))
		return &MockClient{factory: m, model: model, cred: cred}, nil
	}
}

// CallKeys returns the credential of every call in order.
func (m *MockFactory) CallKeys() []llm.Credential {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]llm.Credential, len(m.Calls))
	for i, c := range m.Calls {
		keys[i] = c.Cred
	}
	return keys
}

// CallCount returns the number of Generate calls seen so far.
func (m *MockFactory) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// BuildCount returns how many clients the factory constructed.
func (m *MockFactory) BuildCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Builds)
}

// MockClient is one scripted client for a model and credential.
type MockClient struct {
	factory *MockFactory
	model   string
	cred    llm.Credential
}

// Generate records the call and answers according to the factory script.
func (c *MockClient) Generate(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	call := MockCall{Model: c.model, Cred: c.cred, Messages: messages}

	c.factory.mu.Lock()
	c.factory.Calls = append(c.factory.Calls, call)
	failErr := c.factory.Failures[c.cred]
	block := c.factory.Block[c.cred]
	reply := c.factory.Reply
	c.factory.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if failErr != nil {
		return nil, failErr
	}

	text := "{}"
	if reply != nil {
		var err error
		if text, err = reply(call); err != nil {
			return nil, err
		}
	}
	return &llm.Response{Model: c.model, Content: llm.PlainText(text)}, nil
}

// StaticReply returns a ReplyFunc that always answers text.
func StaticReply(text string) ReplyFunc {
	return func(MockCall) (string, error) { return text, nil }
}

// Keys builds n distinct credentials long enough to have a visible suffix.
func Keys(n int) []llm.Credential {
	creds := make([]llm.Credential, n)
	for i := range creds {
		creds[i] = llm.Credential(fmt.Sprintf("test-api-key-%04d", i))
	}
	return creds
}
