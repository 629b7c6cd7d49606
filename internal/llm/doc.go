// Package llm provides resilient access to a hosted language model. A Pool
// hands out API keys in round-robin order and caches one client per model
// and key; an Invoker sends a request and rotates to the next key whenever
// an attempt fails. Gemini (google.golang.org/genai) and OpenAI-compatible
// (go-openai) transports are provided as ClientFactory implementations.
package llm
