package llm

import (
	"context"
	"strings"
)

// Role tags a message in a conversation.
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
)

// Message is one role-tagged entry of a request.
type Message struct {
	Role Role
	Text string
}

// System returns a system message.
func System(text string) Message { return Message{Role: RoleSystem, Text: text} }

// Human returns a human (user) message.
func Human(text string) Message { return Message{Role: RoleHuman, Text: text} }

// Block kinds produced by the transports.
const (
	BlockText     = "text"
	BlockThinking = "thinking"
)

// Block is one typed piece of response content.
type Block struct {
	Kind string
	Text string
}

// ContentKind distinguishes the two shapes a response can take.
type ContentKind int

const (
	ContentPlain ContentKind = iota
	ContentBlocks
)

// Content is either plain text or an ordered list of typed blocks. Use
// PlainText or Blocks to build one and Text to read it.
type Content struct {
	kind   ContentKind
	plain  string
	blocks []Block
}

// PlainText returns content holding a single string.
func PlainText(s string) Content {
	return Content{kind: ContentPlain, plain: s}
}

// Blocks returns content made of typed blocks.
func Blocks(blocks ...Block) Content {
	return Content{kind: ContentBlocks, blocks: blocks}
}

// Kind returns the shape of the content.
func (c Content) Kind() ContentKind { return c.kind }

// Blocks returns the blocks of block content, or nil.
func (c Content) Blocks() []Block { return c.blocks }

// Text flattens the content into one string. Block content keeps only text
// blocks, joined by newlines in their original order.
func (c Content) Text() string {
	if c.kind == ContentPlain {
		return c.plain
	}
	texts := make([]string, 0, len(c.blocks))
	for _, b := range c.blocks {
		if b.Kind == BlockText {
			texts = append(texts, b.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// Response is what a model returned for one request.
type Response struct {
	Model   string
	Content Content
}

// Text returns the flattened response content.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return r.Content.Text()
}

// Client sends a conversation to one model using one API key.
type Client interface {
	Generate(ctx context.Context, messages []Message) (*Response, error)
}

// ClientFactory builds the client for a model and credential.
type ClientFactory func(ctx context.Context, model string, cred Credential) (Client, error)
