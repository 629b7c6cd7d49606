package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-3-flash-preview"

// GeminiFactory returns a factory building Gemini API clients.
func GeminiFactory() ClientFactory {
	return func(ctx context.Context, model string, cred Credential) (Client, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  string(cred),
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return &geminiClient{client: client, model: model}, nil
	}
}

type geminiClient struct {
	client *genai.Client
	model  string
}

func (g *geminiClient) Generate(ctx context.Context, messages []Message) (*Response, error) {
	var (
		system   []*genai.Part
		contents []*genai.Content
	)
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, genai.NewPartFromText(m.Text))
		default:
			contents = append(contents, genai.NewContentFromText(m.Text, genai.RoleUser))
		}
	}
	if len(contents) == 0 {
		return nil, errors.New("gemini: request has no human message")
	}

	config := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{Parts: system}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini generate: no candidates returned")
	}

	var blocks []Block
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		kind := BlockText
		if part.Thought {
			kind = BlockThinking
		}
		blocks = append(blocks, Block{Kind: kind, Text: part.Text})
	}
	return &Response{Model: g.model, Content: Blocks(blocks...)}, nil
}
