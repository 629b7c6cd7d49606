package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIFactory returns a factory building chat-completion clients for the
// OpenAI API or any compatible endpoint at baseURL.
func OpenAIFactory(baseURL string) ClientFactory {
	return func(_ context.Context, model string, cred Credential) (Client, error) {
		config := openai.DefaultConfig(string(cred))
		if baseURL != "" {
			config.BaseURL = baseURL
		}
		return &openAIClient{client: openai.NewClientWithConfig(config), model: model}, nil
	}
}

type openAIClient struct {
	client *openai.Client
	model  string
}

func (o *openAIClient) Generate(ctx context.Context, messages []Message) (*Response, error) {
	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleSystem {
			role = openai.ChatMessageRoleSystem
		}
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai chat completion: no choices returned")
	}

	msg := resp.Choices[0].Message
	if len(msg.MultiContent) == 0 {
		return &Response{Model: o.model, Content: PlainText(msg.Content)}, nil
	}
	blocks := make([]Block, 0, len(msg.MultiContent))
	for _, part := range msg.MultiContent {
		kind := string(part.Type)
		if part.Type == openai.ChatMessagePartTypeText {
			kind = BlockText
		}
		blocks = append(blocks, Block{Kind: kind, Text: part.Text})
	}
	return &Response{Model: o.model, Content: Blocks(blocks...)}, nil
}
