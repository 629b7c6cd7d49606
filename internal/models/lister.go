package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"codeberg.org/snonux/thienthu/internal/llm"
)

// Model is one model offered by a provider.
type Model struct {
	ID           string
	Description  string
	InputTokens  int
	OutputTokens int
}

// Lister handles listing available models
type Lister struct {
	provider string
	cred     llm.Credential
	baseURL  string
	fetch    func(ctx context.Context) ([]Model, error)
}

// NewLister creates a new model lister for provider ("gemini" or "openai").
func NewLister(provider string, cred llm.Credential, baseURL string) *Lister {
	l := &Lister{provider: provider, cred: cred, baseURL: baseURL}
	switch provider {
	case "gemini", "":
		l.fetch = l.gemini
	case "openai":
		l.fetch = l.openai
	}
	return l
}

// List returns the models sorted by ID.
func (l *Lister) List(ctx context.Context) ([]Model, error) {
	if l.cred == "" {
		return nil, fmt.Errorf("API key not found. Set GOOGLE_API_KEYS or llm.api_keys in .thienthu.yaml")
	}
	if l.fetch == nil {
		return nil, fmt.Errorf("unknown provider %q", l.provider)
	}

	models, err := l.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// ListAvailableModels prints the available models as a table.
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	models, err := l.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Available %s models (key %s):\n", l.providerName(), l.cred)
	Render(w, models)
	return nil
}

// Render writes models as a table.
func Render(w io.Writer, models []Model) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Model", "Input tokens", "Output tokens", "Description"})
	for _, m := range models {
		tw.AppendRow(table.Row{m.ID, limit(m.InputTokens), limit(m.OutputTokens), shorten(m.Description, 60)})
	}
	tw.AppendFooter(table.Row{"", "", "Total", len(models)})
	tw.Render()
}

func (l *Lister) providerName() string {
	if l.provider == "openai" {
		return "OpenAI-compatible"
	}
	return "Gemini"
}

func (l *Lister) gemini(ctx context.Context) ([]Model, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  string(l.cred),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	var models []Model
	for m, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		if !supports(m.SupportedActions, "generateContent") {
			continue
		}
		models = append(models, Model{
			ID:           strings.TrimPrefix(m.Name, "models/"),
			Description:  m.Description,
			InputTokens:  int(m.InputTokenLimit),
			OutputTokens: int(m.OutputTokenLimit),
		})
	}
	return models, nil
}

func (l *Lister) openai(ctx context.Context) ([]Model, error) {
	config := openai.DefaultConfig(string(l.cred))
	if l.baseURL != "" {
		config.BaseURL = l.baseURL
	}
	list, err := openai.NewClientWithConfig(config).ListModels(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]Model, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, Model{ID: m.ID, Description: m.OwnedBy})
	}
	return models, nil
}

func supports(actions []string, action string) bool {
	// Some listings leave the actions empty.
	if len(actions) == 0 {
		return true
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

func limit(n int) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

func shorten(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
