package glossary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/thienthu/internal/extract"
	"codeberg.org/snonux/thienthu/internal/llm"
	"codeberg.org/snonux/thienthu/internal/prompt"
	"codeberg.org/snonux/thienthu/internal/segment"
	"codeberg.org/snonux/thienthu/internal/store"
)

// DefaultWindowChars bounds the text sent in one extraction request.
const DefaultWindowChars = 6000

// Invoker sends a conversation to a model.
type Invoker interface {
	Invoke(ctx context.Context, messages []llm.Message, model string) (*llm.Response, error)
}

// Store is the persistence the pipeline needs.
type Store interface {
	NextChapterOrder(ctx context.Context, bookID string) (int, error)
	CreateChapter(ctx context.Context, c *store.Chapter) error
	FindGlossaryByRaw(ctx context.Context, raws []string, bookID string) ([]store.GlossaryEntry, error)
	InsertGlossary(ctx context.Context, entries []store.GlossaryEntry) (int, error)
}

// Request is one extraction. FirstChapterID is recorded on new entries; when
// it is empty and BookID is set a placeholder chapter is created for it.
type Request struct {
	Text           string
	BookID         string
	FirstChapterID string
}

// Term is one extracted glossary item.
type Term struct {
	Raw        string `json:"raw"`
	Translated string `json:"translated"`
	Type       string `json:"type"`
}

// Result lists the known terms followed by the newly stored ones.
type Result struct {
	Glossaries []Term `json:"glossaries"`
	ChapterID  string `json:"chapter_id,omitempty"`
	Existing   int    `json:"existing"`
	Inserted   int    `json:"inserted"`
}

// Config tunes the pipeline.
type Config struct {
	Model       string
	WindowChars int
}

// Service runs glossary extractions.
type Service struct {
	invoker   Invoker
	store     Store
	extractor *extract.Extractor
	cfg       Config
	logger    *zap.Logger
}

// ErrEmptyText is returned when the input holds no text.
var ErrEmptyText = errors.New("nothing to extract")

// NewService creates a glossary service.
func NewService(invoker Invoker, st Store, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = llm.DefaultGeminiModel
	}
	if cfg.WindowChars <= 0 {
		cfg.WindowChars = DefaultWindowChars
	}
	return &Service{
		invoker:   invoker,
		store:     st,
		extractor: extract.New(logger),
		cfg:       cfg,
		logger:    logger,
	}
}

// Extract asks the model for the glossary of req.Text and stores the terms
// not yet known for the book. Matching is by exact raw text.
func (s *Service) Extract(ctx context.Context, req Request) (*Result, error) {
	chunks := segment.Split(req.Text)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	windows := segment.Windows(chunks, s.cfg.WindowChars)
	var terms []Term
	seen := make(map[string]bool)
	for i, window := range windows {
		messages := []llm.Message{
			llm.System(prompt.ExtractGlossary()),
			llm.Human(prompt.GlossaryInput(strings.Join(window, "\n"))),
		}
		resp, err := s.invoker.Invoke(ctx, messages, s.cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to extract glossary (window %d/%d): %w", i+1, len(windows), err)
		}

		for _, term := range parseTerms(s.extractor.Extract(resp.Text())) {
			if seen[term.Raw] {
				continue
			}
			seen[term.Raw] = true
			terms = append(terms, term)
		}
	}

	// Placeholder only after every window succeeded.
	chapterID := req.FirstChapterID
	if req.BookID != "" && chapterID == "" {
		id, err := s.createPlaceholder(ctx, req.BookID)
		if err != nil {
			return nil, err
		}
		chapterID = id
	}

	result := &Result{ChapterID: chapterID}
	if len(terms) == 0 {
		s.logger.Info("no glossary terms found", zap.Int("windows", len(windows)))
		return result, nil
	}

	raws := make([]string, len(terms))
	for i, term := range terms {
		raws[i] = term.Raw
	}
	existing, err := s.store.FindGlossaryByRaw(ctx, raws, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up glossary: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[e.Raw] = true
		result.Glossaries = append(result.Glossaries, Term{Raw: e.Raw, Translated: e.Translated, Type: e.Type})
	}
	result.Existing = len(existing)

	var fresh []store.GlossaryEntry
	for _, term := range terms {
		if known[term.Raw] {
			continue
		}
		fresh = append(fresh, store.GlossaryEntry{
			Raw:            term.Raw,
			Translated:     term.Translated,
			Type:           term.Type,
			BookID:         req.BookID,
			FirstChapterID: chapterID,
		})
		result.Glossaries = append(result.Glossaries, term)
	}

	if len(fresh) > 0 {
		n, err := s.store.InsertGlossary(ctx, fresh)
		if err != nil {
			return nil, fmt.Errorf("failed to save glossary: %w", err)
		}
		result.Inserted = n
	}
	s.logger.Info("glossary extracted",
		zap.String("book_id", req.BookID),
		zap.Int("new", len(fresh)),
		zap.Int("existing", len(existing)))
	return result, nil
}

func (s *Service) createPlaceholder(ctx context.Context, bookID string) (string, error) {
	order, err := s.store.NextChapterOrder(ctx, bookID)
	if err != nil {
		return "", fmt.Errorf("failed to compute chapter order: %w", err)
	}
	chapter := &store.Chapter{
		BookID: bookID,
		Order:  order,
		Title:  fmt.Sprintf("Chapter %d", order),
		Status: store.StatusPending,
	}
	if err := s.store.CreateChapter(ctx, chapter); err != nil {
		return "", fmt.Errorf("failed to create placeholder chapter: %w", err)
	}
	s.logger.Info("created placeholder chapter", zap.String("chapter_id", chapter.ID), zap.Int("order", order))
	return chapter.ID, nil
}

// parseTerms reads terms from an array reply or from the "glossaries" field
// of an object reply.
func parseTerms(payload extract.Payload) []Term {
	items := payload.Items
	if payload.Kind == extract.KindObject {
		items = payload.List("glossaries")
	}

	terms := make([]Term, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		term := Term{
			Raw:        field(obj, "raw"),
			Translated: field(obj, "translated"),
			Type:       NormalizeType(field(obj, "type")),
		}
		if term.Raw == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

func field(obj map[string]any, name string) string {
	s, _ := obj[name].(string)
	return strings.TrimSpace(s)
}

// NormalizeType lowercases t and maps anything outside the known types to
// "other".
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if prompt.IsGlossaryType(t) {
		return t
	}
	return "other"
}
