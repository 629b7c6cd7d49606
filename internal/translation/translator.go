package translation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"codeberg.org/snonux/thienthu/internal/extract"
	"codeberg.org/snonux/thienthu/internal/llm"
	"codeberg.org/snonux/thienthu/internal/prompt"
	"codeberg.org/snonux/thienthu/internal/segment"
	"codeberg.org/snonux/thienthu/internal/store"
)

// Invoker sends a conversation to a model.
type Invoker interface {
	Invoke(ctx context.Context, messages []llm.Message, model string) (*llm.Response, error)
}

// Store is the persistence the pipeline needs.
type Store interface {
	GlossaryByBook(ctx context.Context, bookID string) ([]store.GlossaryEntry, error)
	NextChapterOrder(ctx context.Context, bookID string) (int, error)
	GetChapter(ctx context.Context, id string) (*store.Chapter, error)
	ChapterByOrder(ctx context.Context, bookID string, order int) (*store.Chapter, error)
	CreateChapter(ctx context.Context, c *store.Chapter) error
	UpdateChapter(ctx context.Context, c *store.Chapter) error
}

// Request is one chapter to translate. BookID and ChapterID are optional.
type Request struct {
	Text      string
	BookID    string
	ChapterID string
}

// SentencePair is a source chunk and its translation.
type SentencePair struct {
	Raw        string `json:"raw"`
	Translated string `json:"translated"`
}

// Result is the outcome of one translation.
type Result struct {
	Sentences []SentencePair `json:"sentences"`
	ChapterID string         `json:"chapter_id,omitempty"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	Order     int            `json:"order"`
	// Missing counts positions filled with an error marker.
	Missing int `json:"missing"`
}

// Config tunes the pipeline.
type Config struct {
	Model string
	// OrderOffset is added to the chapter number the model reports. Some
	// imported books number their chapters differently from the source.
	OrderOffset int
}

// Service runs translations.
type Service struct {
	invoker   Invoker
	store     Store
	extractor *extract.Extractor
	cfg       Config
	logger    *zap.Logger

	// createMu serialises picking a chapter number and inserting the
	// chapter, so concurrent translations of one book do not collide.
	createMu sync.Mutex
}

// NewService creates a translation service. store may be nil when results
// are never persisted.
func NewService(invoker Invoker, st Store, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = llm.DefaultGeminiModel
	}
	return &Service{
		invoker:   invoker,
		store:     st,
		extractor: extract.New(logger),
		cfg:       cfg,
		logger:    logger,
	}
}

// ErrEmptyText is returned when the input holds no text.
var ErrEmptyText = errors.New("nothing to translate")

// ErrNoStore is returned when a request names a book but the service has no
// store.
var ErrNoStore = errors.New("no store configured")

// Translate translates req.Text. A failed model call is returned as an
// error; a reply that cannot be decoded still produces a full result made
// of error markers. When only saving fails, the result is returned along
// with the error.
func (s *Service) Translate(ctx context.Context, req Request) (*Result, error) {
	chunks := segment.Split(req.Text)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}
	if (req.BookID != "" || req.ChapterID != "") && s.store == nil {
		return nil, ErrNoStore
	}
	s.logger.Info("segmented chapter", zap.Int("paragraphs", len(chunks)), zap.String("book_id", req.BookID))

	var glossary []store.GlossaryEntry
	if req.BookID != "" {
		var err error
		glossary, err = s.store.GlossaryByBook(ctx, req.BookID)
		if err != nil {
			return nil, fmt.Errorf("failed to load glossary: %w", err)
		}
		s.logger.Debug("loaded glossary", zap.Int("entries", len(glossary)))
	}

	input, err := sonic.MarshalString(chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode paragraphs: %w", err)
	}

	messages := []llm.Message{
		llm.System(prompt.Translate(glossary)),
		llm.Human(input),
	}
	resp, err := s.invoker.Invoke(ctx, messages, s.cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to translate chapter: %w", err)
	}

	payload := s.extractor.Extract(resp.Text())
	result := align(chunks, payload)
	if result.Missing > 0 {
		s.logger.Warn("model returned fewer paragraphs than requested",
			zap.Int("expected", len(chunks)),
			zap.Int("missing", result.Missing))
	}

	if req.BookID != "" || req.ChapterID != "" {
		if err := s.persist(ctx, req, payload, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

// align pairs every chunk with its translation. Positions without one get
// a marker naming the 1-based paragraph number.
func align(chunks []string, payload extract.Payload) *Result {
	var translated []string
	if payload.Kind == extract.KindArray {
		translated = payload.Strings("")
	} else {
		translated = payload.Strings("translations")
	}

	result := &Result{
		Sentences: make([]SentencePair, len(chunks)),
		Title:     payload.String("title"),
		Summary:   payload.String("summary"),
	}
	if order, ok := payload.Int("order"); ok {
		result.Order = order
	}

	for i, raw := range chunks {
		pair := SentencePair{Raw: raw}
		if i < len(translated) {
			pair.Translated = translated[i]
		} else {
			pair.Translated = ErrorMarker(i + 1)
			result.Missing++
		}
		result.Sentences[i] = pair
	}
	return result
}

// ErrorMarker is the text stored for a paragraph the model did not return.
func ErrorMarker(paragraph int) string {
	return fmt.Sprintf("[Translation error: paragraph %d]", paragraph)
}

func (s *Service) persist(ctx context.Context, req Request, payload extract.Payload, result *Result) error {
	paragraphs := make([]store.Paragraph, len(result.Sentences))
	for i, p := range result.Sentences {
		paragraphs[i] = store.Paragraph{Raw: p.Raw, Translated: p.Translated}
	}

	if req.ChapterID != "" {
		chapter, err := s.store.GetChapter(ctx, req.ChapterID)
		if err != nil {
			return fmt.Errorf("failed to load chapter %s: %w", req.ChapterID, err)
		}
		return s.update(ctx, chapter, paragraphs, result)
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	order, err := s.chapterOrder(ctx, req.BookID, payload)
	if err != nil {
		return err
	}

	existing, err := s.store.ChapterByOrder(ctx, req.BookID, order)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return fmt.Errorf("failed to look up chapter %d: %w", order, err)
	case existing.Status == store.StatusPending:
		return s.update(ctx, existing, paragraphs, result)
	default:
		next, err := s.store.NextChapterOrder(ctx, req.BookID)
		if err != nil {
			return fmt.Errorf("failed to compute chapter order: %w", err)
		}
		s.logger.Warn("chapter order already translated, appending",
			zap.Int("order", order),
			zap.String("existing_id", existing.ID),
			zap.Int("new_order", next))
		order = next
	}

	title := result.Title
	if title == "" {
		title = fmt.Sprintf("Chapter %d", order)
	}

	chapter := &store.Chapter{
		BookID:     req.BookID,
		Order:      order,
		Title:      title,
		Summary:    result.Summary,
		Paragraphs: paragraphs,
		Status:     store.StatusTranslated,
	}
	if err := s.store.CreateChapter(ctx, chapter); err != nil {
		return fmt.Errorf("failed to create chapter %d: %w", order, err)
	}
	result.ChapterID = chapter.ID
	result.Order = order
	result.Title = title
	s.logger.Info("created chapter", zap.String("chapter_id", chapter.ID), zap.Int("order", order))
	return nil
}

// update stores the translation in an existing chapter, keeping its order.
func (s *Service) update(ctx context.Context, chapter *store.Chapter, paragraphs []store.Paragraph, result *Result) error {
	if result.Title != "" {
		chapter.Title = result.Title
	}
	if result.Summary != "" {
		chapter.Summary = result.Summary
	}
	chapter.Paragraphs = paragraphs
	chapter.Status = store.StatusTranslated
	if err := s.store.UpdateChapter(ctx, chapter); err != nil {
		return fmt.Errorf("failed to update chapter %s: %w", chapter.ID, err)
	}
	result.ChapterID = chapter.ID
	result.Order = chapter.Order
	result.Title = chapter.Title
	s.logger.Info("updated chapter", zap.String("chapter_id", chapter.ID), zap.Int("order", chapter.Order))
	return nil
}

// chapterOrder uses the chapter number the model read from the text, shifted
// by the configured offset, and falls back to the next free number.
func (s *Service) chapterOrder(ctx context.Context, bookID string, payload extract.Payload) (int, error) {
	if order, ok := payload.Int("order"); ok && order > 0 {
		if shifted := order + s.cfg.OrderOffset; shifted > 0 {
			return shifted, nil
		}
	}
	order, err := s.store.NextChapterOrder(ctx, bookID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute chapter order: %w", err)
	}
	return order, nil
}
