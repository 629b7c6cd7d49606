package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/table"

	"codeberg.org/snonux/thienthu/internal/glossary"
	"codeberg.org/snonux/thienthu/internal/llm"
	"codeberg.org/snonux/thienthu/internal/models"
	"codeberg.org/snonux/thienthu/internal/store"
)

// ExtractGlossary extracts glossary terms from one chapter and stores the
// new ones.
func (p *Processor) ExtractGlossary(ctx context.Context, args []string) error {
	if err := p.setup(); err != nil {
		return err
	}
	if err := p.checkBook(ctx); err != nil {
		return err
	}

	text, source, err := p.readInput(args)
	if err != nil {
		return err
	}

	result, err := p.glossary.Extract(ctx, glossary.Request{
		Text:           text,
		BookID:         p.flags.BookID,
		FirstChapterID: p.flags.ChapterID,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}

	if p.flags.JSON {
		data, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(p.out, string(data))
		return nil
	}

	rows := make([]table.Row, len(result.Glossaries))
	for i, term := range result.Glossaries {
		status := "new"
		if i < result.Existing {
			status = "known"
		}
		rows[i] = table.Row{term.Raw, term.Translated, term.Type, status}
	}
	printTable(p.out, termColumns, rows)
	fmt.Fprintf(p.out, "New terms: %d, already known: %d\n", result.Inserted, result.Existing)
	if result.ChapterID != "" {
		fmt.Fprintf(p.out, "Chapter: %s\n", result.ChapterID)
	}
	return nil
}

// ListGlossary prints the glossary of the selected book, or every entry.
func (p *Processor) ListGlossary(ctx context.Context) error {
	entries, err := p.store.GlossaryByBook(ctx, p.flags.BookID)
	if err != nil {
		return err
	}

	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{e.Type, e.Raw, e.Translated, e.BookID}
	}
	printTable(p.out, entryColumns, rows)
	fmt.Fprintf(p.out, "%d entries\n", len(entries))
	return nil
}

// CreateBook stores a new book and prints its ID.
func (p *Processor) CreateBook(ctx context.Context) error {
	book, err := p.store.CreateBook(ctx, p.flags.Title, p.flags.Author)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Created book %q: %s\n", book.Title, book.ID)
	return nil
}

// ListBooks prints every book.
func (p *Processor) ListBooks(ctx context.Context) error {
	books, err := p.store.ListBooks(ctx)
	if err != nil {
		return err
	}

	rows := make([]table.Row, len(books))
	for i, b := range books {
		rows[i] = table.Row{b.ID, b.Title, b.Author, b.CreatedAt.Format("2006-01-02")}
	}
	printTable(p.out, bookColumns, rows)
	return nil
}

// ListChapters prints the chapters of the selected book.
func (p *Processor) ListChapters(ctx context.Context) error {
	if err := p.checkBook(ctx); err != nil {
		return err
	}
	chapters, err := p.store.ChaptersByBook(ctx, p.flags.BookID)
	if err != nil {
		return err
	}

	rows := make([]table.Row, len(chapters))
	for i, c := range chapters {
		rows[i] = table.Row{c.Order, c.ID, c.Title, string(c.Status), len(c.Paragraphs)}
	}
	printTable(p.out, chapterColumns, rows)
	return nil
}

// ShowChapter prints one stored chapter.
func (p *Processor) ShowChapter(ctx context.Context, id string) error {
	chapter, err := p.store.GetChapter(ctx, id)
	if err != nil {
		return fmt.Errorf("chapter %s: %w", id, err)
	}

	if p.flags.JSON {
		data, err := sonic.ConfigStd.MarshalIndent(chapter, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode chapter: %w", err)
		}
		fmt.Fprintln(p.out, string(data))
		return nil
	}

	fmt.Fprint(p.out, formatChapter(chapter))
	return nil
}

// ListModels prints the models available to the first configured key.
func (p *Processor) ListModels(ctx context.Context) error {
	if len(p.cfg.APIKeys) == 0 {
		return &llm.ConfigError{Field: "llm.api_keys", Reason: "at least one API key is required"}
	}
	lister := models.NewLister(p.cfg.Provider, p.cfg.APIKeys[0], p.cfg.BaseURL)
	return lister.ListAvailableModels(ctx, p.out)
}

// formatChapter renders a chapter as plain text: title, summary, then every
// source paragraph followed by its translation.
func formatChapter(c *store.Chapter) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", c.Title)
	if c.Summary != "" {
		fmt.Fprintf(&sb, "%s\n\n", c.Summary)
	}
	for _, para := range c.Paragraphs {
		fmt.Fprintf(&sb, "%s\n%s\n\n", para.Raw, para.Translated)
	}
	return sb.String()
}
