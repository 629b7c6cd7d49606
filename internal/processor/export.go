package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/thienthu/internal"
	"codeberg.org/snonux/thienthu/internal/archive"
)

// Export writes every chapter of the selected book into the output
// directory, one text file per chapter plus the book glossary. An existing
// output directory is archived first.
func (p *Processor) Export(ctx context.Context) error {
	book, err := p.store.GetBook(ctx, p.flags.BookID)
	if err != nil {
		return fmt.Errorf("book %s: %w", p.flags.BookID, err)
	}
	chapters, err := p.store.ChaptersByBook(ctx, book.ID)
	if err != nil {
		return err
	}
	entries, err := p.store.GlossaryByBook(ctx, book.ID)
	if err != nil {
		return err
	}

	dir := p.flags.OutputDir
	if _, err := os.Stat(dir); err == nil {
		archived, err := archive.ArchiveDir(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Previous export archived to: %s\n", archived)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	written := 0
	for i := range chapters {
		c := &chapters[i]
		if len(c.Paragraphs) == 0 {
			continue
		}
		name := fmt.Sprintf("%04d-%s.txt", c.Order, internal.SanitizeFilename(c.Title))
		if err := os.WriteFile(filepath.Join(dir, name), []byte(formatChapter(c)), 0644); err != nil {
			return fmt.Errorf("failed to write chapter %d: %w", c.Order, err)
		}
		written++
	}

	if len(entries) > 0 {
		var sb strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&sb, "%s\t%s\t%s\n", e.Raw, e.Translated, e.Type)
		}
		if err := os.WriteFile(filepath.Join(dir, "glossary.tsv"), []byte(sb.String()), 0644); err != nil {
			return fmt.Errorf("failed to write glossary: %w", err)
		}
	}

	fmt.Fprintf(p.out, "Exported %d chapters and %d glossary entries of %q to: %s\n", written, len(entries), book.Title, dir)
	return nil
}
