package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/thienthu/internal/batch"
	"codeberg.org/snonux/thienthu/internal/translation"
)

// Translate translates one chapter, or every chapter of the batch file.
func (p *Processor) Translate(ctx context.Context, args []string) error {
	if p.flags.BatchFile != "" {
		return p.TranslateBatch(ctx)
	}
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

	result, err := p.translator.Translate(ctx, translation.Request{
		Text:      text,
		BookID:    p.flags.BookID,
		ChapterID: p.flags.ChapterID,
	})
	if err != nil {
		if result != nil {
			// Translated but not saved; show it rather than lose it.
			p.printTranslation(result)
		}
		return fmt.Errorf("%s: %w", source, err)
	}
	return p.printTranslation(result)
}

func (p *Processor) printTranslation(result *translation.Result) error {
	if p.flags.JSON {
		data, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(p.out, string(data))
		return nil
	}

	if result.Title != "" {
		fmt.Fprintf(p.out, "# %s\n\n", result.Title)
	}
	if result.Summary != "" {
		fmt.Fprintf(p.out, "> %s\n\n", result.Summary)
	}
	for _, s := range result.Sentences {
		fmt.Fprintf(p.out, "%s\n\n", s.Translated)
	}
	if result.ChapterID != "" {
		fmt.Fprintf(p.out, "Saved as chapter %d (%s)\n", result.Order, result.ChapterID)
	}
	if result.Missing > 0 {
		fmt.Fprintf(p.out, "Warning: %d of %d paragraphs were not translated\n", result.Missing, len(result.Sentences))
	}
	return nil
}

type batchResult struct {
	entry  batch.Entry
	result *translation.Result
	err    error
}

// TranslateBatch translates the chapters listed in the batch file
// concurrently. Every chapter is attempted; the run fails when any failed.
func (p *Processor) TranslateBatch(ctx context.Context) error {
	if p.flags.BookID == "" {
		return errors.New("--batch requires --book")
	}
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("batch file %s lists no chapters", p.flags.BatchFile)
	}
	if err := p.setup(); err != nil {
		return err
	}
	if err := p.checkBook(ctx); err != nil {
		return err
	}

	concurrency := p.flags.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	fmt.Fprintf(p.out, "Translating %d chapters (%d in parallel)\n", len(entries), concurrency)

	results := make([]batchResult, len(entries))
	var (
		mu   sync.Mutex
		done int
		g    errgroup.Group
	)
	g.SetLimit(concurrency)

	for i, entry := range entries {
		g.Go(func() error {
			results[i] = p.translateEntry(ctx, entry)
			status := "ok"
			if results[i].err != nil {
				status = "failed"
			}

			mu.Lock()
			done++
			fmt.Fprintf(p.out, "  [%d/%d] %s: %s\n", done, len(entries), filepath.Base(entry.Path), status)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return p.printBatchSummary(results)
}

func (p *Processor) translateEntry(ctx context.Context, entry batch.Entry) batchResult {
	r := batchResult{entry: entry}

	data, err := os.ReadFile(entry.Path)
	if err != nil {
		r.err = fmt.Errorf("failed to read chapter file: %w", err)
		return r
	}

	r.result, r.err = p.translator.Translate(ctx, translation.Request{
		Text:      string(data),
		BookID:    p.flags.BookID,
		ChapterID: entry.ChapterID,
	})
	if r.err != nil {
		p.logger.Error("chapter failed",
			zap.String("file", entry.Path),
			zap.Int("line", entry.Line),
			zap.Error(r.err))
	}
	return r
}

func (p *Processor) printBatchSummary(results []batchResult) error {
	rows := make([]table.Row, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			rows = append(rows, table.Row{r.entry.Line, filepath.Base(r.entry.Path), "-", "-", "-", oneLine(r.err.Error())})
			continue
		}
		rows = append(rows, table.Row{
			r.entry.Line,
			filepath.Base(r.entry.Path),
			r.result.Order,
			oneLine(r.result.Title),
			len(r.result.Sentences),
			missingStatus(r.result),
		})
	}
	printTable(p.out, batchColumns, rows)
	fmt.Fprintf(p.out, "Translated: %d, failed: %d\n", len(results)-failed, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d chapters failed", failed, len(results))
	}
	return nil
}

func missingStatus(r *translation.Result) string {
	if r.Missing == 0 {
		return "ok"
	}
	return fmt.Sprintf("%d missing", r.Missing)
}
