package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/thienthu/internal/cli"
	"codeberg.org/snonux/thienthu/internal/glossary"
	"codeberg.org/snonux/thienthu/internal/llm"
	"codeberg.org/snonux/thienthu/internal/store"
	"codeberg.org/snonux/thienthu/internal/translation"
)

// Processor handles the command logic
type Processor struct {
	flags  *cli.Flags
	cfg    *cli.Config
	store  *store.Store
	logger *zap.Logger
	out    io.Writer
	in     io.Reader

	factory    llm.ClientFactory
	setupOnce  sync.Once
	setupErr   error
	invoker    *llm.Invoker
	translator *translation.Service
	glossary   *glossary.Service
}

// NewProcessor opens the store named in cfg and prepares the model client
// factory for the configured provider.
func NewProcessor(flags *cli.Flags, cfg *cli.Config, logger *zap.Logger) (*Processor, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	var factory llm.ClientFactory
	switch cfg.Provider {
	case "openai":
		factory = llm.OpenAIFactory(cfg.BaseURL)
	default:
		factory = llm.GeminiFactory()
	}

	return NewProcessorWithDependencies(flags, cfg, st, factory, logger, os.Stdout), nil
}

// NewProcessorWithDependencies creates a processor from ready components.
func NewProcessorWithDependencies(flags *cli.Flags, cfg *cli.Config, st *store.Store, factory llm.ClientFactory, logger *zap.Logger, out io.Writer) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		flags:   flags,
		cfg:     cfg,
		store:   st,
		logger:  logger,
		out:     out,
		in:      os.Stdin,
		factory: factory,
	}
}

// SetInput replaces stdin as the source of chapter text.
func (p *Processor) SetInput(r io.Reader) {
	p.in = r
}

// Close releases the store.
func (p *Processor) Close() error {
	return p.store.Close()
}

// setup builds the key pool, the invoker and the pipelines once. Commands
// that never call the model do not need API keys.
func (p *Processor) setup() error {
	p.setupOnce.Do(func() {
		breaker := llm.BreakerSettings{
			Failures: p.cfg.BreakerFailures,
			Cooldown: p.cfg.BreakerCooldown,
			OnStateChange: func(name string, from, to gobreaker.State) {
				p.logger.Warn("circuit breaker changed state",
					zap.String("client", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}
		pool, err := llm.NewPool(p.cfg.APIKeys, p.factory, llm.WithBreaker(breaker))
		if err != nil {
			p.setupErr = err
			return
		}
		p.logger.Debug("credential pool ready",
			zap.String("provider", p.cfg.Provider),
			zap.Int("keys", pool.Size()))

		p.invoker = llm.NewInvoker(pool,
			llm.WithTimeout(p.cfg.Timeout),
			llm.WithMaxAttempts(p.cfg.MaxAttempts),
			llm.WithLogger(p.logger))
		p.translator = translation.NewService(p.invoker, p.store, translation.Config{
			Model:       p.cfg.Model,
			OrderOffset: p.cfg.OrderOffset,
		}, p.logger)
		p.glossary = glossary.NewService(p.invoker, p.store, glossary.Config{
			Model:       p.cfg.Model,
			WindowChars: p.cfg.WindowChars,
		}, p.logger)
	})
	return p.setupErr
}

// readInput returns the text of the file named by args, or stdin when args
// is empty or "-".
func (p *Processor) readInput(args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(p.in)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read chapter file: %w", err)
	}
	return string(data), args[0], nil
}

// checkBook fails early on an unknown book ID.
func (p *Processor) checkBook(ctx context.Context) error {
	if p.flags.BookID == "" {
		return nil
	}
	if _, err := p.store.GetBook(ctx, p.flags.BookID); err != nil {
		return fmt.Errorf("book %s: %w", p.flags.BookID, err)
	}
	return nil
}

// oneLine collapses whitespace runs so a cell stays on one table row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
