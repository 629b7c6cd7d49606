package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/thienthu/internal/cli"
	"codeberg.org/snonux/thienthu/internal/llm"
	"codeberg.org/snonux/thienthu/internal/logging"
	"codeberg.org/snonux/thienthu/internal/processor"
)

func main() {
	flags := cli.NewFlags()

	rootCmd := cli.CreateRootCommand(flags, cli.Actions{
		Translate: withProcessor(flags, func(ctx context.Context, p *processor.Processor, args []string) error {
			return p.Translate(ctx, args)
		}),
		GlossaryExtract: withProcessor(flags, func(ctx context.Context, p *processor.Processor, args []string) error {
			return p.ExtractGlossary(ctx, args)
		}),
		GlossaryList: withProcessor(flags, func(ctx context.Context, p *processor.Processor, _ []string) error {
			return p.ListGlossary(ctx)
		}),
		BookCreate: withProcessor(flags, func(ctx context.Context, p *processor.Processor, _ []string) error {
			return p.CreateBook(ctx)
		}),
		BookList: withProcessor(flags, func(ctx context.Context, p *processor.Processor, _ []string) error {
			return p.ListBooks(ctx)
		}),
		ChapterList: withProcessor(flags, func(ctx context.Context, p *processor.Processor, _ []string) error {
			return p.ListChapters(ctx)
		}),
		ChapterShow: withProcessor(flags, func(ctx context.Context, p *processor.Processor, args []string) error {
			return p.ShowChapter(ctx, args[0])
		}),
		Models: withProcessor(flags, func(ctx context.Context, p *processor.Processor, _ []string) error {
			return p.ListModels(ctx)
		}),
		Export: withProcessor(flags, func(ctx context.Context, p *processor.Processor, _ []string) error {
			return p.Export(ctx)
		}),
	})

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var exhausted *llm.ExhaustedError
		if errors.As(err, &exhausted) {
			fmt.Fprintf(os.Stderr, "All %d attempts failed; check your API keys and quota\n", exhausted.Attempts)
		}
		os.Exit(1)
	}
}

type command func(ctx context.Context, p *processor.Processor, args []string) error

// withProcessor loads the configuration, sets up logging and the processor
// and runs fn with a context that is cancelled on SIGINT or SIGTERM.
func withProcessor(flags *cli.Flags, fn command) cli.Action {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return err
		}

		logger, err := logging.New(logging.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   cfg.LogFile,
		})
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		defer logger.Sync()

		proc, err := processor.NewProcessor(flags, cfg, logger)
		if err != nil {
			return err
		}
		defer proc.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Debug("running command",
			zap.String("command", cmd.CommandPath()),
			zap.String("provider", cfg.Provider),
			zap.String("model", cfg.Model))
		return fn(ctx, proc, args)
	}
}
