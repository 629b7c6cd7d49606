package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/thienthu/internal"
)

// Action runs one command.
type Action func(cmd *cobra.Command, args []string) error

// Actions binds every subcommand to its implementation.
type Actions struct {
	Translate       Action
	GlossaryExtract Action
	GlossaryList    Action
	BookCreate      Action
	BookList        Action
	ChapterList     Action
	ChapterShow     Action
	Models          Action
	Export          Action
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, actions Actions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "thienthu",
		Short: "Chinese to Vietnamese web novel translator",
		Long: `thienthu translates Chinese web novel chapters into Vietnamese with
a hosted language model, keeping a per-book glossary of names and
cultivation terms so that every chapter uses the same renderings.

Several API keys can be configured; requests rotate through them and a
failing key is skipped.

Examples:
  thienthu book create --title "斗破苍穹"
  thienthu glossary extract --book <id> chapter-0001.txt
  thienthu translate --book <id> chapter-0001.txt
  thienthu translate --book <id> --batch chapters.txt --concurrency 4
  thienthu export --book <id> --output export`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupPersistentFlags(rootCmd, flags)

	rootCmd.AddCommand(
		translateCommand(flags, actions.Translate),
		glossaryCommand(flags, actions),
		bookCommand(flags, actions),
		chapterCommand(flags, actions),
		&cobra.Command{
			Use:   "models",
			Short: "List models available to the first API key",
			Args:  cobra.NoArgs,
			RunE:  run(actions.Models),
		},
		exportCommand(flags, actions.Export),
	)

	return rootCmd
}

func setupPersistentFlags(cmd *cobra.Command, flags *Flags) {
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.thienthu.yaml)")
	cmd.PersistentFlags().StringVar(&flags.Model, "model", "", "Model name (overrides llm.model)")
	cmd.PersistentFlags().StringVar(&flags.DBPath, "db", "", "SQLite database path (overrides db.path)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "", "Log format: auto, console, json")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("llm.model", cmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("db.path", cmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))
}

func translateCommand(flags *Flags, action Action) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate a chapter (file, or stdin when omitted or -)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run(action),
	}
	cmd.Flags().StringVar(&flags.BookID, "book", "", "Book ID; the chapter is stored and the book glossary is used")
	cmd.Flags().StringVar(&flags.ChapterID, "chapter", "", "Existing chapter ID to update")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate the chapter files listed in this file (one per line)")
	cmd.Flags().IntVarP(&flags.Concurrency, "concurrency", "j", flags.Concurrency, "Chapters translated in parallel with --batch")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the result as JSON")
	return cmd
}

func glossaryCommand(flags *Flags, actions Actions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Extract and list glossary terms",
	}

	extract := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract glossary terms from a chapter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run(actions.GlossaryExtract),
	}
	extract.Flags().StringVar(&flags.BookID, "book", "", "Book ID the terms belong to")
	extract.Flags().StringVar(&flags.ChapterID, "chapter", "", "Chapter the terms first appear in")
	extract.Flags().BoolVar(&flags.JSON, "json", false, "Print the result as JSON")

	list := &cobra.Command{
		Use:   "list",
		Short: "List glossary terms",
		Args:  cobra.NoArgs,
		RunE:  run(actions.GlossaryList),
	}
	list.Flags().StringVar(&flags.BookID, "book", "", "Only terms of this book")

	cmd.AddCommand(extract, list)
	return cmd
}

func bookCommand(flags *Flags, actions Actions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Manage books",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a book",
		Args:  cobra.NoArgs,
		RunE:  run(actions.BookCreate),
	}
	create.Flags().StringVar(&flags.Title, "title", "", "Book title")
	create.Flags().StringVar(&flags.Author, "author", "", "Book author")
	create.MarkFlagRequired("title")

	cmd.AddCommand(create, &cobra.Command{
		Use:   "list",
		Short: "List books",
		Args:  cobra.NoArgs,
		RunE:  run(actions.BookList),
	})
	return cmd
}

func chapterCommand(flags *Flags, actions Actions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapter",
		Short: "Inspect chapters",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the chapters of a book",
		Args:  cobra.NoArgs,
		RunE:  run(actions.ChapterList),
	}
	list.Flags().StringVar(&flags.BookID, "book", "", "Book ID")
	list.MarkFlagRequired("book")

	show := &cobra.Command{
		Use:   "show <chapter-id>",
		Short: "Print a translated chapter",
		Args:  cobra.ExactArgs(1),
		RunE:  run(actions.ChapterShow),
	}
	show.Flags().BoolVar(&flags.JSON, "json", false, "Print the chapter as JSON")

	cmd.AddCommand(list, show)
	return cmd
}

func exportCommand(flags *Flags, action Action) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chapters of a book as text files",
		Args:  cobra.NoArgs,
		RunE:  run(action),
	}
	cmd.Flags().StringVar(&flags.BookID, "book", "", "Book ID")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Output directory (an existing one is archived first)")
	cmd.MarkFlagRequired("book")
	return cmd
}

func run(action Action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if action == nil {
			return fmt.Errorf("command %q is not available", cmd.CommandPath())
		}
		return action(cmd, args)
	}
}
