package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	t.Cleanup(viper.Reset)

	flags := NewFlags()
	cmd := CreateRootCommand(flags, Actions{})

	if cmd.Use != "thienthu" {
		t.Errorf("Expected Use to be 'thienthu', got %s", cmd.Use)
	}
	if !strings.Contains(cmd.Short, "Vietnamese") {
		t.Errorf("Expected Short description to mention Vietnamese")
	}

	// Test that subcommands and their flags are set up
	flagTests := []struct {
		path []string
		flag string
	}{
		{[]string{"translate"}, "book"},
		{[]string{"translate"}, "chapter"},
		{[]string{"translate"}, "batch"},
		{[]string{"translate"}, "concurrency"},
		{[]string{"translate"}, "json"},
		{[]string{"glossary", "extract"}, "book"},
		{[]string{"glossary", "extract"}, "chapter"},
		{[]string{"glossary", "list"}, "book"},
		{[]string{"book", "create"}, "title"},
		{[]string{"book", "create"}, "author"},
		{[]string{"chapter", "list"}, "book"},
		{[]string{"chapter", "show"}, "json"},
		{[]string{"export"}, "output"},
	}

	for _, tt := range flagTests {
		name := strings.Join(tt.path, "_") + "_" + tt.flag
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find(tt.path)
			if err != nil {
				t.Fatalf("command %v not found: %v", tt.path, err)
			}
			if sub.Flags().Lookup(tt.flag) == nil {
				t.Errorf("Expected flag --%s on %v", tt.flag, tt.path)
			}
		})
	}

	for _, name := range []string{"config", "model", "db", "log-level", "log-format"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

func TestCreateRootCommand_Dispatch(t *testing.T) {
	t.Cleanup(viper.Reset)

	var gotArgs []string
	var gotBook string
	flags := NewFlags()
	cmd := CreateRootCommand(flags, Actions{
		Translate: func(cmd *cobra.Command, args []string) error {
			gotArgs = args
			gotBook = flags.BookID
			return nil
		},
	})

	cmd.SetArgs([]string{"translate", "--book", "b1", "-j", "4", "chapter.txt"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if len(gotArgs) != 1 || gotArgs[0] != "chapter.txt" || gotBook != "b1" {
		t.Errorf("translate got args %v book %q", gotArgs, gotBook)
	}
	if flags.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", flags.Concurrency)
	}
}

func TestCreateRootCommand_MissingAction(t *testing.T) {
	t.Cleanup(viper.Reset)

	cmd := CreateRootCommand(NewFlags(), Actions{})
	cmd.SetArgs([]string{"models"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "not available") {
		t.Errorf("Expected not available error, got %v", err)
	}
}

func TestCreateRootCommand_ActionError(t *testing.T) {
	t.Cleanup(viper.Reset)

	boom := errors.New("boom")
	cmd := CreateRootCommand(NewFlags(), Actions{
		BookList: func(*cobra.Command, []string) error { return boom },
	})
	cmd.SetArgs([]string{"book", "list"})
	if err := cmd.Execute(); !errors.Is(err, boom) {
		t.Errorf("Execute() = %v, want boom", err)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupPersistentFlags(cmd, flags)

	cmd.PersistentFlags().Set("model", "gemini-2.5-pro")
	cmd.PersistentFlags().Set("db", "/tmp/test.db")
	cmd.PersistentFlags().Set("log-level", "debug")

	if viper.GetString("llm.model") != "gemini-2.5-pro" {
		t.Errorf("Expected llm.model to be gemini-2.5-pro, got %s", viper.GetString("llm.model"))
	}
	if viper.GetString("db.path") != "/tmp/test.db" {
		t.Errorf("Expected db.path to be /tmp/test.db, got %s", viper.GetString("db.path"))
	}
	if viper.GetString("log.level") != "debug" {
		t.Errorf("Expected log.level to be debug, got %s", viper.GetString("log.level"))
	}
}

func TestFlagsHaveUsage(t *testing.T) {
	t.Cleanup(viper.Reset)

	root := CreateRootCommand(NewFlags(), Actions{})
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if strings.TrimSpace(f.Usage) == "" {
				t.Errorf("flag --%s of %q has no usage text", f.Name, cmd.CommandPath())
			}
		})
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}
