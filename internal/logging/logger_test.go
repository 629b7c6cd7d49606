package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

func TestNew_AutoFormatUsesJSONWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "auto", Output: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("model call failed", zap.String("key_suffix", "abcd"), zap.Int("attempt", 2))
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug filtered):\n%s", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.UnmarshalString(lines[0], &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "model call failed" || entry["key_suffix"] != "abcd" || entry["attempt"] != float64(2) {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Debug("segmented chapter", zap.Int("paragraphs", 12))
	out := buf.String()
	if !strings.Contains(out, "segmented chapter") || !strings.Contains(out, `"paragraphs": 12`) {
		t.Errorf("unexpected console output: %q", out)
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "thienthu.log")
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf, File: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Warn("rotating key")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"rotating key"`) {
		t.Errorf("log file content = %q", data)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []Options{
		{Level: "verbose"},
		{Format: "xml"},
	}
	for _, opts := range tests {
		if _, err := New(opts); err == nil {
			t.Errorf("New(%+v) expected error", opts)
		}
	}
}
