package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Concurrency", flags.Concurrency, 2},
		{"OutputDir", flags.OutputDir, "export"},
		{"BookID", flags.BookID, ""},
		{"ChapterID", flags.ChapterID, ""},
		{"BatchFile", flags.BatchFile, ""},
		{"JSON", flags.JSON, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}
