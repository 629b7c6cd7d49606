package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one chapter file of a batch.
type Entry struct {
	// Path is the chapter file. Relative paths are resolved against the
	// directory of the batch file.
	Path string
	// ChapterID, when set, names an existing chapter to update instead of
	// creating a new one.
	ChapterID string
	// Line is the 1-based line number in the batch file.
	Line int
}

// ReadBatchFile reads chapter entries from a file.
// Supports formats:
// - File only: "chapters/0001.txt" (a new chapter is created)
// - With chapter: "chapters/0001.txt = <chapter-id>" (that chapter is updated)
// - Comments: lines starting with "#" are ignored
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return parse(string(content), filepath.Dir(filename))
}

func parse(content, baseDir string) ([]Entry, error) {
	var entries []Entry

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := Entry{Path: line, Line: i + 1}
		if path, chapterID, ok := strings.Cut(line, "="); ok {
			entry.Path = strings.TrimSpace(path)
			entry.ChapterID = strings.TrimSpace(chapterID)
			if entry.ChapterID == "" {
				return nil, fmt.Errorf("line %d: missing chapter id after '='", i+1)
			}
		}
		if entry.Path == "" {
			return nil, fmt.Errorf("line %d: missing file path", i+1)
		}
		if !filepath.IsAbs(entry.Path) {
			entry.Path = filepath.Join(baseDir, entry.Path)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
