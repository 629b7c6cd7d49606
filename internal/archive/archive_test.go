package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestArchiveDir(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()

	// Create export directory with some test files
	exportDir := filepath.Join(tmpDir, "export")
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		t.Fatalf("Failed to create export directory: %v", err)
	}

	// Create some test files in export directory
	testFile := filepath.Join(exportDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Create a subdirectory with a file
	subDir := filepath.Join(exportDir, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	subFile := filepath.Join(subDir, "subfile.txt")
	if err := os.WriteFile(subFile, []byte("sub content"), 0644); err != nil {
		t.Fatalf("Failed to create sub file: %v", err)
	}

	// Archive the export directory
	archived, err := ArchiveDir(exportDir)
	if err != nil {
		t.Fatalf("ArchiveDir failed: %v", err)
	}

	// Check that export directory no longer exists
	if _, err := os.Stat(exportDir); !os.IsNotExist(err) {
		t.Error("Export directory still exists after archiving")
	}

	// Check that archive directory was created
	archiveDir := filepath.Join(tmpDir, "archive")
	if _, err := os.Stat(archiveDir); os.IsNotExist(err) {
		t.Error("Archive directory was not created")
	}

	// Check that archived directory exists with timestamp
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		t.Fatalf("Failed to read archive directory: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry in archive directory, got %d", len(entries))
	}

	// Verify the archived directory name starts with "export-"
	archivedName := entries[0].Name()
	if !strings.HasPrefix(archivedName, "export-") {
		t.Errorf("Archived directory name doesn't start with 'export-': %s", archivedName)
	}
	if filepath.Base(archived) != archivedName {
		t.Errorf("ArchiveDir returned %s, archive holds %s", archived, archivedName)
	}

	// Verify timestamp format (should be export-YYYYMMDD-HHMMSS)
	parts := strings.Split(archivedName, "-")
	if len(parts) < 3 {
		t.Errorf("Invalid archive name format: %s", archivedName)
	}

	// Check that archived files exist
	archivedPath := filepath.Join(archiveDir, archivedName)
	archivedTestFile := filepath.Join(archivedPath, "test.txt")
	if _, err := os.Stat(archivedTestFile); os.IsNotExist(err) {
		t.Error("Test file not found in archive")
	}

	archivedSubFile := filepath.Join(archivedPath, "subdir", "subfile.txt")
	if _, err := os.Stat(archivedSubFile); os.IsNotExist(err) {
		t.Error("Sub file not found in archive")
	}
}

func TestArchiveDir_NonExistentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	nonExistentDir := filepath.Join(tmpDir, "nonexistent")

	_, err := ArchiveDir(nonExistentDir)
	if err == nil {
		t.Error("Expected error for non-existent directory")
	}

	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestArchiveDir_MultipleArchives(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()

	// Archive twice to ensure unique timestamps
	for i := 0; i < 2; i++ {
		// Create export directory
		exportDir := filepath.Join(tmpDir, "export")
		if err := os.MkdirAll(exportDir, 0755); err != nil {
			t.Fatalf("Failed to create export directory: %v", err)
		}

		// Create a test file
		testFile := filepath.Join(exportDir, "test.txt")
		content := []byte("test content " + string(rune(i)))
		if err := os.WriteFile(testFile, content, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}

		// Small delay to ensure different timestamps
		if i == 1 {
			time.Sleep(10 * time.Millisecond)
		}

		// Archive
		if _, err := ArchiveDir(exportDir); err != nil {
			t.Fatalf("ArchiveDir failed on iteration %d: %v", i, err)
		}
	}

	// Check that we have 2 archives
	archiveDir := filepath.Join(tmpDir, "archive")
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		t.Fatalf("Failed to read archive directory: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries in archive directory, got %d", len(entries))
	}

	// Verify both archives have different names
	if entries[0].Name() == entries[1].Name() {
		t.Error("Archive names are not unique")
	}
}
