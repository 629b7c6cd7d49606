package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Entry
		wantErr     bool
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace and comments",
			fileContent: "   \n\t\r\n # nothing here\n",
			want:        nil,
		},
		{
			name: "files only",
			fileContent: `0001.txt
0002.txt`,
			want: []Entry{
				{Path: "0001.txt", Line: 1},
				{Path: "0002.txt", Line: 2},
			},
		},
		{
			name: "mixed format",
			fileContent: `# volume one
0001.txt = 1f0c6a4e-0000-4000-8000-000000000001

  sub/0002.txt  
`,
			want: []Entry{
				{Path: "0001.txt", ChapterID: "1f0c6a4e-0000-4000-8000-000000000001", Line: 2},
				{Path: "sub/0002.txt", Line: 4},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "a.txt\r\nb.txt = c1\r\n",
			want: []Entry{
				{Path: "a.txt", Line: 1},
				{Path: "b.txt", ChapterID: "c1", Line: 2},
			},
		},
		{
			name:        "absolute path kept",
			fileContent: "/srv/novel/0003.txt",
			want: []Entry{
				{Path: "/srv/novel/0003.txt", Line: 1},
			},
		},
		{
			name:        "missing chapter id",
			fileContent: "a.txt =",
			wantErr:     true,
		},
		{
			name:        "missing path",
			fileContent: "= c1",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			tmpFile := filepath.Join(tmpDir, "batch.txt")
			if err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadBatchFile(tmpFile)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadBatchFile() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			for i := range tt.want {
				if !filepath.IsAbs(tt.want[i].Path) {
					tt.want[i].Path = filepath.Join(tmpDir, tt.want[i].Path)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_FileNotFound(t *testing.T) {
	_, err := ReadBatchFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}
