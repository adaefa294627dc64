package pdfdoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateFileRejectsOversizedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.pdf")
	if err := os.WriteFile(path, make([]byte, 2048), 0o600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	err := ValidateFile(path, 1024)
	if err == nil {
		t.Fatal("expected error for a file over the size limit")
	}
	if !strings.Contains(err.Error(), "file too large") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateFileBasicChecks(t *testing.T) {
	dir := t.TempDir()

	emptyPDF := filepath.Join(dir, "empty.pdf")
	if err := os.WriteFile(emptyPDF, nil, 0o600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	notPDF := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notPDF, []byte("text"), 0o600); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"empty path", "", "path cannot be empty"},
		{"missing file", filepath.Join(dir, "absent.pdf"), "does not exist"},
		{"directory", dir + "/", "not a file"},
		{"wrong extension", notPDF, "not a PDF"},
		{"empty file", emptyPDF, "is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.path, 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}
