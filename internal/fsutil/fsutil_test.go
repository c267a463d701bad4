package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resmon/internal/logging"
)

func TestGetOutputDir(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultDir string
		wantEnv    bool
	}{
		{
			name:       "uses environment variable",
			envValue:   "/custom/reports",
			defaultDir: "/default/reports",
			wantEnv:    true,
		},
		{
			name:       "uses default when env not set",
			envValue:   "",
			defaultDir: "/default/reports",
			wantEnv:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("RESMON_OUTPUT_DIR", tt.envValue)
			} else {
				t.Setenv("RESMON_OUTPUT_DIR", "")
				_ = os.Unsetenv("RESMON_OUTPUT_DIR")
			}

			got := GetOutputDir(tt.defaultDir)

			if tt.wantEnv && got != tt.envValue {
				t.Errorf("GetOutputDir() = %v, want env value %v", got, tt.envValue)
			}
			if !tt.wantEnv && got != tt.defaultDir {
				t.Errorf("GetOutputDir() = %v, want %v", got, tt.defaultDir)
			}
		})
	}
}

func TestGetOutputDir_RelativeBecomesAbsolute(t *testing.T) {
	_ = os.Unsetenv("RESMON_OUTPUT_DIR")
	got := GetOutputDir("reports")
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %v", got)
	}
}

func TestEnsureDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	if err := EnsureDirectory(dir); err != nil {
		t.Fatalf("EnsureDirectory() error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}

	// Second call on an existing directory must succeed
	if err := EnsureDirectory(dir); err != nil {
		t.Errorf("EnsureDirectory() on existing dir error: %v", err)
	}
}

func TestAtomicWriteFile(t *testing.T) {
	logger := logging.NewLogger(logging.LevelInfo)
	dir := t.TempDir()
	target := filepath.Join(dir, "report.pdf")

	data := []byte("content")
	if err := AtomicWriteFile(target, data, 0o600, logger); err != nil {
		t.Fatalf("AtomicWriteFile() error: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read target: %v", err)
	}
	if string(got) != "content" {
		t.Errorf("content = %q, want %q", got, "content")
	}

	// No temp residue left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestAtomicWriteFile_Overwrite(t *testing.T) {
	logger := logging.NewLogger(logging.LevelInfo)
	target := filepath.Join(t.TempDir(), "report.pdf")

	if err := AtomicWriteFile(target, []byte("first"), 0o600, logger); err != nil {
		t.Fatalf("first write error: %v", err)
	}
	if err := AtomicWriteFile(target, []byte("second"), 0o600, logger); err != nil {
		t.Fatalf("second write error: %v", err)
	}

	got, _ := os.ReadFile(target)
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
}

func TestAtomicWriteFile_MissingDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "missing", "report.pdf")

	err := AtomicWriteFile(target, []byte("x"), 0o600, nil)
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}
