package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"resmon/internal/logging"
)

const (
	// DefaultOutputDir is the default location for generated reports
	DefaultOutputDir = "reports"
	// DefaultDirPermissions is the default permission for output directories
	DefaultDirPermissions = 0o750
	// DefaultFilePermissions is the default permission for generated files
	DefaultFilePermissions = 0o600
)

// GetOutputDir returns the report output directory from the environment
// or the provided default. It returns an absolute path when possible.
func GetOutputDir(defaultDir string) string {
	dir := defaultDir
	if env := os.Getenv("RESMON_OUTPUT_DIR"); env != "" {
		dir = env
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// EnsureDirectory creates the directory if it doesn't exist.
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// AtomicWriteFile writes data to a file atomically by first writing to a temp
// file in the same directory and then renaming it to the target path. The
// target is never observable in a partially written state.
func AtomicWriteFile(path string, data []byte, perm os.FileMode, logger *logging.Logger) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			if logger != nil {
				logger.Warn("fsutil.cleanup.failed", "Failed to remove temp file", map[string]interface{}{
					"path":  tmpPath,
					"error": removeErr.Error(),
				})
			}
		}
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
