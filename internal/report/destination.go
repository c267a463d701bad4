package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Extension is the file extension every report destination carries.
const Extension = ".pdf"

// ResolveDestination turns a caller-supplied report name into an
// absolute path inside outputDir. Directory components and path
// traversal sequences in name are stripped, and the report extension
// is appended when missing. The returned path never escapes outputDir.
func ResolveDestination(outputDir, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("report name is empty")
	}

	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("report name %q resolves to no file name", name)
	}

	if !strings.EqualFold(filepath.Ext(base), Extension) {
		base += Extension
	}

	dest := filepath.Join(outputDir, base)

	rel, err := filepath.Rel(outputDir, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("report destination %q escapes output directory", name)
	}

	return dest, nil
}
