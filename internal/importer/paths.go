package importer

import (
	"path/filepath"
	"strings"
)

// ValidatePath ensures the path is within the expected root directory.
// Returns ErrPathTraversal if the path would escape the root.
func ValidatePath(path, expectedRoot string) error {
	cleanPath := filepath.Clean(path)
	cleanRoot := filepath.Clean(expectedRoot)

	prefix := cleanRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}

	if cleanPath != cleanRoot && !strings.HasPrefix(cleanPath, prefix) {
		return ErrPathTraversal
	}
	return nil
}

// validateTarget accepts target if it lies under any of roots. No roots
// means no restriction.
func validateTarget(target string, roots []string) error {
	if len(roots) == 0 {
		return nil
	}
	for _, root := range roots {
		if ValidatePath(target, root) == nil {
			return nil
		}
	}
	return ErrPathTraversal
}
