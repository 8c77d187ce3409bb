// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// FindPackages searches root recursively for directories whose name ends with
// extension, such as ".xcodeproj" bundles. Matching directories are not
// descended into. maxDepth limits how many levels below root are searched;
// zero or less means unlimited. Results are sorted.
func FindPackages(root, extension string, maxDepth int) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasSuffix(d.Name(), extension) {
			found = append(found, path)
			return filepath.SkipDir
		}
		if maxDepth > 0 {
			depth, err := depthBelow(root, path)
			if err != nil {
				return err
			}
			if depth >= maxDepth {
				return filepath.SkipDir
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(found)
	return found, nil
}

// depthBelow returns how many levels path lies below root; root itself is 0.
func depthBelow(root, path string) (int, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0, err
	}
	if rel == "." {
		return 0, nil
	}
	return strings.Count(rel, string(filepath.Separator)) + 1, nil
}
