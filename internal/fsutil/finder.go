// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindFilesByExtension recursively searches the given root path for all
// files ending with the specified extension and returns their full paths in
// sorted order. Sorting is load-bearing: duplicate precedence and alias
// tie-breaking both depend on a fixed file order.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// IsTestScoped reports whether a resource file path is test-scoped: either
// any path segment is "test" or the file name carries a _test suffix before
// the extension.
func IsTestScoped(path string) bool {
	clean := filepath.ToSlash(path)
	for _, seg := range strings.Split(clean, "/") {
		if seg == "test" {
			return true
		}
	}
	base := filepath.Base(clean)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return strings.HasSuffix(base, "_test")
}
