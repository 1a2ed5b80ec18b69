// Package loader reads module documents from a file or a directory.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one module document read from disk.
type Document struct {
	Path   string
	Source []byte
	Err    error
}

func isYAML(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// CollectYAMLFiles returns a list of YAML file paths from the given path.
// If path is a file, it returns a single-element slice.
// If path is a directory, it returns all .yaml and .yml files in the directory (non-recursive).
func CollectYAMLFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		if !isYAML(path) {
			return nil, fmt.Errorf("file %q must have a .yaml or .yml extension", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}

// LoadDocuments reads every YAML file under path, returning per-file
// results (including read errors) so callers can continue on failure.
// Only errors related to accessing the path (stat/readdir) are returned directly.
func LoadDocuments(path string) ([]Document, error) {
	files, err := CollectYAMLFiles(path)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		docs = append(docs, Document{Path: f, Source: data, Err: err})
	}
	return docs, nil
}

// OutputPath returns the .spv path next to a document, or inside dir when
// dir is set.
func OutputPath(doc, dir string) string {
	base := strings.TrimSuffix(filepath.Base(doc), filepath.Ext(doc)) + ".spv"
	if dir == "" {
		dir = filepath.Dir(doc)
	}
	return filepath.Join(dir, base)
}
