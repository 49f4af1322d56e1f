// Package dictionary provides word list sources for the search service.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kailas-cloud/wordguess/internal/domain"
)

// fileExt is the word list file extension.
const fileExt = ".txt"

// FileSource reads word lists from <dir>/<name>.txt.
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Load reads the named word list in full.
func (s *FileSource) Load(_ context.Context, name string) ([]byte, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", domain.ErrDictionaryNotFound, name)
	}
	path := filepath.Join(s.dir, name+fileExt)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDictionaryNotFound, name)
		}
		return nil, fmt.Errorf("read word list %q: %w", name, err)
	}
	return data, nil
}

// Names lists the available word lists, sorted.
func (s *FileSource) Names(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list word lists: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// HealthCheck verifies that the word list directory is readable.
func (s *FileSource) HealthCheck(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("word list dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("word list dir %s is not a directory", s.dir)
	}
	return nil
}

// validName rejects names that could escape the word list directory.
func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}
