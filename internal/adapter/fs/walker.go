package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"autocorrect/internal/port"
)

// Walker lists candidate files. Include and ignore patterns are matched
// against paths relative to the project root, wherever the walk starts.
type Walker struct {
	root     string
	includes []string
	ignorer  port.Ignorer
}

// NewWalker creates a walker for the project at root. ignorer may be nil.
func NewWalker(root string, includes []string, ignorer port.Ignorer) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Walker{
		root:     root,
		includes: includes,
		ignorer:  ignorer,
	}
}

// Walk lists the files under dir that pass the include and ignore rules.
// Returned paths are joined onto dir as given.
func (w *Walker) Walk(dir string) ([]port.FileInfo, error) {
	var files []port.FileInfo

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == dir {
				return nil
			}
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			if rel, ok := w.relPath(path); ok && w.isIgnored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, ok := w.relPath(path)
		if !ok {
			// outside the project: match against the walked directory
			if rel, err = filepath.Rel(dir, path); err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
		}
		if w.shouldInclude(rel) && !w.isIgnored(rel, false) {
			info, err := d.Info()
			if err != nil {
				return err
			}
			files = append(files, port.FileInfo{
				Path:    path,
				ModTime: info.ModTime().Unix(),
				Size:    info.Size(),
			})
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return files, nil
}

// Collect expands paths: directories are walked, files named explicitly
// skip the include patterns but not the ignore files. Duplicates are
// dropped and order is kept.
func (w *Walker) Collect(paths []string) ([]port.FileInfo, error) {
	seen := make(map[string]bool)
	var files []port.FileInfo
	add := func(f port.FileInfo) {
		key := filepath.Clean(f.Path)
		if seen[key] {
			return
		}
		seen[key] = true
		files = append(files, f)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if rel, ok := w.relPath(p); ok && w.isIgnored(rel, false) {
				continue
			}
			add(port.FileInfo{Path: p, ModTime: info.ModTime().Unix(), Size: info.Size()})
			continue
		}
		if rel, ok := w.relPath(p); ok && w.isIgnored(rel, true) {
			continue
		}
		found, err := w.Walk(p)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

// relPath returns path relative to the project root, slash separated.
// ok is false when path lies outside the root.
func (w *Walker) relPath(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Walker) isIgnored(relPath string, isDir bool) bool {
	return w.ignorer != nil && w.ignorer.IsIgnored(relPath, isDir)
}

func (w *Walker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// OS reads and writes files on the local disk.
type OS struct{}

func (OS) ReadFile(path string) (string, error) {
	return ReadFile(path)
}

// WriteFile replaces the content of path, keeping its permission bits.
func (OS) WriteFile(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, []byte(content), mode)
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
