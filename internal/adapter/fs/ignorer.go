package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreFiles are read from the project root, in order.
var IgnoreFiles = []string{".gitignore", ".autocorrectignore"}

type ignoreRule struct {
	glob    string
	negate  bool
	dirOnly bool
}

// Ignorer matches root-relative paths against gitignore-style patterns.
// It is immutable once built and safe for concurrent use.
type Ignorer struct {
	rules []ignoreRule
}

// NewIgnorer reads the ignore files under root and appends the extra
// patterns, which follow the same syntax.
func NewIgnorer(root string, extra ...string) (*Ignorer, error) {
	ig := &Ignorer{}
	for _, name := range IgnoreFiles {
		f, err := os.Open(filepath.Join(root, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			ig.add(scanner.Text())
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}
	for _, p := range extra {
		ig.add(p)
	}
	return ig, nil
}

// NewIgnorerFromPatterns builds an ignorer without touching the disk.
func NewIgnorerFromPatterns(patterns ...string) *Ignorer {
	ig := &Ignorer{}
	for _, p := range patterns {
		ig.add(p)
	}
	return ig
}

func (ig *Ignorer) add(line string) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	var r ignoreRule
	if strings.HasPrefix(line, "!") {
		r.negate = true
		line = line[1:]
	} else if strings.HasPrefix(line, `\`) {
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	if line == "" {
		return
	}
	// a slash anywhere but the end anchors the pattern to the root
	if strings.Contains(line, "/") {
		line = strings.TrimPrefix(line, "/")
	} else {
		line = "**/" + line
	}
	r.glob = line
	ig.rules = append(ig.rules, r)
}

// IsIgnored reports whether relPath, or any directory above it, is ignored.
func (ig *Ignorer) IsIgnored(relPath string, isDir bool) bool {
	relPath = strings.TrimPrefix(filepath.ToSlash(path.Clean(relPath)), "./")
	if relPath == "." || relPath == "" || len(ig.rules) == 0 {
		return false
	}
	parts := strings.Split(relPath, "/")
	for i := 1; i < len(parts); i++ {
		if ig.match(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return ig.match(relPath, isDir)
}

// match applies the rules in order; the last matching rule wins.
func (ig *Ignorer) match(p string, isDir bool) bool {
	ignored := false
	for _, r := range ig.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if ok, err := doublestar.Match(r.glob, p); err == nil && ok {
			ignored = !r.negate
		}
	}
	return ignored
}
