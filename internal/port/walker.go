package port

type FileWalker interface {
	Walk(root string) ([]FileInfo, error)

	Collect(paths []string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

type FileReader interface {
	ReadFile(path string) (string, error)
}

type FileWriter interface {
	WriteFile(path string, content string) error
}

// Ignorer is an immutable predicate over paths relative to the project root.
type Ignorer interface {
	IsIgnored(relPath string, isDir bool) bool
}
