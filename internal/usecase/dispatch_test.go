package usecase

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// memFS is an in-memory FileReader/FileWriter.
type memFS struct {
	mu     sync.Mutex
	files  map[string]string
	writes map[string]int
}

func newMemFS(files map[string]string) *memFS {
	return &memFS{files: files, writes: make(map[string]int)}
}

func (m *memFS) ReadFile(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.files[path]
	if !ok {
		return "", os.ErrNotExist
	}
	return text, nil
}

func (m *memFS) WriteFile(path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
	m.writes[path]++
	return nil
}

// memCache is an in-memory LintCache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]string
	hits    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]string)}
}

func (c *memCache) IsClean(path, fingerprint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[path] == fingerprint {
		c.hits++
		return true
	}
	return false
}

func (c *memCache) MarkClean(path, fingerprint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = fingerprint
	return nil
}

func (c *memCache) Forget(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
	return nil
}

func (c *memCache) Close() error { return nil }

func testFiles() map[string]string {
	return map[string]string{
		"a.go":     "// 第1行注释\n",
		"b.go":     "// 已经正确的注释\n",
		"c.go":     "x /* 没有结束",
		"d.bin":    "第1",
		"e.md":     "使用Go语言\n",
		"gone.txt": "",
	}
}

func TestDispatcher_Lint(t *testing.T) {
	fsys := newMemFS(testFiles())
	delete(fsys.files, "gone.txt")

	var progressed int
	d := NewDispatcher(newTestPipeline(), fsys, fsys, nil, zap.NewNop(), DispatchOptions{
		Mode:     ModeLint,
		Jobs:     2,
		Progress: func(FileReport) { progressed++ },
	})
	paths := []string{"a.go", "b.go", "c.go", "d.bin", "e.md", "gone.txt"}
	summary := d.Run(context.Background(), paths)

	require.Len(t, summary.Reports, len(paths))
	for i, r := range summary.Reports {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.Equal(t, len(paths), progressed)
	assert.Equal(t, 5, summary.Files)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, summary.Errors)
	assert.Equal(t, 4, summary.Diagnostics)

	assert.Len(t, summary.Reports[0].Result.Diagnostics, 2)
	assert.Empty(t, summary.Reports[1].Result.Diagnostics)
	assert.True(t, summary.Reports[2].Result.Errored())
	assert.True(t, summary.Reports[3].Skipped)
	assert.ErrorIs(t, summary.Reports[5].Err, os.ErrNotExist)
	assert.Empty(t, fsys.writes, "lint must not write")
}

func TestDispatcher_Fix(t *testing.T) {
	fsys := newMemFS(testFiles())
	d := NewDispatcher(newTestPipeline(), fsys, fsys, nil, nil, DispatchOptions{Mode: ModeFix})

	summary := d.Run(context.Background(), []string{"a.go", "b.go", "c.go", "e.md"})

	assert.Equal(t, 2, summary.Written)
	assert.Equal(t, "// 第 1 行注释\n", fsys.files["a.go"])
	assert.Equal(t, "使用 Go 语言\n", fsys.files["e.md"])
	assert.Equal(t, "x /* 没有结束", fsys.files["c.go"], "failed parse must keep the file")
	assert.Zero(t, fsys.writes["b.go"], "unchanged file must not be written")
	assert.Zero(t, fsys.writes["c.go"])
}

func TestDispatcher_ForcedLanguage(t *testing.T) {
	fsys := newMemFS(testFiles())
	d := NewDispatcher(newTestPipeline(), fsys, fsys, nil, nil, DispatchOptions{Mode: ModeFormat, Lang: "text"})

	summary := d.Run(context.Background(), []string{"d.bin"})
	require.Len(t, summary.Reports, 1)
	assert.False(t, summary.Reports[0].Skipped)
	assert.Equal(t, "第 1", summary.Reports[0].Result.Text)
}

func TestDispatcher_LintCache(t *testing.T) {
	fsys := newMemFS(testFiles())
	cache := newMemCache()
	opts := DispatchOptions{Mode: ModeLint}

	first := NewDispatcher(newTestPipeline(), fsys, fsys, cache, nil, opts).Run(context.Background(), []string{"a.go", "b.go"})
	assert.Equal(t, 0, first.Cached)
	assert.Contains(t, cache.entries, "b.go")
	assert.NotContains(t, cache.entries, "a.go", "files with diagnostics are not cached")

	second := NewDispatcher(newTestPipeline(), fsys, fsys, cache, nil, opts).Run(context.Background(), []string{"a.go", "b.go"})
	assert.Equal(t, 1, second.Cached)
	assert.True(t, second.Reports[1].Cached)
	assert.Len(t, second.Reports[0].Result.Diagnostics, 2)

	// a different rule set invalidates the entry
	third := NewDispatcher(newTestPipeline("space-word"), fsys, fsys, cache, nil, opts).Run(context.Background(), []string{"b.go"})
	assert.Equal(t, 0, third.Cached)
}

func TestDispatcher_CanceledContext(t *testing.T) {
	fsys := newMemFS(testFiles())
	d := NewDispatcher(newTestPipeline(), fsys, fsys, nil, nil, DispatchOptions{Mode: ModeFix})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary := d.Run(ctx, []string{"a.go", "e.md"})

	for _, r := range summary.Reports {
		assert.True(t, errors.Is(r.Err, context.Canceled))
	}
	assert.Empty(t, fsys.writes)
}
