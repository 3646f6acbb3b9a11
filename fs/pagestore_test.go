package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/doccrawl"
	"github.com/fwojciec/doccrawl/fs"
	"github.com/fwojciec/doccrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Story: Atomic File Storage
// The store uses temp directory for atomic updates

func markdownConverter() *mock.Converter {
	return &mock.Converter{
		ConvertFn:   func(html, _ string) (string, error) { return "# converted\n\n" + html, nil },
		ExtensionFn: func() string { return ".md" },
	}
}

func page(url string) *doccrawl.Document {
	return &doccrawl.Document{
		URL:         url,
		Title:       "API Reference",
		Text:        "Welcome to the API.",
		ContentHTML: "<p>Welcome to the API.</p>",
		ScrapedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Strategy:    doccrawl.StrategySemantic,
		ContentHash: "abc123",
	}
}

func TestFileStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewFileStore(base, "output", markdownConverter())

	// When I save a page
	err := store.Save(context.Background(), page("https://example.com/docs/api"))

	// Then the file exists in the temp directory only
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "output.tmp", "docs", "api.md"))
	require.NoError(t, err, "file should exist in temp directory")
	_, err = os.Stat(filepath.Join(base, "output", "docs", "api.md"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestFileStore_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	// Given a previous output and a store with saved pages
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "output"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "output", "stale.md"), []byte("old"), 0o644))

	store := fs.NewFileStore(base, "output", markdownConverter())
	require.NoError(t, store.Save(context.Background(), page("https://example.com/a")))

	// When I commit
	require.NoError(t, store.Commit())

	// Then the final directory holds exactly the new pages
	_, err := os.Stat(filepath.Join(base, "output", "a.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "output", "stale.md"))
	assert.True(t, os.IsNotExist(err), "previous output should be replaced")
	_, err = os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestFileStore_CommitWithoutPagesCreatesEmptyDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "output", nil)

	require.NoError(t, store.Commit())

	entries, err := os.ReadDir(filepath.Join(base, "output"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "output", markdownConverter())
	require.NoError(t, store.Save(context.Background(), page("https://example.com/a")))

	require.NoError(t, store.Abort())

	_, err := os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
}

func TestFileStore_IncludesFrontmatter(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "output", markdownConverter())
	require.NoError(t, store.Save(context.Background(), page("https://example.com/intro")))
	require.NoError(t, store.Commit())

	content, err := os.ReadFile(filepath.Join(base, "output", "intro.md"))
	require.NoError(t, err)

	var meta struct {
		Source   string    `yaml:"source"`
		Title    string    `yaml:"title"`
		Crawled  time.Time `yaml:"crawled"`
		Strategy string    `yaml:"strategy"`
		Hash     string    `yaml:"hash"`
	}
	parts := splitFrontmatter(t, string(content))
	require.NoError(t, yaml.Unmarshal([]byte(parts[0]), &meta))

	assert.Equal(t, "https://example.com/intro", meta.Source)
	assert.Equal(t, "API Reference", meta.Title)
	assert.True(t, meta.Crawled.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, doccrawl.StrategySemantic, meta.Strategy)
	assert.Equal(t, "abc123", meta.Hash)
	assert.Equal(t, "# converted\n\n<p>Welcome to the API.</p>\n", parts[1])
}

func TestFileStore_WritesTextWithoutConverter(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "output", nil)
	require.NoError(t, store.Save(context.Background(), page("https://example.com/docs/")))
	require.NoError(t, store.Commit())

	content, err := os.ReadFile(filepath.Join(base, "output", "docs", "index.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the API.\n", splitFrontmatter(t, string(content))[1])
}

func TestFileStore_ReturnsConverterErrors(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(t.TempDir(), "output", &mock.Converter{
		ConvertFn:   func(_, _ string) (string, error) { return "", errors.New("boom") },
		ExtensionFn: func() string { return ".md" },
	})

	err := store.Save(context.Background(), page("https://example.com/a"))

	assert.EqualError(t, err, "boom")
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(t.TempDir(), "output", nil)

	err := store.Save(context.Background(), page("https://example.com/../../../etc/passwd"))

	require.Error(t, err, "path traversal should be rejected")
	assert.Contains(t, err.Error(), "path traversal")
}

func TestFileStore_RejectsDocumentWithoutURL(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(t.TempDir(), "output", nil)

	err := store.Save(context.Background(), &doccrawl.Document{Title: "No URL"})

	assert.Equal(t, doccrawl.EINVALID, doccrawl.ErrorCode(err))
}

// splitFrontmatter returns the YAML block and the body of a page file.
func splitFrontmatter(t *testing.T, content string) [2]string {
	t.Helper()

	rest, ok := strings.CutPrefix(content, "---\n")
	require.True(t, ok, "missing frontmatter")
	meta, body, ok := strings.Cut(rest, "\n---\n\n")
	require.True(t, ok, "unterminated frontmatter")
	return [2]string{meta + "\n", body}
}

func TestSaveAll(t *testing.T) {
	t.Parallel()

	t.Run("saves every document then commits", func(t *testing.T) {
		t.Parallel()

		var saved []string
		committed := false
		store := &mock.PageStore{
			SaveFn: func(_ context.Context, doc *doccrawl.Document) error {
				saved = append(saved, doc.URL)
				return nil
			},
			CommitFn: func() error { committed = true; return nil },
		}

		err := fs.SaveAll(context.Background(), store, []*doccrawl.Document{
			page("https://example.com/a"),
			page("https://example.com/b"),
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, saved)
		assert.True(t, committed)
	})

	t.Run("aborts on the first failure", func(t *testing.T) {
		t.Parallel()

		calls := 0
		aborted := false
		store := &mock.PageStore{
			SaveFn: func(_ context.Context, _ *doccrawl.Document) error {
				calls++
				return errors.New("disk full")
			},
			AbortFn: func() error { aborted = true; return nil },
			CommitFn: func() error {
				t.Fatal("commit after a failed save")
				return nil
			},
		}

		err := fs.SaveAll(context.Background(), store, []*doccrawl.Document{
			page("https://example.com/a"),
			page("https://example.com/b"),
		})

		assert.ErrorContains(t, err, "disk full")
		assert.Equal(t, 1, calls)
		assert.True(t, aborted)
	})
}
