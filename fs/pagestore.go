package fs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/doccrawl"
	"gopkg.in/yaml.v3"
)

var _ doccrawl.PageStore = (*FileStore)(nil)

// FileStore implements doccrawl.PageStore with atomic update semantics.
// Pages are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string

	// conv renders content HTML. Nil writes the extracted text.
	conv doccrawl.Converter
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string, conv doccrawl.Converter) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
		conv:    conv,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes doc under a path derived from its URL.
func (s *FileStore) Save(ctx context.Context, doc *doccrawl.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	ext := ".txt"
	body := doc.Text
	if s.conv != nil && doc.ContentHTML != "" {
		converted, err := s.conv.Convert(doc.ContentHTML, doc.URL)
		if err != nil {
			return err
		}
		ext, body = s.conv.Extension(), converted
	}

	relPath, err := URLToPath(doc.URL, ext)
	if err != nil {
		return err
	}

	content, err := FormatPage(doc, body)
	if err != nil {
		return err
	}
	return WriteFileAtomic(filepath.Join(s.tempDir(), filepath.FromSlash(relPath)), content, 0o644)
}

type frontmatter struct {
	Source   string    `yaml:"source"`
	Title    string    `yaml:"title"`
	Crawled  time.Time `yaml:"crawled"`
	Strategy string    `yaml:"strategy,omitempty"`
	Hash     string    `yaml:"hash,omitempty"`
}

// FormatPage prefixes body with YAML frontmatter describing doc.
func FormatPage(doc *doccrawl.Document, body string) ([]byte, error) {
	meta, err := yaml.Marshal(frontmatter{
		Source:   doc.URL,
		Title:    doc.Title,
		Crawled:  doc.ScrapedAt.UTC(),
		Strategy: doc.Strategy,
		Hash:     doc.ContentHash,
	})
	if err != nil {
		return nil, doccrawl.Errorf(doccrawl.EINTERNAL, "encoding frontmatter: %v", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(body)
	if body != "" && body[len(body)-1] != '\n' {
		b.WriteByte('\n')
	}
	return b.Bytes(), nil
}

// SaveAll saves docs to store and commits them. On the first failure the
// store is aborted and nothing is committed.
func SaveAll(ctx context.Context, store doccrawl.PageStore, docs []*doccrawl.Document) error {
	for _, doc := range docs {
		if err := store.Save(ctx, doc); err != nil {
			return errors.Join(err, store.Abort())
		}
	}
	return store.Commit()
}

// Commit replaces the output directory with the saved pages.
func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved pages.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
