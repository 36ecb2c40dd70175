package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/amzscrape"
)

// Ensure FileStore implements amzscrape.ProductStore at compile time.
var _ amzscrape.ProductStore = (*FileStore)(nil)

// FileStore implements amzscrape.ProductStore with atomic update semantics.
// Records are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

func (s *FileStore) Save(ctx context.Context, rec *amzscrape.ProductRecord) error {
	return writeProduct(s.tempDir(), rec)
}

// Commit replaces the output directory with everything saved so far.
// A batch that saved nothing still produces an empty output directory.
func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	return os.Rename(s.tempDir(), s.finalDir())
}

func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
