package querylog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"

	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
)

const extension = ".txt"

// FileName derives the stable log filename for a query. The 64-bit hash is
// read as signed; a leading '-' becomes 'n' so names stay shell-friendly.
func FileName(q domain.Query) string {
	h := int64(xxhash.Sum64String(string(q)))
	s := strconv.FormatInt(h, 10)
	if h < 0 {
		s = "n" + s[1:]
	}
	return s + extension
}

// FileStore is a flat directory of write-once query files.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Dir() string { return s.dir }

// Log persists q under its hashed name unless a file with that name exists.
// Distinct queries that collide on the hash are not told apart.
func (s *FileStore) Log(ctx context.Context, q domain.Query) (domain.LogEntry, error) {
	if err := s.ensureDir(); err != nil {
		return domain.LogEntry{}, err
	}

	name := FileName(q)
	entry := domain.LogEntry{Name: name}
	path := filepath.Join(s.dir, name)

	if _, err := os.Stat(path); err == nil {
		return entry, nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			// lost a race with an identical query
			return entry, nil
		}
		return entry, fmt.Errorf("create query log %s: %w", path, err)
	}
	if _, err := f.WriteString(string(q)); err != nil {
		f.Close()
		return entry, fmt.Errorf("write query log %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return entry, fmt.Errorf("close query log %s: %w", path, err)
	}

	entry.Created = true
	return entry, nil
}

// Check is the health probe for the store directory.
func (s *FileStore) Check(ctx context.Context) error {
	return s.ensureDir()
}

func (s *FileStore) ensureDir() error {
	info, err := os.Stat(s.dir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("query log path %s exists and is not a directory", s.dir)
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return fmt.Errorf("create query log dir: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("stat query log dir: %w", err)
	}
}
