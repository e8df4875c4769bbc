// Package upload persists image attachments as immutable files named by a
// strictly increasing millisecond timestamp plus the original extension, and
// exposes them under the /uploads/ public path. Replaced or orphaned files
// are never cleaned up.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const PublicPrefix = "/uploads/"

type Store struct {
	dir string

	mu     sync.Mutex
	lastMS int64
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the filesystem directory backing the public path.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the attachment and returns its public path. The filename is
// monotonic even when two uploads land within the same millisecond.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	ext := filepath.Ext(originalName)

	s.mu.Lock()
	ms := time.Now().UnixMilli()
	if ms <= s.lastMS {
		ms = s.lastMS + 1
	}
	s.lastMS = ms
	s.mu.Unlock()

	name := fmt.Sprintf("%d%s", ms, ext)
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return PublicPrefix + name, nil
}
