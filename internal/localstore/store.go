// Package localstore persists artifact records as JSON files in the
// working directory, one subdirectory per artifact type.
package localstore

import (
	"crypto/md5"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/hubtools/hubsync/internal/sync"
	"github.com/hubtools/hubsync/internal/utils"
)

const itemExt = ".json"

// Store is a LocalStore over one artifact-type directory. Artifact names
// may contain slashes for hierarchical types; they map directly to
// subdirectories.
type Store struct {
	dir string
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	resolved, err := utils.ResolvePath(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve store dir: %w", err)
	}
	if err := utils.EnsureDir(resolved); err != nil {
		return nil, fmt.Errorf("create store dir %s: %w", resolved, err)
	}
	return &Store{dir: resolved}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// ItemPath returns the absolute on-disk path for an artifact name, whether
// or not the file exists.
func (s *Store) ItemPath(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name)+itemExt)
}

// ListNames returns all artifact names in the store, sorted by walk order.
// Conflict snapshots are not artifacts and are excluded.
func (s *Store) ListNames() ([]string, error) {
	var names []string

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("walk %s: %w", path, walkErr)
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), itemExt) {
			return nil
		}

		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return fmt.Errorf("rel path %s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.ToSlash(rel), itemExt)
		if strings.HasSuffix(name, sync.ConflictSuffix) {
			return nil
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list local artifacts: %w", err)
	}

	return names, nil
}

// GetItem reads and decodes the named artifact.
func (s *Store) GetItem(name string) (sync.Record, error) {
	data, err := os.ReadFile(s.ItemPath(name))
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}

	var rec sync.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", name, err)
	}
	return rec, nil
}

// SaveItem encodes and persists the record under the given name. The write
// is atomic (temp file plus rename) with an MD5 integrity check, so a
// partly written artifact is never observable and the hash entry recorded
// afterwards always matches the bytes on disk.
func (s *Store) SaveItem(name string, rec sync.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact %s: %w", name, err)
	}

	path := s.ItemPath(name)
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}

	slog.Debug("saved artifact", "name", name, "size", humanize.Bytes(uint64(len(data))))
	return nil
}

// DeleteItem removes the named artifact from disk.
func (s *Store) DeleteItem(name string) error {
	if err := os.Remove(s.ItemPath(name)); err != nil {
		return fmt.Errorf("delete artifact %s: %w", name, err)
	}
	return nil
}

// writeFileAtomic writes data to path via a temp file in the same
// directory, verifying the written bytes before the rename.
func writeFileAtomic(path string, data []byte) error {
	if err := utils.EnsureParent(path); err != nil {
		return fmt.Errorf("ensure parent: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	hasher := md5.New()
	writer := io.MultiWriter(tmpFile, hasher)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	expected := fmt.Sprintf("%x", md5.Sum(data))
	written := fmt.Sprintf("%x", hasher.Sum(nil))
	if expected != written {
		return fmt.Errorf("integrity check failed: expected %q got %q", expected, written)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}

	success = true
	return nil
}

var _ sync.LocalStore = (*Store)(nil)
