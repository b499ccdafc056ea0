package transfer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps a snapshot in a JSON file.
type FileStore struct {
	path string
}

var _ SnapshotStore = (*FileStore)(nil)

// NewFileStore creates a FileStore at path. The parent directory is created
// on the first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Load reads the snapshot file. A missing file loads as an empty snapshot.
func (f *FileStore) Load(_ context.Context) (Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Decode(nil), nil
		}
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data), nil
}

// Lint checks the file against the snapshot schema. Schema violations wrap
// ErrSchema; a file that cannot be read returns the read error.
func (f *FileStore) Lint() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	return Validate(data)
}

// Save writes the snapshot, replacing the file atomically.
func (f *FileStore) Save(_ context.Context, snap Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	return writeFileAtomic(f.path, data)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
