package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileKV stores each key as one file under a directory. The filesystem is
// abstracted behind afero so tests run on a memory-backed fs.
type FileKV struct {
	fs  afero.Fs
	dir string
}

// NewFileKV creates the directory if needed and returns a file-backed KV.
func NewFileKV(fs afero.Fs, dir string) (*FileKV, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileKV{fs: fs, dir: dir}, nil
}

func (f *FileKV) Get(key string) (string, bool, error) {
	data, err := afero.ReadFile(f.fs, f.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (f *FileKV) Set(key, value string) error {
	return afero.WriteFile(f.fs, f.path(key), []byte(value), 0o644)
}

// path escapes the key so separators and other unsafe characters cannot
// leave the storage directory.
func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key))
}

var _ KV = (*FileKV)(nil)
