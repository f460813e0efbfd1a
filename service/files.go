package service

import (
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrBadName is returned for stored names that would escape the upload
// directory. Stored names are generated here, so seeing this means a
// corrupted record.
var ErrBadName = errors.New("invalid stored filename")

// FileStore keeps the uploaded PDFs in one local directory, keyed by a
// generated stored filename that is never derived from user input.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: abs}, nil
}

func (f *FileStore) Dir() string {
	return f.dir
}

// Save writes the upload to a temp file in the directory and renames it
// to its final uuid-hex name, so a failed write never leaves a partial
// file under a servable name. Returns the stored name and byte count.
func (f *FileStore) Save(r io.Reader) (storedName string, size int64, err error) {
	tmp, err := os.CreateTemp(f.dir, ".upload-*")
	if err != nil {
		return "", 0, err
	}
	size, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", 0, err
	}
	id := uuid.New()
	storedName = hex.EncodeToString(id[:]) + ".pdf"
	if err := os.Rename(tmp.Name(), filepath.Join(f.dir, storedName)); err != nil {
		os.Remove(tmp.Name())
		return "", 0, err
	}
	return storedName, size, nil
}

// Open returns the backing file for streaming. Caller must close it.
func (f *FileStore) Open(storedName string) (*os.File, error) {
	path, err := f.path(storedName)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes the backing file. A file that is already gone is not an
// error, so a record pointing at a missing file can still be cleaned up.
func (f *FileStore) Delete(storedName string) error {
	path, err := f.path(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileStore) Exists(storedName string) bool {
	path, err := f.path(storedName)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (f *FileStore) path(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) || strings.HasPrefix(storedName, ".") {
		return "", ErrBadName
	}
	return filepath.Join(f.dir, storedName), nil
}
