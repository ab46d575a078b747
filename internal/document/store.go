package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".txt":  true,
}

// AllowedExtension reports whether the original filename carries an
// accepted extension.
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Store abstracts the file payload location from the metadata service.
type Store interface {
	// Save writes the payload under a generated name, keeping the original
	// extension, and returns the stored path and byte count.
	Save(originalName string, r io.Reader) (path string, size int64, err error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// DiskStore keeps payloads as flat files under a single directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(originalName string, r io.Reader) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.dir, uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	return path, size, nil
}

func (s *DiskStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (s *DiskStore) Remove(path string) error {
	return os.Remove(path)
}
