package inigo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Source supplies the two configuration documents and accepts full-text
// overwrites of the main document. A nil byte slice with a nil error means
// the document is absent, which the store treats as empty content.
type Source interface {
	// ReadDefaults returns the defaults document, or nil if absent.
	ReadDefaults() ([]byte, error)

	// ReadMain returns the main document, or nil if absent.
	ReadMain() ([]byte, error)

	// WriteMain replaces the main document.
	WriteMain(data []byte) error
}

// FileSource reads and writes the documents on a filesystem. An empty
// defaults path means no defaults document is used.
type FileSource struct {
	fs           afero.Fs
	defaultsPath string
	mainPath     string
}

// NewFileSource creates a source over the OS filesystem.
func NewFileSource(defaultsPath, mainPath string) *FileSource {
	return NewFileSourceFS(afero.NewOsFs(), defaultsPath, mainPath)
}

// NewFileSourceFS creates a source over a custom filesystem, typically an
// afero.NewMemMapFs in tests.
func NewFileSourceFS(fs afero.Fs, defaultsPath, mainPath string) *FileSource {
	return &FileSource{
		fs:           fs,
		defaultsPath: defaultsPath,
		mainPath:     mainPath,
	}
}

// DefaultsPath returns the defaults document path.
func (s *FileSource) DefaultsPath() string { return s.defaultsPath }

// MainPath returns the main document path.
func (s *FileSource) MainPath() string { return s.mainPath }

// ReadDefaults returns the defaults file content, or nil if the path is
// empty or the file doesn't exist.
func (s *FileSource) ReadDefaults() ([]byte, error) {
	return s.read(s.defaultsPath)
}

// ReadMain returns the main file content, or nil if the path is empty or
// the file doesn't exist.
func (s *FileSource) ReadMain() ([]byte, error) {
	return s.read(s.mainPath)
}

func (s *FileSource) read(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // file doesn't exist, not an error
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return data, nil
}

// WriteMain replaces the main file, creating parent directories as needed.
func (s *FileSource) WriteMain(data []byte) error {
	if s.mainPath == "" {
		return fmt.Errorf("%w: empty main path", ErrNoSource)
	}
	if dir := filepath.Dir(s.mainPath); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, s.mainPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", s.mainPath, err)
	}
	return nil
}
