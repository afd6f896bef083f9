package medium

import (
	"fmt"
	"os"
	"path/filepath"
)

// Usage describes the capacity of the filesystem backing a Local medium.
type Usage struct {
	// BlockSize is the filesystem block size in bytes
	BlockSize int64

	// FreeBytes is the space available to unprivileged writers
	FreeBytes uint64
}

// Local is a Medium rooted at a directory on the host filesystem.
type Local struct {
	root    string
	mounted bool
	usage   Usage
}

// NewLocal creates a Local medium rooted at dir. Nothing touches the
// filesystem until Mount.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

// Root returns the medium's root directory.
func (l *Local) Root() string {
	return l.root
}

// Mount creates the root directory if needed and probes the filesystem.
func (l *Local) Mount() error {
	if l.mounted {
		return nil
	}

	if err := os.MkdirAll(l.root, 0750); err != nil {
		return fmt.Errorf("failed to create medium root: %w", err)
	}

	usage, err := probe(l.root)
	if err != nil {
		return fmt.Errorf("failed to probe medium: %w", err)
	}

	l.usage = usage
	l.mounted = true
	return nil
}

// Unmount marks the medium unusable. Files are left in place.
func (l *Local) Unmount() error {
	l.mounted = false
	return nil
}

// Mounted reports whether Mount has succeeded since the last Unmount.
func (l *Local) Mounted() bool {
	return l.mounted
}

// Usage returns the filesystem usage observed at the last Mount.
func (l *Local) Usage() Usage {
	return l.usage
}

// Create creates or truncates the named file.
func (l *Local) Create(name string) (File, error) {
	path, err := l.path(name)
	if err != nil {
		return nil, err
	}
	return openFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
}

// Open opens an existing file for reading and writing.
func (l *Local) Open(name string) (File, error) {
	path, err := l.path(name)
	if err != nil {
		return nil, err
	}
	return openFile(path, os.O_RDWR, 0)
}

// Stat returns file info for the named file.
func (l *Local) Stat(name string) (os.FileInfo, error) {
	path, err := l.path(name)
	if err != nil {
		return nil, err
	}
	return os.Stat(path)
}

// Remove deletes the named file.
func (l *Local) Remove(name string) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func (l *Local) path(name string) (string, error) {
	if !l.mounted {
		return "", ErrNotMounted
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(name)), nil
}

// openFile avoids returning a typed nil *os.File inside the File interface.
func openFile(path string, flag int, perm os.FileMode) (File, error) {
	f, err := os.OpenFile(path, flag, perm) //nolint:gosec // G304: name is validated against the root
	if err != nil {
		return nil, err
	}
	return f, nil
}
