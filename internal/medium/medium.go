// Package medium provides the byte-addressable stores a queue is layered on.
//
// A Medium is a flat namespace of named files that persist across power
// cycles, plus an idempotent mount/unmount pair for the underlying
// filesystem. Implementations:
//
//   - [Local]: a directory on the host filesystem
//   - [Memory]: a RAM-backed store for tests and volatile queues
//   - [Faulty]: a wrapper that injects I/O failures
//
// Operations take no context.Context: every call is a bounded, local,
// non-interruptible read, write or seek.
package medium

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotMounted is returned when a file operation is attempted on an unmounted medium.
var ErrNotMounted = errors.New("medium not mounted")

// File is an open, randomly seekable file on a medium.
type File interface {
	io.ReadWriteSeeker
	io.Closer
	Sync() error
	Stat() (os.FileInfo, error)
}

// Medium abstracts the flash filesystem a queue lives on.
type Medium interface {
	// Mount makes the medium usable. Mounting a mounted medium is a no-op.
	Mount() error

	// Unmount releases the medium. Unmounting an unmounted medium is a no-op.
	Unmount() error

	// Mounted reports whether the medium is currently mounted.
	Mounted() bool

	// Create creates or truncates the named file and opens it for reading and writing.
	Create(name string) (File, error)

	// Open opens an existing file for reading and writing.
	Open(name string) (File, error)

	// Stat returns file info; missing files satisfy errors.Is(err, os.ErrNotExist).
	Stat(name string) (os.FileInfo, error)

	// Remove deletes the named file.
	Remove(name string) error
}

// ValidateName checks that a file name is a plain, relative name that stays
// inside the medium's namespace.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("path traversal not allowed in file name: %s", name)
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return fmt.Errorf("file name must be relative: %s", name)
	}
	return nil
}
