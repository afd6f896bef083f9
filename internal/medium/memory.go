package medium

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"
)

// Memory is a RAM-backed Medium. Contents survive Unmount/Mount but not the
// process. Writes past the end of a file zero-fill the gap, like a sparse
// file on disk.
type Memory struct {
	mu      sync.Mutex
	files   map[string]*memData
	mounted bool
}

type memData struct {
	buf     []byte
	modTime time.Time
}

// NewMemory creates an empty, unmounted in-memory medium.
func NewMemory() *Memory {
	return &Memory{files: make(map[string]*memData)}
}

// Mount marks the medium usable.
func (m *Memory) Mount() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounted = true
	return nil
}

// Unmount marks the medium unusable.
func (m *Memory) Unmount() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounted = false
	return nil
}

// Mounted reports whether the medium is mounted.
func (m *Memory) Mounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounted
}

// Create creates or truncates the named file.
func (m *Memory) Create(name string) (File, error) {
	if err := m.check("create", name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d := &memData{modTime: time.Now()}
	m.files[name] = d
	return &memFile{m: m, name: name, data: d}, nil
}

// Open opens an existing file.
func (m *Memory) Open(name string) (File, error) {
	if err := m.check("open", name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memFile{m: m, name: name, data: d}, nil
}

// Stat returns file info for the named file.
func (m *Memory) Stat(name string) (os.FileInfo, error) {
	if err := m.check("stat", name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return memInfo{name: name, size: int64(len(d.buf)), modTime: d.modTime}, nil
}

// Remove deletes the named file. Open handles keep their contents but are
// detached from the namespace.
func (m *Memory) Remove(name string) error {
	if err := m.check("remove", name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[name]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.files, name)
	return nil
}

func (m *Memory) check(op, name string) error {
	if !m.Mounted() {
		return ErrNotMounted
	}
	if err := ValidateName(name); err != nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}
	return nil
}

var errClosed = errors.New("file already closed")

type memFile struct {
	m      *Memory
	name   string
	data   *memData
	pos    int64
	closed bool
}

func (f *memFile) Read(p []byte) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if f.closed {
		return 0, errClosed
	}
	if f.pos >= int64(len(f.data.buf)) {
		return 0, io.EOF
	}
	n := copy(p, f.data.buf[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if f.closed {
		return 0, errClosed
	}

	end := f.pos + int64(len(p))
	if gap := end - int64(len(f.data.buf)); gap > 0 {
		f.data.buf = append(f.data.buf, make([]byte, gap)...)
	}
	n := copy(f.data.buf[f.pos:], p)
	f.pos += int64(n)
	f.data.modTime = time.Now()
	return n, nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if f.closed {
		return 0, errClosed
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.pos + offset
	case io.SeekEnd:
		abs = int64(len(f.data.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	f.pos = abs
	return abs, nil
}

func (f *memFile) Sync() error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if f.closed {
		return errClosed
	}
	return nil
}

func (f *memFile) Stat() (os.FileInfo, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if f.closed {
		return nil, errClosed
	}
	return memInfo{name: f.name, size: int64(len(f.data.buf)), modTime: f.data.modTime}, nil
}

func (f *memFile) Close() error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()

	if f.closed {
		return errClosed
	}
	f.closed = true
	return nil
}

type memInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() os.FileMode  { return 0600 }
func (i memInfo) ModTime() time.Time { return i.modTime }
func (i memInfo) IsDir() bool        { return false }
func (i memInfo) Sys() any           { return nil }
