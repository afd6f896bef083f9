package medium

import (
	"errors"
	"io"
	"sync"
)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("injected fault")

// Fault defines failure behavior for one file name.
type Fault struct {
	// FailAfterBytes makes writes fail once this many bytes have been
	// written to the file since the rule was installed. -1 disables.
	FailAfterBytes int64

	// ShortWrite writes up to the FailAfterBytes limit and reports the
	// short count instead of writing nothing.
	ShortWrite bool

	// FailWritesBelow makes any write starting at an offset below this value
	// fail. 0 disables.
	FailWritesBelow int64

	// ShortReadAfterBytes truncates reads once this many bytes have been
	// read from the file since the rule was installed. -1 disables.
	ShortReadAfterBytes int64

	FailOnCreate bool
	FailOnOpen   bool
	FailOnSync   bool
	FailOnRemove bool

	// Err is returned by failing calls; ErrInjected when nil.
	Err error
}

// NoFault returns a rule that injects nothing.
func NoFault() Fault {
	return Fault{FailAfterBytes: -1, ShortReadAfterBytes: -1}
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// Faulty is a Medium wrapper that injects errors per file name.
// Rules can be changed while files are open; open handles see the new rule
// on their next call.
type Faulty struct {
	Medium

	mu      sync.Mutex
	rules   map[string]Fault
	written map[string]int64
	read    map[string]int64
}

// NewFaulty wraps m, or a fresh Memory medium when m is nil.
func NewFaulty(m Medium) *Faulty {
	if m == nil {
		m = NewMemory()
	}
	return &Faulty{
		Medium:  m,
		rules:   make(map[string]Fault),
		written: make(map[string]int64),
		read:    make(map[string]int64),
	}
}

// SetRule installs a rule for name and resets its byte counters.
func (f *Faulty) SetRule(name string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rules[name] = fault
	f.written[name] = 0
	f.read[name] = 0
}

// ClearRule removes any rule for name.
func (f *Faulty) ClearRule(name string) {
	f.SetRule(name, NoFault())
}

func (f *Faulty) rule(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.rules[name]; ok {
		return r
	}
	return NoFault()
}

// Create creates the file unless a FailOnCreate rule is installed.
func (f *Faulty) Create(name string) (File, error) {
	if r := f.rule(name); r.FailOnCreate {
		return nil, r.err()
	}
	file, err := f.Medium.Create(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, name: name}, nil
}

// Open opens the file unless a FailOnOpen rule is installed.
func (f *Faulty) Open(name string) (File, error) {
	if r := f.rule(name); r.FailOnOpen {
		return nil, r.err()
	}
	file, err := f.Medium.Open(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, name: name}, nil
}

// Remove deletes the file unless a FailOnRemove rule is installed.
func (f *Faulty) Remove(name string) error {
	if r := f.rule(name); r.FailOnRemove {
		return r.err()
	}
	return f.Medium.Remove(name)
}

type faultyFile struct {
	File
	fs   *Faulty
	name string
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	r := ff.fs.rule(ff.name)

	if r.FailWritesBelow > 0 {
		pos, err := ff.File.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		if pos < r.FailWritesBelow {
			return 0, r.err()
		}
	}

	allowed := len(p)
	if r.FailAfterBytes >= 0 {
		ff.fs.mu.Lock()
		remaining := r.FailAfterBytes - ff.fs.written[ff.name]
		ff.fs.mu.Unlock()

		if int64(len(p)) > remaining {
			if !r.ShortWrite || remaining <= 0 {
				return 0, r.err()
			}
			allowed = int(remaining)
		}
	}

	n, err := ff.File.Write(p[:allowed])

	ff.fs.mu.Lock()
	ff.fs.written[ff.name] += int64(n)
	ff.fs.mu.Unlock()

	if err == nil && allowed < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}

func (ff *faultyFile) Read(p []byte) (int, error) {
	r := ff.fs.rule(ff.name)

	allowed := len(p)
	if r.ShortReadAfterBytes >= 0 {
		ff.fs.mu.Lock()
		remaining := r.ShortReadAfterBytes - ff.fs.read[ff.name]
		ff.fs.mu.Unlock()

		if remaining <= 0 {
			return 0, io.EOF
		}
		if int64(len(p)) > remaining {
			allowed = int(remaining)
		}
	}

	n, err := ff.File.Read(p[:allowed])

	ff.fs.mu.Lock()
	ff.fs.read[ff.name] += int64(n)
	ff.fs.mu.Unlock()

	return n, err
}

func (ff *faultyFile) Sync() error {
	if r := ff.fs.rule(ff.name); r.FailOnSync {
		return r.err()
	}
	return ff.File.Sync()
}
