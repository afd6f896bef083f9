// Package queue provides a persistent FIFO ring buffer stored in one file.
//
// The file holds a small header followed by a fixed-capacity data region
// that records wrap around. The header stores the front offset, the back
// offset and the record count, and is rewritten after every enqueue and
// dequeue, so a queue reopened after a reset resumes exactly where it left
// off without scanning the data.
//
// Records are either length-prefixed (variable mode) or all of one
// configured size (fixed mode).
//
// Basic usage:
//
//	m := medium.NewLocal("/data")
//	q, err := queue.Open(m, "sensors.q", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer q.Close()
//
//	if err := q.Enqueue([]byte("hello")); err != nil {
//	    log.Fatal(err)
//	}
//
//	payload, err := q.Dequeue()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// A Queue is not safe for concurrent use. Two queues must not be opened on
// the same store at the same time.
package queue

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/vnykmshr/ringq/internal/format"
	"github.com/vnykmshr/ringq/internal/logging"
	"github.com/vnykmshr/ringq/internal/medium"
)

// Queue is a persistent ring buffer of records in a single medium file.
type Queue struct {
	opts *Options

	medium medium.Medium
	name   string
	file   medium.File

	// hdr is the last successfully persisted header
	hdr      format.Header
	capacity uint32

	closed bool
}

// Descriptor is a snapshot of a queue's persistent state.
type Descriptor struct {
	Name     string
	Front    uint32
	Back     uint32
	Count    uint16
	Capacity uint32
	Mode     format.Mode
}

// Open opens the named queue on m, creating it when the store does not
// exist. The medium is mounted first if it is not already.
//
// A new store gets an empty header sized for opts. An existing store must
// have been created with the same capacity and element size; its header is
// read and checked against them.
func Open(m medium.Medium, name string, opts *Options) (*Queue, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	opts = opts.withDefaults()

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid options: %w", ErrInit, err)
	}
	if err := medium.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}

	if !m.Mounted() {
		if err := m.Mount(); err != nil {
			opts.Logger.Error("failed to mount medium", logging.F("error", err.Error()))
			return nil, fmt.Errorf("%w: mount: %w", ErrInit, err)
		}
	}

	q := &Queue{
		opts:     opts,
		medium:   m,
		name:     name,
		capacity: opts.Capacity,
	}

	if err := q.load(); err != nil {
		opts.Logger.Error("failed to open queue",
			logging.F("name", name),
			logging.F("error", err.Error()),
		)
		return nil, err
	}

	q.updateMetrics()
	return q, nil
}

// load creates the store or reads the header of an existing one.
func (q *Queue) load() error {
	_, err := q.medium.Stat(q.name)
	switch {
	case err == nil:
		return q.openExisting()
	case errors.Is(err, fs.ErrNotExist):
		return q.create()
	default:
		return fmt.Errorf("%w: stat %s: %w", ErrInit, q.name, err)
	}
}

func (q *Queue) create() error {
	f, err := q.medium.Create(q.name)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrInit, q.name, err)
	}

	hdr := format.Header{Mode: q.opts.Mode()}
	if err := writeAt(f, 0, hdr.Marshal()); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write header: %w", ErrInit, err)
	}
	if q.opts.AutoSync {
		if err := f.Sync(); err != nil {
			_ = f.Close()
			return fmt.Errorf("%w: sync header: %w", ErrInit, err)
		}
	}

	q.file = f
	q.hdr = hdr

	q.opts.Logger.Info("queue created",
		logging.F("name", q.name),
		logging.F("capacity", q.capacity),
		logging.F("mode", hdr.Mode.String()),
	)
	return nil
}

func (q *Queue) openExisting() error {
	f, err := q.medium.Open(q.name)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrInit, q.name, err)
	}

	hdr, err := q.readHeader(f)
	if err != nil {
		_ = f.Close()
		return err
	}

	q.file = f
	q.hdr = *hdr

	q.opts.Logger.Info("queue opened",
		logging.F("name", q.name),
		logging.F("front", hdr.Front),
		logging.F("back", hdr.Back),
		logging.F("count", hdr.Count),
	)
	return nil
}

// readHeader reads and validates the header at the start of f.
func (q *Queue) readHeader(f medium.File) (*format.Header, error) {
	mode := q.opts.Mode()
	buf := make([]byte, format.HeaderSize(mode))
	if err := readAt(f, 0, buf); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrInit, err)
	}

	hdr, err := format.UnmarshalHeader(buf, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	if err := hdr.Validate(q.capacity); err != nil {
		return nil, fmt.Errorf("%w: invalid header: %w", ErrInit, err)
	}
	return hdr, nil
}

// Init re-reads the header of an open queue, discarding in-memory state.
// Calling it repeatedly without intervening writes yields identical state.
func (q *Queue) Init() error {
	if q.closed {
		return ErrClosed
	}

	hdr, err := q.readHeader(q.file)
	if err != nil {
		q.opts.Logger.Error("failed to reload header",
			logging.F("name", q.name),
			logging.F("error", err.Error()),
		)
		return err
	}

	q.hdr = *hdr
	q.updateMetrics()
	return nil
}

// Descriptor returns a snapshot of the queue's persistent state.
func (q *Queue) Descriptor() Descriptor {
	return Descriptor{
		Name:     q.name,
		Front:    q.hdr.Front,
		Back:     q.hdr.Back,
		Count:    q.hdr.Count,
		Capacity: q.capacity,
		Mode:     q.hdr.Mode,
	}
}

// Name returns the store name within the medium.
func (q *Queue) Name() string {
	return q.name
}

// Mode returns the queue's record layout.
func (q *Queue) Mode() format.Mode {
	return q.hdr.Mode
}

// Footprint returns the size of the backing store on the medium.
func (q *Queue) Footprint() (int64, error) {
	if q.closed {
		return 0, ErrClosed
	}
	info, err := q.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat %s: %w", ErrIO, q.name, err)
	}
	return info.Size(), nil
}

// writeAt writes all of data at physical offset off.
func writeAt(f io.WriteSeeker, off int64, data []byte) error {
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek failed: %w", err)
	}

	n, err := f.Write(data)
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("incomplete write: wrote %d bytes, want %d", n, len(data))
	}
	return nil
}

// readAt fills buf from physical offset off.
func readAt(f io.ReadSeeker, off int64, buf []byte) error {
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek failed: %w", err)
	}

	n, err := io.ReadFull(f, buf)
	if err != nil {
		return fmt.Errorf("incomplete read: got %d bytes, want %d: %w", n, len(buf), err)
	}
	return nil
}
