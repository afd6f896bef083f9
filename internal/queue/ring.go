package queue

import (
	"fmt"
	"io"

	"github.com/vnykmshr/ringq/internal/format"
)

// physical maps a logical data-region offset to a file offset.
func (q *Queue) physical(pos uint32) int64 {
	return int64(q.hdr.Size()) + int64(pos)
}

// writeRing writes data starting at logical offset pos, splitting it in two
// writes when it runs past the end of the data region. It returns the
// logical offset just past the data.
func (q *Queue) writeRing(pos uint32, data []byte) (uint32, error) {
	n := uint32(len(data)) //nolint:gosec // G115: callers bound len(data) by capacity
	tail := q.capacity - pos

	if n <= tail {
		if err := writeAt(q.file, q.physical(pos), data); err != nil {
			return pos, err
		}
		return (pos + n) % q.capacity, nil
	}

	if err := writeAt(q.file, q.physical(pos), data[:tail]); err != nil {
		return pos, err
	}
	if err := writeAt(q.file, q.physical(0), data[tail:]); err != nil {
		return pos, err
	}
	return n - tail, nil
}

// readRing fills buf from logical offset pos, splitting the read the same
// way writeRing splits writes. It returns the logical offset just past the
// data.
func (q *Queue) readRing(pos uint32, buf []byte) (uint32, error) {
	n := uint32(len(buf)) //nolint:gosec // G115: callers bound len(buf) by capacity
	tail := q.capacity - pos

	if n <= tail {
		if err := readAt(q.file, q.physical(pos), buf); err != nil {
			return pos, err
		}
		return (pos + n) % q.capacity, nil
	}

	if err := readAt(q.file, q.physical(pos), buf[:tail]); err != nil {
		return pos, err
	}
	if err := readAt(q.file, q.physical(0), buf[tail:]); err != nil {
		return pos, err
	}
	return n - tail, nil
}

// recordAt decodes the record starting at logical offset pos. It returns
// the payload length and the logical offset of the payload.
//
// Fixed-size records need no I/O. A variable-size record's length prefix is
// read and checked against budget, the payload bytes stored from pos up to
// the back of the queue.
func (q *Queue) recordAt(pos uint32, budget int) (int, uint32, error) {
	mode := q.hdr.Mode
	if mode.Fixed() {
		return int(mode.ElementSize()), pos, nil
	}

	var prefix [format.LengthPrefixSize]byte
	next, err := q.readRing(pos, prefix[:])
	if err != nil {
		return 0, pos, fmt.Errorf("%w: read length prefix at %d: %w", ErrIO, pos, err)
	}

	n := int(format.LengthPrefix(prefix[:]))
	if n == 0 || n > budget {
		return 0, pos, fmt.Errorf("%w: length prefix %d at offset %d, %d bytes stored",
			ErrCorrupted, n, pos, budget)
	}
	return n, next, nil
}

// readRecordAt reads the record at logical offset pos into dst, or into a
// new slice when alloc is set. budget is passed on to recordAt. It returns the payload and the logical offset
// of the following record.
func (q *Queue) readRecordAt(pos uint32, budget int, dst []byte, alloc bool) ([]byte, uint32, error) {
	n, payloadPos, err := q.recordAt(pos, budget)
	if err != nil {
		return nil, pos, err
	}

	switch {
	case alloc:
		dst = make([]byte, n)
	case len(dst) < n:
		return nil, pos, fmt.Errorf("%w: record is %d bytes, buffer is %d",
			io.ErrShortBuffer, n, len(dst))
	}

	next, err := q.readRing(payloadPos, dst[:n])
	if err != nil {
		return nil, pos, fmt.Errorf("%w: read record at %d: %w", ErrIO, payloadPos, err)
	}
	return dst[:n], next, nil
}
