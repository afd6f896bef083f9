package format

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Header flags
const (
	HeaderFlagNone         uint8 = 0
	HeaderFlagFixedElement uint8 = 1 << 0 // Records carry no length prefix
)

const (
	// StateSize is the size of the mutable part of the header (10 bytes).
	// Layout: Front(4) + Back(4) + Count(2)
	StateSize = 10

	// FlagsSize is the size of the mode flags byte that follows the state.
	FlagsSize = 1

	// ElementSizeSize is the size of the element size field that follows the
	// flags of fixed-size queues.
	ElementSizeSize = 2

	// MaxCount is the largest number of records a header can describe.
	MaxCount = 1<<16 - 1

	// MaxOffset is the largest offset a header can describe.
	MaxOffset = 1<<32 - 1
)

// ErrShortHeader is returned when fewer bytes than the header size are available.
var ErrShortHeader = errors.New("short header")

// Header is the fixed-layout prefix of a queue file.
//
// Binary format (little-endian):
//
//	[Front:4][Back:4][Count:2][Flags:1]             variable-size records
//	[Front:4][Back:4][Count:2][Flags:1][ElemSize:2] fixed-size records
//
// The flags byte is always present so that a store can be checked against
// the mode it is opened with.
//
// The data region starts right after the header, so the header size is also
// the physical offset of logical offset 0.
type Header struct {
	// Front is the logical offset of the next record to read
	Front uint32

	// Back is the logical offset of the next free byte
	Back uint32

	// Count is the number of records stored
	Count uint16

	// Mode is the record layout, fixed at creation
	Mode Mode
}

// Size returns the encoded header size for the header's mode.
func (h *Header) Size() int {
	return HeaderSize(h.Mode)
}

// HeaderSize returns the header size used by queues in the given mode.
func HeaderSize(m Mode) int {
	if m.Fixed() {
		return StateSize + FlagsSize + ElementSizeSize
	}
	return StateSize + FlagsSize
}

// Marshal encodes the complete header, including the flags and, for
// fixed-size queues, the element size.
func (h *Header) Marshal() []byte {
	buf := make([]byte, h.Size())
	h.putState(buf)

	buf[StateSize] = HeaderFlagNone
	if h.Mode.Fixed() {
		buf[StateSize] = HeaderFlagFixedElement
		binary.LittleEndian.PutUint16(buf[StateSize+FlagsSize:], h.Mode.ElementSize())
	}

	return buf
}

// MarshalState encodes only front, back and count. This is what gets
// rewritten after every enqueue and dequeue.
func (h *Header) MarshalState() []byte {
	buf := make([]byte, StateSize)
	h.putState(buf)
	return buf
}

func (h *Header) putState(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Front)
	binary.LittleEndian.PutUint32(buf[4:8], h.Back)
	binary.LittleEndian.PutUint16(buf[8:10], h.Count)
}

// UnmarshalHeader decodes a header written in the expected mode. The flags
// byte must agree with the expected mode, and a fixed-size header must carry
// the expected element size.
func UnmarshalHeader(data []byte, expected Mode) (*Header, error) {
	size := HeaderSize(expected)
	if len(data) < size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrShortHeader, len(data), size)
	}

	h := &Header{
		Front: binary.LittleEndian.Uint32(data[0:4]),
		Back:  binary.LittleEndian.Uint32(data[4:8]),
		Count: binary.LittleEndian.Uint16(data[8:10]),
		Mode:  expected,
	}

	flags := data[StateSize]
	if flags&^HeaderFlagFixedElement != 0 {
		return nil, fmt.Errorf("unknown header flags 0x%02x", flags)
	}

	fixed := flags&HeaderFlagFixedElement != 0
	switch {
	case fixed && !expected.Fixed():
		return nil, fmt.Errorf("header flags 0x%02x mark a fixed-size queue, opened as variable-size", flags)
	case !fixed && expected.Fixed():
		return nil, fmt.Errorf("header flags 0x%02x mark a variable-size queue, opened as fixed-size", flags)
	case fixed:
		elemSize := binary.LittleEndian.Uint16(data[StateSize+FlagsSize:])
		if elemSize != expected.ElementSize() {
			return nil, fmt.Errorf("element size mismatch: header has %d, configured %d",
				elemSize, expected.ElementSize())
		}
	}

	return h, nil
}

// Validate checks that the header describes a consistent queue of the given capacity.
func (h *Header) Validate(capacity uint32) error {
	if capacity == 0 {
		return fmt.Errorf("invalid capacity: 0")
	}
	if h.Front >= capacity {
		return fmt.Errorf("front offset (%d) >= capacity (%d)", h.Front, capacity)
	}
	if h.Back >= capacity {
		return fmt.Errorf("back offset (%d) >= capacity (%d)", h.Back, capacity)
	}
	if h.Count == 0 && h.Front != h.Back {
		return fmt.Errorf("empty queue with front (%d) != back (%d)", h.Front, h.Back)
	}

	used := uint64(h.Used(capacity))
	count := uint64(h.Count)

	if h.Mode.Fixed() {
		if h.Mode.ElementSize() == 0 {
			return fmt.Errorf("fixed element size cannot be 0")
		}
		if want := count * uint64(h.Mode.ElementSize()); used != want {
			return fmt.Errorf("%d records of %d bytes need %d bytes, offsets span %d",
				h.Count, h.Mode.ElementSize(), want, used)
		}
		return nil
	}

	// Every variable-size record is a length prefix and at least one byte.
	if least := count * (LengthPrefixSize + 1); used < least {
		return fmt.Errorf("%d records need at least %d bytes, offsets span %d",
			h.Count, least, used)
	}
	return nil
}

// Used returns the bytes between front and back, length prefixes included,
// in a data region of the given capacity.
func (h *Header) Used(capacity uint32) uint32 {
	switch {
	case h.Back > h.Front:
		return h.Back - h.Front
	case h.Back < h.Front:
		return capacity - h.Front + h.Back
	case h.Count > 0:
		// front == back with records stored: the ring is exactly full
		return capacity
	default:
		return 0
	}
}
