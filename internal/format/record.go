package format

import (
	"encoding/binary"
	"fmt"
)

// LengthPrefixSize is the size of the length field in front of every
// variable-size record.
const LengthPrefixSize = 2

// MaxRecordSize is the largest payload a length prefix can describe.
const MaxRecordSize = 1<<16 - 1

// Mode is the record layout of a queue: either every record carries a
// length prefix, or all records share one configured size.
//
// The zero value is variable mode.
type Mode struct {
	elemSize uint16
}

// Variable returns the length-prefixed record mode.
func Variable() Mode {
	return Mode{}
}

// Fixed returns the mode for records of exactly size bytes.
func Fixed(size uint16) Mode {
	return Mode{elemSize: size}
}

// Fixed reports whether records have a configured constant size.
func (m Mode) Fixed() bool {
	return m.elemSize > 0
}

// ElementSize returns the configured record size, or 0 in variable mode.
func (m Mode) ElementSize() uint16 {
	return m.elemSize
}

// PrefixSize returns the per-record bookkeeping bytes.
func (m Mode) PrefixSize() uint32 {
	if m.Fixed() {
		return 0
	}
	return LengthPrefixSize
}

// Footprint returns the on-medium size of a record with the given payload length.
func (m Mode) Footprint(payloadLen int) uint32 {
	if m.Fixed() {
		return uint32(m.elemSize)
	}
	return LengthPrefixSize + uint32(payloadLen) //nolint:gosec // G115: payload length is bounded by MaxRecordSize
}

// String returns a readable form of the mode.
func (m Mode) String() string {
	if m.Fixed() {
		return fmt.Sprintf("fixed(%d)", m.elemSize)
	}
	return "variable"
}

// PutLengthPrefix encodes a record length prefix.
func PutLengthPrefix(buf []byte, n uint16) {
	binary.LittleEndian.PutUint16(buf, n)
}

// LengthPrefix decodes a record length prefix.
func LengthPrefix(buf []byte) uint16 {
	return binary.LittleEndian.Uint16(buf)
}
