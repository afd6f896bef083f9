package queue

import (
	"fmt"
	"time"

	"github.com/vnykmshr/ringq/internal/format"
	"github.com/vnykmshr/ringq/internal/logging"
	"github.com/vnykmshr/ringq/internal/metrics"
)

// DefaultCapacity is the data region size used when Options.Capacity is 0.
const DefaultCapacity = 4096

// Options configures queue behavior.
//
// Capacity, ElementSize and MaxElementSize describe the on-medium layout.
// The header does not record capacity, so a queue must be reopened with the
// same values it was created with.
type Options struct {
	// Capacity is the size of the data region in bytes, excluding the header.
	// 0 selects DefaultCapacity.
	Capacity uint32

	// ElementSize switches the queue to fixed-size records when non-zero.
	// Every payload must then be exactly this long and carries no length prefix.
	ElementSize uint16

	// MaxElementSize rejects payloads of this size or larger. 0 disables the limit.
	MaxElementSize int

	// AutoSync syncs the store after every header write
	AutoSync bool

	// Logger for structured logging (nil = no logging)
	Logger logging.Logger

	// MetricsCollector for collecting queue metrics (nil = no metrics)
	MetricsCollector MetricsCollector
}

// MetricsCollector defines the interface for recording queue metrics.
type MetricsCollector interface {
	RecordEnqueue(payloadSize int, duration time.Duration)
	RecordDequeue(payloadSize int, duration time.Duration)
	RecordEnqueueError()
	RecordDequeueError()
	RecordPersist(ok bool)
	UpdateQueueState(count, size, available, front, back uint64)
}

// DefaultOptions returns a variable-size queue of DefaultCapacity bytes with
// logging and metrics disabled.
func DefaultOptions() *Options {
	return &Options{
		Capacity:         DefaultCapacity,
		ElementSize:      0,                       // Variable-size records
		MaxElementSize:   0,                       // No limit beyond the length prefix
		AutoSync:         false,                   // Header writes are not synced
		Logger:           logging.NoopLogger{},    // No logging by default
		MetricsCollector: metrics.NoopCollector{}, // No metrics by default
	}
}

// Mode returns the record layout selected by ElementSize.
func (o *Options) Mode() format.Mode {
	if o.ElementSize > 0 {
		return format.Fixed(o.ElementSize)
	}
	return format.Variable()
}

// Validate checks that the options describe a usable queue.
func (o *Options) Validate() error {
	if o.Capacity == 0 {
		return fmt.Errorf("capacity must be > 0")
	}

	mode := o.Mode()
	if mode.Fixed() {
		if uint32(o.ElementSize) > o.Capacity {
			return fmt.Errorf("element size %d exceeds capacity %d", o.ElementSize, o.Capacity)
		}
	} else if o.Capacity <= format.LengthPrefixSize {
		return fmt.Errorf("capacity %d cannot hold a length-prefixed record", o.Capacity)
	}

	if o.MaxElementSize < 0 {
		return fmt.Errorf("max element size cannot be negative: %d", o.MaxElementSize)
	}
	if mode.Fixed() && o.MaxElementSize > 0 && int(o.ElementSize) >= o.MaxElementSize {
		return fmt.Errorf("element size %d is not under max element size %d",
			o.ElementSize, o.MaxElementSize)
	}

	return nil
}

// withDefaults returns a copy of o with zero values replaced by defaults.
func (o *Options) withDefaults() *Options {
	cp := *o
	if cp.Capacity == 0 {
		cp.Capacity = DefaultCapacity
	}
	if cp.Logger == nil {
		cp.Logger = logging.NoopLogger{}
	}
	if cp.MetricsCollector == nil {
		cp.MetricsCollector = metrics.NoopCollector{}
	}
	return &cp
}
