// Package ringq provides a persistent FIFO ring buffer stored in a single
// file on a small storage medium.
//
// A queue survives power loss and sleep cycles: its front offset, back
// offset and record count live in a header that is rewritten after every
// operation, so reopening the file resumes exactly where the device left
// off.
//
// Example usage:
//
//	m := ringq.NewLocalMedium("/data")
//	q, err := ringq.Open(m, "readings.q", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer q.Close()
//
//	if err := q.Enqueue([]byte("t=21.5")); err != nil {
//	    log.Fatal(err)
//	}
//
//	payload, err := q.Dequeue()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Record: %s\n", payload)
package ringq

import (
	"time"

	"github.com/vnykmshr/ringq/internal/logging"
	"github.com/vnykmshr/ringq/internal/medium"
	"github.com/vnykmshr/ringq/internal/metrics"
	"github.com/vnykmshr/ringq/internal/queue"
)

// Version is the current version of ringq.
const Version = "0.3.0"

// DefaultCapacity is the data region size used when Options.Capacity is 0.
const DefaultCapacity = queue.DefaultCapacity

// Errors returned by queue operations; match them with errors.Is.
var (
	ErrInit          = queue.ErrInit
	ErrCapacity      = queue.ErrCapacity
	ErrEmpty         = queue.ErrEmpty
	ErrIO            = queue.ErrIO
	ErrPersist       = queue.ErrPersist
	ErrInvalidRecord = queue.ErrInvalidRecord
	ErrCorrupted     = queue.ErrCorrupted
	ErrClosed        = queue.ErrClosed
)

// Medium is the storage a queue file lives on.
type Medium = medium.Medium

// NewLocalMedium returns a medium rooted at a host directory.
func NewLocalMedium(dir string) Medium {
	return medium.NewLocal(dir)
}

// NewMemoryMedium returns a RAM-backed medium. Its contents are lost when
// the process exits.
func NewMemoryMedium() Medium {
	return medium.NewMemory()
}

// Queue is a persistent ring buffer of records. It is not safe for
// concurrent use.
type Queue struct {
	q *queue.Queue
}

// Options configures queue behavior.
type Options struct {
	// Capacity is the size of the data region in bytes, excluding the header.
	// A queue must be reopened with the capacity it was created with.
	// Default: DefaultCapacity
	Capacity uint32

	// ElementSize makes every record exactly this many bytes, with no length
	// prefix. 0 selects variable-size records.
	// Default: 0
	ElementSize uint16

	// MaxElementSize rejects payloads of this size or larger.
	// Default: 0 (no limit)
	MaxElementSize int

	// AutoSync syncs the file after every header write
	// Default: false
	AutoSync bool

	// Logger for structured logging (nil = no logging)
	// Default: no logging
	Logger Logger

	// MetricsCollector for collecting queue metrics (nil = no metrics)
	// Default: no metrics
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

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, fields ...LogField)
	Info(msg string, fields ...LogField)
	Warn(msg string, fields ...LogField)
	Error(msg string, fields ...LogField)
}

// LogField represents a structured log field.
type LogField struct {
	Key   string
	Value any
}

// Stats contains queue statistics.
type Stats = queue.Stats

// MetricsSnapshot is a point-in-time view of queue metrics.
type MetricsSnapshot = metrics.Snapshot

// NewMetricsCollector creates a new metrics collector for a queue.
// The queue name is used to identify metrics from this specific queue.
func NewMetricsCollector(queueName string) *metrics.Collector {
	return metrics.NewCollector(queueName)
}

// NewPrometheusCollector exposes a collector for registration with a
// prometheus.Registerer.
func NewPrometheusCollector(c *metrics.Collector) *metrics.PrometheusCollector {
	return metrics.NewPrometheusCollector(c)
}

// GetMetricsSnapshot returns a snapshot of current metrics from a collector.
func GetMetricsSnapshot(collector MetricsCollector) *MetricsSnapshot {
	if c, ok := collector.(*metrics.Collector); ok {
		return c.GetSnapshot()
	}
	return nil
}

// DefaultOptions returns a variable-size queue of DefaultCapacity bytes.
func DefaultOptions() *Options {
	return &Options{
		Capacity:         DefaultCapacity,
		ElementSize:      0,     // Variable-size records
		MaxElementSize:   0,     // No limit
		AutoSync:         false, // Header writes are not synced
		Logger:           nil,   // No logging
		MetricsCollector: nil,   // No metrics
	}
}

// Open opens the named queue on m, creating it if needed.
// If opts is nil, default options are used.
func Open(m Medium, name string, opts *Options) (*Queue, error) {
	var qopts *queue.Options
	if opts == nil {
		qopts = queue.DefaultOptions()
	} else {
		metricsCollector := opts.MetricsCollector
		if metricsCollector == nil {
			metricsCollector = metrics.NoopCollector{}
		}

		qopts = &queue.Options{
			Capacity:         opts.Capacity,
			ElementSize:      opts.ElementSize,
			MaxElementSize:   opts.MaxElementSize,
			AutoSync:         opts.AutoSync,
			Logger:           convertLogger(opts.Logger),
			MetricsCollector: metricsCollector,
		}
	}

	q, err := queue.Open(m, name, qopts)
	if err != nil {
		return nil, err
	}

	return &Queue{q: q}, nil
}

// Init re-reads the queue header from the medium.
func (q *Queue) Init() error {
	return q.q.Init()
}

// Enqueue appends a record.
func (q *Queue) Enqueue(payload []byte) error {
	return q.q.Enqueue(payload)
}

// Front returns the oldest record without removing it.
func (q *Queue) Front() ([]byte, error) {
	return q.q.Front()
}

// FrontInto copies the oldest record into buf without removing it.
func (q *Queue) FrontInto(buf []byte) (int, error) {
	return q.q.FrontInto(buf)
}

// Dequeue removes and returns the oldest record.
func (q *Queue) Dequeue() ([]byte, error) {
	return q.q.Dequeue()
}

// DequeueInto removes the oldest record, copying it into buf.
func (q *Queue) DequeueInto(buf []byte) (int, error) {
	return q.q.DequeueInto(buf)
}

// Drop removes the oldest record without reading it.
func (q *Queue) Drop() error {
	return q.q.Drop()
}

// Drain passes records to fn in order, removing each once fn accepts it.
func (q *Queue) Drain(fn func(payload []byte) error) (int, error) {
	return q.q.Drain(fn)
}

// Peek returns up to n records from the front without removing them.
func (q *Queue) Peek(n int) ([][]byte, error) {
	return q.q.Peek(n)
}

// IsEmpty reports whether the queue holds no records.
func (q *Queue) IsEmpty() bool {
	return q.q.IsEmpty()
}

// Count returns the number of stored records.
func (q *Queue) Count() int {
	return q.q.Count()
}

// Size returns the total payload bytes stored.
func (q *Queue) Size() int {
	return q.q.Size()
}

// AvailableSpace returns the largest payload the next Enqueue accepts.
func (q *Queue) AvailableSpace() int {
	return q.q.AvailableSpace()
}

// FrontIndex returns the logical offset of the oldest record.
func (q *Queue) FrontIndex() uint32 {
	return q.q.FrontIndex()
}

// BackIndex returns the logical offset of the next write.
func (q *Queue) BackIndex() uint32 {
	return q.q.BackIndex()
}

// Capacity returns the size of the data region.
func (q *Queue) Capacity() uint32 {
	return q.q.Capacity()
}

// Footprint returns the size of the queue file on the medium.
func (q *Queue) Footprint() (int64, error) {
	return q.q.Footprint()
}

// Stats returns current queue statistics.
func (q *Queue) Stats() *Stats {
	return q.q.Stats()
}

// Sync flushes the queue file.
func (q *Queue) Sync() error {
	return q.q.Sync()
}

// Close releases the queue file, leaving it on the medium.
func (q *Queue) Close() error {
	return q.q.Close()
}

// Free deletes the queue file and, if releaseMedium is set, unmounts the
// medium.
func (q *Queue) Free(releaseMedium bool) error {
	return q.q.Free(releaseMedium)
}

func convertLogger(l Logger) logging.Logger {
	if l == nil {
		return logging.NoopLogger{}
	}
	return &loggerAdapter{l: l}
}

// loggerAdapter adapts public Logger to internal logging.Logger
type loggerAdapter struct {
	l Logger
}

func (a *loggerAdapter) Debug(msg string, fields ...logging.Field) {
	a.l.Debug(msg, convertFields(fields)...)
}

func (a *loggerAdapter) Info(msg string, fields ...logging.Field) {
	a.l.Info(msg, convertFields(fields)...)
}

func (a *loggerAdapter) Warn(msg string, fields ...logging.Field) {
	a.l.Warn(msg, convertFields(fields)...)
}

func (a *loggerAdapter) Error(msg string, fields ...logging.Field) {
	a.l.Error(msg, convertFields(fields)...)
}

func convertFields(fields []logging.Field) []LogField {
	result := make([]LogField, len(fields))
	for i, f := range fields {
		result[i] = LogField{Key: f.Key, Value: f.Value}
	}
	return result
}
