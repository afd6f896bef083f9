package queue

import (
	"fmt"
	"time"

	"github.com/vnykmshr/ringq/internal/format"
	"github.com/vnykmshr/ringq/internal/logging"
)

// Enqueue appends a record at the back of the queue.
//
// The record is written first and the header second; the record only becomes
// part of the queue once the header write succeeds. On ErrIO or ErrPersist
// the queue state is unchanged, although record bytes may have reached the
// medium.
func (q *Queue) Enqueue(payload []byte) error {
	start := time.Now()

	if q.closed {
		q.opts.MetricsCollector.RecordEnqueueError()
		return ErrClosed
	}

	if err := q.checkRecord(payload); err != nil {
		q.opts.MetricsCollector.RecordEnqueueError()
		q.opts.Logger.Debug("enqueue rejected",
			logging.F("size", len(payload)),
			logging.F("error", err.Error()),
		)
		return err
	}

	back, err := q.writeRecord(q.hdr.Back, payload)
	if err != nil {
		q.opts.MetricsCollector.RecordEnqueueError()
		q.opts.Logger.Error("failed to write record",
			logging.F("back", q.hdr.Back),
			logging.F("size", len(payload)),
			logging.F("error", err.Error()),
		)
		return err
	}

	next := q.hdr
	next.Back = back
	next.Count++

	if err := q.persist(next); err != nil {
		q.opts.MetricsCollector.RecordEnqueueError()
		return err
	}

	q.opts.MetricsCollector.RecordEnqueue(len(payload), time.Since(start))
	q.updateMetrics()
	q.opts.Logger.Debug("record enqueued",
		logging.F("size", len(payload)),
		logging.F("back", q.hdr.Back),
		logging.F("count", q.hdr.Count),
	)

	return nil
}

// checkRecord validates a payload against the mode, the limits and the
// free space.
func (q *Queue) checkRecord(payload []byte) error {
	size := len(payload)
	mode := q.hdr.Mode

	if size == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidRecord)
	}
	if mode.Fixed() && size != int(mode.ElementSize()) {
		return fmt.Errorf("%w: payload is %d bytes, queue stores %d-byte records",
			ErrInvalidRecord, size, mode.ElementSize())
	}
	if size > format.MaxRecordSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d",
			ErrCapacity, size, format.MaxRecordSize)
	}
	if limit := q.opts.MaxElementSize; limit > 0 && size >= limit {
		return fmt.Errorf("%w: payload size %d is not under limit %d", ErrCapacity, size, limit)
	}
	if q.hdr.Count == format.MaxCount {
		return fmt.Errorf("%w: record count at limit %d", ErrCapacity, format.MaxCount)
	}
	if avail := q.AvailableSpace(); avail < size {
		return fmt.Errorf("%w: payload size %d, %d bytes available", ErrCapacity, size, avail)
	}
	return nil
}

// writeRecord writes the length prefix (variable mode) and the payload
// starting at logical offset pos. It returns the new back offset.
func (q *Queue) writeRecord(pos uint32, payload []byte) (uint32, error) {
	if !q.hdr.Mode.Fixed() {
		var prefix [format.LengthPrefixSize]byte
		format.PutLengthPrefix(prefix[:], uint16(len(payload))) //nolint:gosec // G115: checked against MaxRecordSize

		next, err := q.writeRing(pos, prefix[:])
		if err != nil {
			return pos, fmt.Errorf("%w: write length prefix at %d: %w", ErrIO, pos, err)
		}
		pos = next
	}

	next, err := q.writeRing(pos, payload)
	if err != nil {
		return pos, fmt.Errorf("%w: write payload at %d: %w", ErrIO, pos, err)
	}
	return next, nil
}
