package queue

import (
	"errors"
	"io"
	"time"

	"github.com/vnykmshr/ringq/internal/logging"
)

// Front returns a copy of the oldest record without removing it.
func (q *Queue) Front() ([]byte, error) {
	payload, _, err := q.readFront(nil, true)
	if err != nil {
		q.opts.MetricsCollector.RecordDequeueError()
		q.logReadError("front", err)
		return nil, err
	}
	return payload, nil
}

// FrontInto copies the oldest record into buf without removing it and
// returns its length. A buffer shorter than the record yields an error
// wrapping io.ErrShortBuffer.
func (q *Queue) FrontInto(buf []byte) (int, error) {
	payload, _, err := q.readFront(buf, false)
	if err != nil {
		q.opts.MetricsCollector.RecordDequeueError()
		q.logReadError("front", err)
		return 0, err
	}
	return len(payload), nil
}

// Dequeue removes the oldest record and returns it.
//
// The front offset only advances once the header write succeeds; on any
// error the record stays at the front of the queue.
func (q *Queue) Dequeue() ([]byte, error) {
	start := time.Now()

	payload, next, err := q.readFront(nil, true)
	if err == nil {
		err = q.advance(next)
	}
	if err != nil {
		q.opts.MetricsCollector.RecordDequeueError()
		q.logReadError("dequeue", err)
		return nil, err
	}

	q.recordDequeue(len(payload), start)
	return payload, nil
}

// DequeueInto removes the oldest record, copying it into buf, and returns
// its length. A buffer shorter than the record yields an error wrapping
// io.ErrShortBuffer and leaves the queue unchanged.
func (q *Queue) DequeueInto(buf []byte) (int, error) {
	start := time.Now()

	payload, next, err := q.readFront(buf, false)
	if err == nil {
		err = q.advance(next)
	}
	if err != nil {
		q.opts.MetricsCollector.RecordDequeueError()
		q.logReadError("dequeue", err)
		return 0, err
	}

	q.recordDequeue(len(payload), start)
	return len(payload), nil
}

// Drop removes the oldest record without reading its payload.
func (q *Queue) Drop() error {
	start := time.Now()

	err := q.checkReadable()
	var n int
	if err == nil {
		var payloadPos uint32
		n, payloadPos, err = q.recordAt(q.hdr.Front, q.Size())
		if err == nil {
			err = q.advance((payloadPos + uint32(n)) % q.capacity) //nolint:gosec // G115: n is a uint16 length
		}
	}
	if err != nil {
		q.opts.MetricsCollector.RecordDequeueError()
		q.logReadError("drop", err)
		return err
	}

	q.recordDequeue(n, start)
	return nil
}

// Drain dequeues records in order, passing each to fn, until the queue is
// empty. A record is removed only after fn returns nil; when fn fails Drain
// stops and returns that error with the record still queued. It returns the
// number of records removed.
func (q *Queue) Drain(fn func(payload []byte) error) (int, error) {
	drained := 0
	for !q.IsEmpty() {
		start := time.Now()

		payload, next, err := q.readFront(nil, true)
		if err != nil {
			q.opts.MetricsCollector.RecordDequeueError()
			q.logReadError("drain", err)
			return drained, err
		}

		if err := fn(payload); err != nil {
			return drained, err
		}

		if err := q.advance(next); err != nil {
			q.opts.MetricsCollector.RecordDequeueError()
			q.logReadError("drain", err)
			return drained, err
		}

		q.recordDequeue(len(payload), start)
		drained++
	}

	if q.closed {
		return drained, ErrClosed
	}
	return drained, nil
}

// Peek returns copies of up to n records from the front without removing
// them, oldest first.
func (q *Queue) Peek(n int) ([][]byte, error) {
	if err := q.checkReadable(); err != nil {
		if errors.Is(err, ErrEmpty) {
			return nil, nil
		}
		return nil, err
	}

	if n > int(q.hdr.Count) {
		n = int(q.hdr.Count)
	}

	records := make([][]byte, 0, max(n, 0))
	pos, remaining := q.hdr.Front, q.Size()
	for range n {
		payload, next, err := q.readRecordAt(pos, remaining, nil, true)
		if err != nil {
			q.logReadError("peek", err)
			return records, err
		}
		records = append(records, payload)
		pos = next
		remaining -= len(payload)
	}

	return records, nil
}

// checkReadable reports why no record can be read, if any.
func (q *Queue) checkReadable() error {
	if q.closed {
		return ErrClosed
	}
	if q.hdr.Count == 0 {
		return ErrEmpty
	}
	return nil
}

func (q *Queue) readFront(dst []byte, alloc bool) ([]byte, uint32, error) {
	if err := q.checkReadable(); err != nil {
		return nil, 0, err
	}
	return q.readRecordAt(q.hdr.Front, q.Size(), dst, alloc)
}

// advance removes the front record by persisting the new front offset.
func (q *Queue) advance(front uint32) error {
	next := q.hdr
	next.Front = front
	next.Count--
	return q.persist(next)
}

func (q *Queue) recordDequeue(size int, start time.Time) {
	q.opts.MetricsCollector.RecordDequeue(size, time.Since(start))
	q.updateMetrics()
	q.opts.Logger.Debug("record dequeued",
		logging.F("size", size),
		logging.F("front", q.hdr.Front),
		logging.F("count", q.hdr.Count),
	)
}

// logReadError logs read-side failures. Empty and closed queues and short
// caller buffers are expected conditions and only logged at debug level.
func (q *Queue) logReadError(op string, err error) {
	if errors.Is(err, ErrEmpty) || errors.Is(err, ErrClosed) || errors.Is(err, io.ErrShortBuffer) {
		q.opts.Logger.Debug(op+" rejected", logging.F("error", err.Error()))
		return
	}
	q.opts.Logger.Error(op+" failed",
		logging.F("front", q.hdr.Front),
		logging.F("error", err.Error()),
	)
}
