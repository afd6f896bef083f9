package queue

import (
	"fmt"

	"github.com/vnykmshr/ringq/internal/format"
	"github.com/vnykmshr/ringq/internal/logging"
)

// persist writes next's front, back and count to the start of the store and
// adopts next as the queue state once the write succeeds.
func (q *Queue) persist(next format.Header) error {
	if q.closed {
		return ErrClosed
	}

	err := writeAt(q.file, 0, next.MarshalState())
	if err == nil && q.opts.AutoSync {
		if syncErr := q.file.Sync(); syncErr != nil {
			err = fmt.Errorf("sync failed: %w", syncErr)
		}
	}

	q.opts.MetricsCollector.RecordPersist(err == nil)
	if err != nil {
		q.opts.Logger.Error("failed to persist header",
			logging.F("front", next.Front),
			logging.F("back", next.Back),
			logging.F("count", next.Count),
			logging.F("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	q.hdr = next
	q.opts.Logger.Debug("header persisted",
		logging.F("front", next.Front),
		logging.F("back", next.Back),
		logging.F("count", next.Count),
	)
	return nil
}

// Sync flushes the store to the medium.
func (q *Queue) Sync() error {
	if q.closed {
		return ErrClosed
	}
	if err := q.file.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrIO, q.name, err)
	}
	return nil
}

// Close releases the file handle, leaving the store on the medium. Reopening
// it with the same options resumes the queue. Closing a closed queue is a
// no-op.
func (q *Queue) Close() error {
	if q.closed {
		return nil
	}

	q.closed = true
	err := q.file.Close()
	q.file = nil

	if err != nil {
		q.opts.Logger.Error("failed to close queue",
			logging.F("name", q.name),
			logging.F("error", err.Error()),
		)
		return fmt.Errorf("failed to close %s: %w", q.name, err)
	}

	q.opts.Logger.Info("queue closed", logging.F("name", q.name))
	return nil
}

// Free deletes the store and resets the queue, including its name. When
// releaseMedium is set the medium is unmounted afterwards.
//
// A closed queue can still be freed. If the store cannot be deleted the
// error is returned and the queue is left unchanged. After a successful Free
// every operation returns ErrClosed.
func (q *Queue) Free(releaseMedium bool) error {
	name := q.name
	if name == "" {
		return ErrClosed
	}

	if err := q.medium.Remove(name); err != nil {
		q.opts.Logger.Error("failed to remove queue store",
			logging.F("name", name),
			logging.F("error", err.Error()),
		)
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}

	if q.file != nil {
		_ = q.file.Close()
		q.file = nil
	}
	q.closed = true
	q.name = ""
	q.hdr = format.Header{}
	q.capacity = 0
	q.updateMetrics()

	q.opts.Logger.Info("queue freed",
		logging.F("name", name),
		logging.F("release_medium", releaseMedium),
	)

	if releaseMedium {
		if err := q.medium.Unmount(); err != nil {
			q.opts.Logger.Error("failed to unmount medium", logging.F("error", err.Error()))
			return fmt.Errorf("failed to unmount medium: %w", err)
		}
	}

	return nil
}
