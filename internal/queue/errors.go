package queue

import "errors"

// Errors returned by queue operations. Callers match them with errors.Is;
// the returned errors wrap these with offsets and the underlying cause.
var (
	// ErrInit indicates the backing store could not be created, opened or
	// decoded. No queue is returned.
	ErrInit = errors.New("ringq: initialization failed")

	// ErrCapacity indicates the record does not fit in the free space, the
	// record count is at its limit, or the payload exceeds the size limit.
	ErrCapacity = errors.New("ringq: insufficient capacity")

	// ErrEmpty indicates there are no records to read.
	ErrEmpty = errors.New("ringq: queue empty")

	// ErrIO indicates a record read or write moved fewer bytes than
	// requested. The queue state is unchanged.
	ErrIO = errors.New("ringq: storage I/O failed")

	// ErrPersist indicates the header write failed after the record I/O
	// succeeded. The in-memory state was not advanced.
	ErrPersist = errors.New("ringq: header persist failed")

	// ErrInvalidRecord indicates an empty payload, or a payload whose size
	// does not match a fixed-size queue.
	ErrInvalidRecord = errors.New("ringq: invalid record")

	// ErrCorrupted indicates a stored length prefix that cannot describe a
	// record in the current queue.
	ErrCorrupted = errors.New("ringq: record corrupted")

	// ErrClosed indicates the queue has been closed or freed.
	ErrClosed = errors.New("ringq: queue closed")
)
