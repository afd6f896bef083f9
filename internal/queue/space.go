package queue

// IsEmpty reports whether the queue holds no records.
func (q *Queue) IsEmpty() bool {
	return q.hdr.Count == 0
}

// Count returns the number of stored records.
func (q *Queue) Count() int {
	return int(q.hdr.Count)
}

// Capacity returns the size of the data region in bytes.
func (q *Queue) Capacity() uint32 {
	return q.capacity
}

// FrontIndex returns the logical offset of the next record to read.
func (q *Queue) FrontIndex() uint32 {
	return q.hdr.Front
}

// BackIndex returns the logical offset where the next record will be written.
func (q *Queue) BackIndex() uint32 {
	return q.hdr.Back
}

// Size returns the total payload bytes stored, excluding length prefixes.
func (q *Queue) Size() int {
	return int(q.hdr.Used(q.capacity)) - q.overhead()
}

// AvailableSpace returns the largest payload the next Enqueue accepts.
//
// In variable mode the next record's length prefix is reserved first, so a
// queue with two or fewer free bytes reports 0.
func (q *Queue) AvailableSpace() int {
	gross := int(q.capacity) - (q.Size() + q.overhead())
	next := int(q.hdr.Mode.PrefixSize())
	if gross <= next {
		return 0
	}
	return gross - next
}

// overhead returns the bytes taken by length prefixes of stored records.
func (q *Queue) overhead() int {
	return int(q.hdr.Count) * int(q.hdr.Mode.PrefixSize())
}

// updateMetrics publishes the current state to the metrics collector.
func (q *Queue) updateMetrics() {
	q.opts.MetricsCollector.UpdateQueueState(
		uint64(q.hdr.Count),
		uint64(q.Size()),           //nolint:gosec // G115: Validate rejects headers whose offsets cannot hold their records
		uint64(q.AvailableSpace()), //nolint:gosec // G115: AvailableSpace is never negative
		uint64(q.hdr.Front),
		uint64(q.hdr.Back),
	)
}
