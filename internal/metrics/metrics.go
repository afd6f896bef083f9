// Package metrics collects operation counters and queue state for ringq.
//
// A Collector is updated by the queue owner and may be read concurrently,
// for example by a Prometheus scrape through PrometheusCollector.
//
// Usage:
//
//	collector := metrics.NewCollector("sensors")
//	prometheus.MustRegister(metrics.NewPrometheusCollector(collector))
//
//	opts := queue.DefaultOptions()
//	opts.MetricsCollector = collector
package metrics

import (
	"sync/atomic"
	"time"
)

// Collector tracks queue metrics with atomic counters.
type Collector struct {
	queueName string

	// Operation counters
	enqueueTotal  atomic.Uint64
	dequeueTotal  atomic.Uint64
	enqueueErrors atomic.Uint64
	dequeueErrors atomic.Uint64
	persistTotal  atomic.Uint64
	persistErrors atomic.Uint64

	// Payload metrics
	enqueueBytes atomic.Uint64
	dequeueBytes atomic.Uint64

	enqueueDurations *durationHistogram
	dequeueDurations *durationHistogram

	// Queue state, refreshed after every operation
	count     atomic.Uint64
	size      atomic.Uint64
	available atomic.Uint64
	front     atomic.Uint64
	back      atomic.Uint64
}

// NewCollector creates a new metrics collector for a queue.
func NewCollector(queueName string) *Collector {
	return &Collector{
		queueName:        queueName,
		enqueueDurations: newDurationHistogram(),
		dequeueDurations: newDurationHistogram(),
	}
}

// QueueName returns the name the collector was created with.
func (c *Collector) QueueName() string {
	return c.queueName
}

// RecordEnqueue records a successful enqueue operation.
func (c *Collector) RecordEnqueue(payloadSize int, duration time.Duration) {
	c.enqueueTotal.Add(1)
	c.enqueueBytes.Add(uint64(payloadSize)) //nolint:gosec // G115: payload sizes are non-negative
	c.enqueueDurations.observe(duration)
}

// RecordDequeue records a successful dequeue operation.
func (c *Collector) RecordDequeue(payloadSize int, duration time.Duration) {
	c.dequeueTotal.Add(1)
	c.dequeueBytes.Add(uint64(payloadSize)) //nolint:gosec // G115: payload sizes are non-negative
	c.dequeueDurations.observe(duration)
}

// RecordEnqueueError records a rejected or failed enqueue.
func (c *Collector) RecordEnqueueError() {
	c.enqueueErrors.Add(1)
}

// RecordDequeueError records a rejected or failed dequeue.
func (c *Collector) RecordDequeueError() {
	c.dequeueErrors.Add(1)
}

// RecordPersist records a header write.
func (c *Collector) RecordPersist(ok bool) {
	if ok {
		c.persistTotal.Add(1)
		return
	}
	c.persistErrors.Add(1)
}

// UpdateQueueState stores the latest descriptor values.
func (c *Collector) UpdateQueueState(count, size, available, front, back uint64) {
	c.count.Store(count)
	c.size.Store(size)
	c.available.Store(available)
	c.front.Store(front)
	c.back.Store(back)
}

// GetSnapshot returns a snapshot of current metrics.
func (c *Collector) GetSnapshot() *Snapshot {
	return &Snapshot{
		QueueName:          c.queueName,
		EnqueueTotal:       c.enqueueTotal.Load(),
		DequeueTotal:       c.dequeueTotal.Load(),
		EnqueueErrors:      c.enqueueErrors.Load(),
		DequeueErrors:      c.dequeueErrors.Load(),
		PersistTotal:       c.persistTotal.Load(),
		PersistErrors:      c.persistErrors.Load(),
		EnqueueBytes:       c.enqueueBytes.Load(),
		DequeueBytes:       c.dequeueBytes.Load(),
		EnqueueDurationP50: c.enqueueDurations.percentile(0.50),
		EnqueueDurationP99: c.enqueueDurations.percentile(0.99),
		DequeueDurationP50: c.dequeueDurations.percentile(0.50),
		DequeueDurationP99: c.dequeueDurations.percentile(0.99),
		Count:              c.count.Load(),
		SizeBytes:          c.size.Load(),
		AvailableBytes:     c.available.Load(),
		FrontOffset:        c.front.Load(),
		BackOffset:         c.back.Load(),
	}
}

// Reset zeroes all counters and state.
func (c *Collector) Reset() {
	c.enqueueTotal.Store(0)
	c.dequeueTotal.Store(0)
	c.enqueueErrors.Store(0)
	c.dequeueErrors.Store(0)
	c.persistTotal.Store(0)
	c.persistErrors.Store(0)
	c.enqueueBytes.Store(0)
	c.dequeueBytes.Store(0)
	c.enqueueDurations.reset()
	c.dequeueDurations.reset()
	c.UpdateQueueState(0, 0, 0, 0, 0)
}

// Snapshot is a point-in-time view of metrics.
type Snapshot struct {
	QueueName string

	EnqueueTotal  uint64
	DequeueTotal  uint64
	EnqueueErrors uint64
	DequeueErrors uint64
	PersistTotal  uint64
	PersistErrors uint64

	EnqueueBytes uint64
	DequeueBytes uint64

	// Duration percentiles (bucket upper bounds)
	EnqueueDurationP50 time.Duration
	EnqueueDurationP99 time.Duration
	DequeueDurationP50 time.Duration
	DequeueDurationP99 time.Duration

	// Queue state
	Count          uint64
	SizeBytes      uint64
	AvailableBytes uint64
	FrontOffset    uint64
	BackOffset     uint64
}

// bucketBounds are the upper bounds of the duration histogram buckets.
// A final overflow bucket catches everything above the last bound.
var bucketBounds = [...]time.Duration{
	time.Microsecond,
	10 * time.Microsecond,
	100 * time.Microsecond,
	time.Millisecond,
	10 * time.Millisecond,
	100 * time.Millisecond,
	time.Second,
}

// durationHistogram is a fixed-bucket histogram for operation latency.
// Flash writes are slow and spiky, so the buckets span µs to seconds.
type durationHistogram struct {
	buckets [len(bucketBounds) + 1]atomic.Uint64
}

func newDurationHistogram() *durationHistogram {
	return &durationHistogram{}
}

func (h *durationHistogram) observe(d time.Duration) {
	for i, bound := range bucketBounds {
		if d < bound {
			h.buckets[i].Add(1)
			return
		}
	}
	h.buckets[len(bucketBounds)].Add(1)
}

func (h *durationHistogram) reset() {
	for i := range h.buckets {
		h.buckets[i].Store(0)
	}
}

// percentile returns the upper bound of the bucket holding the p-th observation.
func (h *durationHistogram) percentile(p float64) time.Duration {
	var total uint64
	for i := range h.buckets {
		total += h.buckets[i].Load()
	}
	if total == 0 {
		return 0
	}

	target := uint64(float64(total) * p)
	if target == 0 {
		target = 1
	}

	var seen uint64
	for i := range h.buckets {
		seen += h.buckets[i].Load()
		if seen >= target {
			if i < len(bucketBounds) {
				return bucketBounds[i]
			}
			return 10 * time.Second
		}
	}
	return 0
}

// NoopCollector is a metrics collector that does nothing.
type NoopCollector struct{}

func (NoopCollector) RecordEnqueue(int, time.Duration) {}
func (NoopCollector) RecordDequeue(int, time.Duration) {}
func (NoopCollector) RecordEnqueueError() {}
func (NoopCollector) RecordDequeueError() {}
func (NoopCollector) RecordPersist(bool) {}
func (NoopCollector) UpdateQueueState(count, size, available, front, back uint64) {}
