package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ringq"

// PrometheusCollector exposes a Collector's snapshot as Prometheus metrics.
// Every metric carries a "queue" label with the collector's queue name.
type PrometheusCollector struct {
	c *Collector

	enqueueTotal  *prometheus.Desc
	dequeueTotal  *prometheus.Desc
	enqueueBytes  *prometheus.Desc
	dequeueBytes  *prometheus.Desc
	errorsTotal   *prometheus.Desc
	persistTotal  *prometheus.Desc
	records       *prometheus.Desc
	sizeBytes     *prometheus.Desc
	availBytes    *prometheus.Desc
	offsets       *prometheus.Desc
	latencyP99Sec *prometheus.Desc
}

// NewPrometheusCollector wraps c for registration with a prometheus.Registerer.
func NewPrometheusCollector(c *Collector) *PrometheusCollector {
	labels := prometheus.Labels{"queue": c.queueName}
	desc := func(name, help string, variable ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, variable, labels)
	}

	return &PrometheusCollector{
		c:             c,
		enqueueTotal:  desc("enqueue_total", "Records successfully enqueued."),
		dequeueTotal:  desc("dequeue_total", "Records successfully dequeued."),
		enqueueBytes:  desc("enqueue_bytes_total", "Payload bytes enqueued."),
		dequeueBytes:  desc("dequeue_bytes_total", "Payload bytes dequeued."),
		errorsTotal:   desc("errors_total", "Failed or rejected operations.", "op"),
		persistTotal:  desc("persist_total", "Successful header writes."),
		records:       desc("records", "Records currently stored."),
		sizeBytes:     desc("size_bytes", "Payload bytes currently stored."),
		availBytes:    desc("available_bytes", "Largest payload the next enqueue accepts."),
		offsets:       desc("offset_bytes", "Logical ring offsets.", "end"),
		latencyP99Sec: desc("latency_p99_seconds", "Approximate p99 operation latency.", "op"),
	}
}

// Describe implements prometheus.Collector.
func (p *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.enqueueTotal
	ch <- p.dequeueTotal
	ch <- p.enqueueBytes
	ch <- p.dequeueBytes
	ch <- p.errorsTotal
	ch <- p.persistTotal
	ch <- p.records
	ch <- p.sizeBytes
	ch <- p.availBytes
	ch <- p.offsets
	ch <- p.latencyP99Sec
}

// Collect implements prometheus.Collector.
func (p *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	s := p.c.GetSnapshot()

	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}

	counter(p.enqueueTotal, s.EnqueueTotal)
	counter(p.dequeueTotal, s.DequeueTotal)
	counter(p.enqueueBytes, s.EnqueueBytes)
	counter(p.dequeueBytes, s.DequeueBytes)
	counter(p.errorsTotal, s.EnqueueErrors, "enqueue")
	counter(p.errorsTotal, s.DequeueErrors, "dequeue")
	counter(p.errorsTotal, s.PersistErrors, "persist")
	counter(p.persistTotal, s.PersistTotal)

	gauge(p.records, float64(s.Count))
	gauge(p.sizeBytes, float64(s.SizeBytes))
	gauge(p.availBytes, float64(s.AvailableBytes))
	gauge(p.offsets, float64(s.FrontOffset), "front")
	gauge(p.offsets, float64(s.BackOffset), "back")
	gauge(p.latencyP99Sec, s.EnqueueDurationP99.Seconds(), "enqueue")
	gauge(p.latencyP99Sec, s.DequeueDurationP99.Seconds(), "dequeue")
}
