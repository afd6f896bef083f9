package queue

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/ringq/internal/format"
	"github.com/vnykmshr/ringq/internal/medium"
)

const testQueueName = "test.q"

// headerSize is the physical offset of the data region in a variable-size store.
var headerSize = format.HeaderSize(format.Variable())

// setupQueue opens a queue on a fresh in-memory medium.
// The queue is automatically closed when the test completes.
func setupQueue(t testing.TB, opts *Options) (*Queue, *medium.Memory) {
	t.Helper()

	m := medium.NewMemory()
	q, err := Open(m, testQueueName, opts)
	require.NoError(t, err)

	t.Cleanup(func() { _ = q.Close() })

	return q, m
}

// setupFaultyQueue opens a queue on a fault-injecting medium.
func setupFaultyQueue(t *testing.T, opts *Options) (*Queue, *medium.Faulty) {
	t.Helper()

	m := medium.NewFaulty(nil)
	q, err := Open(m, testQueueName, opts)
	require.NoError(t, err)

	t.Cleanup(func() { _ = q.Close() })

	return q, m
}

// capacityOptions returns default options with the given data region size.
func capacityOptions(capacity uint32) *Options {
	opts := DefaultOptions()
	opts.Capacity = capacity
	return opts
}

// makeSeq returns n bytes counting up from seed.
func makeSeq(n int, seed byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = seed + byte(i)
	}
	return p
}

// enqueueN enqueues n records of the given size and returns them.
func enqueueN(t *testing.T, q *Queue, n, size int) [][]byte {
	t.Helper()

	records := make([][]byte, n)
	for i := range n {
		records[i] = makeSeq(size, byte(i))
		require.NoError(t, q.Enqueue(records[i]), "enqueue %d", i)
	}
	return records
}

// dequeueN dequeues n records and returns them.
func dequeueN(t *testing.T, q *Queue, n int) [][]byte {
	t.Helper()

	records := make([][]byte, n)
	for i := range n {
		p, err := q.Dequeue()
		require.NoError(t, err, "dequeue %d", i)
		records[i] = p
	}
	return records
}

// readStore returns the raw bytes of the named store.
func readStore(t *testing.T, m medium.Medium, name string) []byte {
	t.Helper()

	f, err := m.Open(name)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}

// writeStore overwrites bytes of the named store at a physical offset.
func writeStore(t *testing.T, m medium.Medium, name string, off int64, data []byte) {
	t.Helper()

	f, err := m.Open(name)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	_, err = f.Seek(off, io.SeekStart)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
}
