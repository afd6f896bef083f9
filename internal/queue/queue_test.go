package queue

import (
	"errors"
	"hash/crc32"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/ringq/internal/format"
	"github.com/vnykmshr/ringq/internal/medium"
)

func TestOpen_CreatesEmptyQueue(t *testing.T) {
	q, m := setupQueue(t, nil)

	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Count())
	assert.Equal(t, 0, q.Size())
	assert.Equal(t, uint32(DefaultCapacity), q.Capacity())
	assert.Equal(t, DefaultCapacity-format.LengthPrefixSize, q.AvailableSpace())
	assert.Zero(t, q.FrontIndex())
	assert.Zero(t, q.BackIndex())

	size, err := q.Footprint()
	require.NoError(t, err)
	assert.Equal(t, int64(headerSize), size)

	assert.True(t, m.Mounted(), "Open mounts the medium")
	assert.Equal(t, (&format.Header{}).Marshal(), readStore(t, m, testQueueName))
}

func TestEnqueueDequeue_RoundTrip(t *testing.T) {
	q, m := setupQueue(t, nil)

	require.NoError(t, q.Enqueue([]byte("hello")))
	assert.Equal(t, 1, q.Count())
	assert.Equal(t, 5, q.Size())
	assert.Equal(t, uint32(7), q.BackIndex())

	// Header then [len=5][hello]
	want := []byte{0, 0, 0, 0, 7, 0, 0, 0, 1, 0, format.HeaderFlagNone, 5, 0, 'h', 'e', 'l', 'l', 'o'}
	assert.Equal(t, want, readStore(t, m, testQueueName))

	front, err := q.Front()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), front)
	assert.Equal(t, 1, q.Count(), "Front does not consume")

	got, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	assert.True(t, q.IsEmpty())
	assert.Equal(t, uint32(7), q.FrontIndex())
	assert.Equal(t, uint32(7), q.BackIndex())
	assert.Equal(t, 0, q.Size())
}

func TestChecksum_AcrossWraps(t *testing.T) {
	q, _ := setupQueue(t, capacityOptions(2048))

	seq := 0
	for round := range 4 {
		var in, out uint32
		n := 0

		for {
			p := makeSeq(seq%80+1, byte(seq))
			seq++

			err := q.Enqueue(p)
			if errors.Is(err, ErrCapacity) {
				break
			}
			require.NoError(t, err)
			in = crc32.Update(in, crc32.IEEETable, p)
			n++
		}
		require.Positive(t, n, "round %d", round)

		for !q.IsEmpty() {
			p, err := q.Dequeue()
			require.NoError(t, err)
			out = crc32.Update(out, crc32.IEEETable, p)
			n--
		}

		assert.Zero(t, n, "round %d", round)
		assert.Equal(t, in, out, "round %d", round)
		assert.Equal(t, q.FrontIndex(), q.BackIndex())
	}
}

func TestCapacityBound(t *testing.T) {
	const capacity = 2048
	q, _ := setupQueue(t, capacityOptions(capacity))

	for i := 0; ; i++ {
		err := q.Enqueue(makeSeq(i%97+1, byte(i)))
		used := q.Size() + q.Count()*format.LengthPrefixSize
		require.LessOrEqual(t, used, capacity)

		if err != nil {
			require.ErrorIs(t, err, ErrCapacity)
			break
		}
	}
}

func TestBookkeeping(t *testing.T) {
	q, _ := setupQueue(t, capacityOptions(1024))

	for i := range 20 {
		count, size := q.Count(), q.Size()
		p := makeSeq(i+1, 0)

		require.NoError(t, q.Enqueue(p))
		assert.Equal(t, count+1, q.Count())
		assert.Equal(t, size+len(p), q.Size())
	}

	for !q.IsEmpty() {
		count, size, back := q.Count(), q.Size(), q.BackIndex()

		p, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, count-1, q.Count())
		assert.Equal(t, size-len(p), q.Size())
		assert.Equal(t, back, q.BackIndex(), "dequeue never moves back")
	}
}

func TestWraparound(t *testing.T) {
	q, _ := setupQueue(t, capacityOptions(1024))

	// 100-byte records take 102 bytes; ten fit and leave 4 bytes.
	first := enqueueN(t, q, 10, 100)
	require.ErrorIs(t, q.Enqueue(makeSeq(100, 0)), ErrCapacity)
	assert.Equal(t, uint32(1020), q.BackIndex())
	assert.Equal(t, 2, q.AvailableSpace())

	got := dequeueN(t, q, 5)
	assert.Equal(t, first[:5], got)
	assert.Equal(t, uint32(510), q.FrontIndex())

	second := make([][]byte, 5)
	for i := range second {
		second[i] = makeSeq(100, byte(100+i))
		require.NoError(t, q.Enqueue(second[i]))
	}

	// The first refill record starts at 1020 and ends at 98.
	assert.Equal(t, uint32(506), q.BackIndex())
	assert.Less(t, q.BackIndex(), q.FrontIndex())
	assert.Equal(t, 10, q.Count())
	assert.Equal(t, 1000, q.Size())
	assert.Equal(t, 2, q.AvailableSpace())
	assert.True(t, q.Stats().Wrapped)

	want := append(first[5:], second...)
	assert.Equal(t, want, dequeueN(t, q, 10))
	assert.True(t, q.IsEmpty())
	assert.Equal(t, q.FrontIndex(), q.BackIndex())
}

func TestWraparound_SplitLengthPrefix(t *testing.T) {
	q, m := setupQueue(t, capacityOptions(16))

	// Move back to 15 so the next prefix straddles the region end.
	enqueueN(t, q, 1, 13)
	dequeueN(t, q, 1)
	require.Equal(t, uint32(15), q.BackIndex())

	p := []byte("abcde")
	require.NoError(t, q.Enqueue(p))
	assert.Equal(t, uint32(6), q.BackIndex())

	raw := readStore(t, m, testQueueName)
	hs := headerSize
	assert.Equal(t, byte(5), raw[hs+15], "low prefix byte at the end of the region")
	assert.Equal(t, byte(0), raw[hs], "high prefix byte at the start")
	assert.Equal(t, p, raw[hs+1:hs+6])

	got, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestWraparound_SplitPayload(t *testing.T) {
	q, m := setupQueue(t, capacityOptions(16))

	enqueueN(t, q, 1, 10)
	dequeueN(t, q, 1)
	require.Equal(t, uint32(12), q.BackIndex())

	p := []byte("ABCDEFGH")
	require.NoError(t, q.Enqueue(p))
	assert.Equal(t, uint32(6), q.BackIndex())

	raw := readStore(t, m, testQueueName)
	hs := headerSize
	assert.Equal(t, []byte{8, 0}, raw[hs+12:hs+14])
	assert.Equal(t, []byte("AB"), raw[hs+14:hs+16])
	assert.Equal(t, []byte("CDEFGH"), raw[hs:hs+6])

	got, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestExactFit(t *testing.T) {
	q, _ := setupQueue(t, capacityOptions(16))

	require.Equal(t, 14, q.AvailableSpace())
	p := makeSeq(14, 1)
	require.NoError(t, q.Enqueue(p))

	// front == back with one record: the wrapped-full state
	assert.Equal(t, q.FrontIndex(), q.BackIndex())
	assert.Equal(t, 1, q.Count())
	assert.Equal(t, 14, q.Size())
	assert.Equal(t, 0, q.AvailableSpace())
	assert.ErrorIs(t, q.Enqueue([]byte{1}), ErrCapacity)

	got, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 0, q.Size())
}

func TestAvailableSpace_ReservesNextPrefix(t *testing.T) {
	tests := []struct {
		name      string
		payloads  []int
		available int
	}{
		{"empty", nil, 8},
		{"three bytes free", []int{5}, 1},
		{"two bytes free", []int{6}, 0},
		{"full", []int{8}, 0},
		{"one byte record fills", []int{5, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := setupQueue(t, capacityOptions(10))
			for i, n := range tt.payloads {
				require.NoError(t, q.Enqueue(makeSeq(n, byte(i))))
			}
			assert.Equal(t, tt.available, q.AvailableSpace())

			err := q.Enqueue(makeSeq(tt.available+1, 0))
			assert.ErrorIs(t, err, ErrCapacity)
			if tt.available > 0 {
				assert.NoError(t, q.Enqueue(makeSeq(tt.available, 0)))
			}
		})
	}
}

func TestFixedMode(t *testing.T) {
	opts := capacityOptions(2048)
	opts.ElementSize = 80
	q, m := setupQueue(t, opts)

	assert.Equal(t, "fixed(80)", q.Mode().String())
	assert.Equal(t, 2048, q.AvailableSpace())

	raw := readStore(t, m, testQueueName)
	require.Len(t, raw, format.HeaderSize(format.Fixed(80)))
	assert.Equal(t, []byte{format.HeaderFlagFixedElement, 80, 0}, raw[format.StateSize:])

	assert.ErrorIs(t, q.Enqueue(makeSeq(79, 0)), ErrInvalidRecord)

	first := enqueueN(t, q, 25, 80)
	assert.Equal(t, 2000, q.Size())
	assert.Equal(t, 48, q.AvailableSpace())
	assert.ErrorIs(t, q.Enqueue(makeSeq(80, 0)), ErrCapacity)

	assert.Equal(t, first[:10], dequeueN(t, q, 10))

	second := make([][]byte, 10)
	for i := range second {
		second[i] = makeSeq(80, byte(50+i))
		require.NoError(t, q.Enqueue(second[i]))
	}
	// The first refill record splits 48/32 across the region end.
	assert.Equal(t, uint32(752), q.BackIndex())
	assert.Equal(t, 25, q.Count())

	want := append(first[10:], second...)
	assert.Equal(t, want, dequeueN(t, q, 25))
}

func TestEmptyQueue(t *testing.T) {
	q, _ := setupQueue(t, nil)

	_, err := q.Front()
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = q.FrontInto(make([]byte, 8))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = q.DequeueInto(make([]byte, 8))
	assert.ErrorIs(t, err, ErrEmpty)

	assert.ErrorIs(t, q.Drop(), ErrEmpty)

	records, err := q.Peek(3)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

func TestEnqueue_InvalidPayload(t *testing.T) {
	opts := DefaultOptions()
	opts.Capacity = 1 << 17
	opts.MaxElementSize = 10
	q, _ := setupQueue(t, opts)

	assert.ErrorIs(t, q.Enqueue(nil), ErrInvalidRecord)
	assert.ErrorIs(t, q.Enqueue([]byte{}), ErrInvalidRecord)
	assert.ErrorIs(t, q.Enqueue(makeSeq(10, 0)), ErrCapacity)
	assert.ErrorIs(t, q.Enqueue(makeSeq(format.MaxRecordSize+1, 0)), ErrCapacity)
	assert.NoError(t, q.Enqueue(makeSeq(9, 0)))
	assert.Equal(t, 1, q.Count())
}

func TestEnqueue_CountLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.Capacity = format.MaxCount + 100
	opts.ElementSize = 1
	q, _ := setupQueue(t, opts)

	for i := range format.MaxCount {
		require.NoError(t, q.Enqueue([]byte{byte(i)}))
	}

	assert.Positive(t, q.AvailableSpace())
	assert.ErrorIs(t, q.Enqueue([]byte{0}), ErrCapacity)
	assert.Equal(t, format.MaxCount, q.Count())
}

func TestFrontInto_ShortBuffer(t *testing.T) {
	q, _ := setupQueue(t, nil)
	require.NoError(t, q.Enqueue([]byte("payload")))

	_, err := q.FrontInto(make([]byte, 3))
	assert.ErrorIs(t, err, io.ErrShortBuffer)

	_, err = q.DequeueInto(make([]byte, 6))
	assert.ErrorIs(t, err, io.ErrShortBuffer)
	assert.Equal(t, 1, q.Count())

	buf := make([]byte, 16)
	n, err := q.FrontInto(buf)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(buf[:n]))

	n, err = q.DequeueInto(buf)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(buf[:n]))
	assert.True(t, q.IsEmpty())
}

func TestDrop(t *testing.T) {
	q, _ := setupQueue(t, nil)
	records := enqueueN(t, q, 3, 12)

	require.NoError(t, q.Drop())
	assert.Equal(t, 2, q.Count())
	assert.Equal(t, uint32(14), q.FrontIndex())

	got, err := q.Front()
	require.NoError(t, err)
	assert.Equal(t, records[1], got)
}

func TestDrain(t *testing.T) {
	q, _ := setupQueue(t, nil)
	records := enqueueN(t, q, 5, 20)

	stop := errors.New("uplink down")
	var seen [][]byte
	n, err := q.Drain(func(p []byte) error {
		if len(seen) == 2 {
			return stop
		}
		seen = append(seen, p)
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, q.Count())

	n, err = q.Drain(func(p []byte) error {
		seen = append(seen, p)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, records, seen)
	assert.True(t, q.IsEmpty())
}

func TestPeek(t *testing.T) {
	q, _ := setupQueue(t, capacityOptions(64))

	// Wrap the ring first so Peek has to follow a split record.
	enqueueN(t, q, 2, 20)
	dequeueN(t, q, 2)
	records := enqueueN(t, q, 3, 15)

	got, err := q.Peek(2)
	require.NoError(t, err)
	assert.Equal(t, records[:2], got)

	got, err = q.Peek(10)
	require.NoError(t, err)
	assert.Equal(t, records, got)
	assert.Equal(t, 3, q.Count())
}

func TestCorruptedLengthPrefix(t *testing.T) {
	q, m := setupQueue(t, nil)
	require.NoError(t, q.Enqueue([]byte("abc")))

	writeStore(t, m, testQueueName, int64(headerSize), []byte{0, 0})
	_, err := q.Front()
	assert.ErrorIs(t, err, ErrCorrupted)

	writeStore(t, m, testQueueName, int64(headerSize), []byte{0xff, 0x00})
	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrCorrupted)
	assert.Equal(t, 1, q.Count())
}

func TestPeek_CorruptedLengthPrefix(t *testing.T) {
	q, m := setupQueue(t, nil)
	require.NoError(t, q.Enqueue([]byte("aaaa")))
	require.NoError(t, q.Enqueue([]byte("bb")))
	require.NoError(t, q.Enqueue([]byte("cc")))

	// The second prefix claims 5 bytes: under the 8 stored in total, over
	// the 4 stored from the second record onwards.
	writeStore(t, m, testQueueName, int64(headerSize+6), []byte{5, 0})

	got, err := q.Peek(3)
	assert.ErrorIs(t, err, ErrCorrupted)
	assert.Equal(t, [][]byte{[]byte("aaaa")}, got)
	assert.Equal(t, 3, q.Count())
}

func TestInit_Idempotent(t *testing.T) {
	q, _ := setupQueue(t, capacityOptions(256))
	enqueueN(t, q, 4, 30)
	dequeueN(t, q, 1)

	before := q.Descriptor()
	require.NoError(t, q.Init())
	assert.Equal(t, before, q.Descriptor())
	require.NoError(t, q.Init())
	assert.Equal(t, before, q.Descriptor())
}

func TestOpen_Recovers(t *testing.T) {
	opts := capacityOptions(512)
	q, m := setupQueue(t, opts)
	records := enqueueN(t, q, 3, 40)
	dequeueN(t, q, 1)

	before := q.Descriptor()
	require.NoError(t, q.Close())

	q2, err := Open(m, testQueueName, opts)
	require.NoError(t, err)
	defer func() { _ = q2.Close() }()

	assert.Equal(t, before, q2.Descriptor())
	assert.Equal(t, records[1:], dequeueN(t, q2, 2))
}

func TestOpen_FixedModeRecovers(t *testing.T) {
	opts := capacityOptions(100)
	opts.ElementSize = 30
	q, m := setupQueue(t, opts)

	enqueueN(t, q, 3, 30)
	dequeueN(t, q, 2)
	last := enqueueN(t, q, 2, 30) // wraps at 90
	require.NoError(t, q.Close())

	q2, err := Open(m, testQueueName, opts)
	require.NoError(t, err)
	defer func() { _ = q2.Close() }()

	assert.Equal(t, 3, q2.Count())
	assert.Equal(t, uint32(50), q2.BackIndex())
	got := dequeueN(t, q2, 3)
	assert.Equal(t, last, got[1:])
}

func TestOpen_RejectsForeignHeader(t *testing.T) {
	tests := []struct {
		name   string
		create *Options
		reopen func(o *Options)
		patch  []byte
	}{
		{
			name:   "front beyond capacity",
			create: capacityOptions(64),
			patch:  []byte{100, 0, 0, 0, 100, 0, 0, 0, 0, 0},
		},
		{
			name:   "empty with front != back",
			create: capacityOptions(64),
			patch:  []byte{1, 0, 0, 0, 2, 0, 0, 0, 0, 0},
		},
		{
			name:   "variable store opened as fixed",
			create: capacityOptions(64),
			reopen: func(o *Options) { o.ElementSize = 8 },
		},
		{
			name: "fixed store opened as variable",
			create: func() *Options {
				o := capacityOptions(64)
				o.ElementSize = 8
				return o
			}(),
			reopen: func(o *Options) { o.ElementSize = 0 },
		},
		{
			name:   "count exceeds offsets",
			create: capacityOptions(64),
			patch:  []byte{0, 0, 0, 0, 1, 0, 0, 0, 5, 0},
		},
		{
			name: "fixed count disagrees with offsets",
			create: func() *Options {
				o := capacityOptions(64)
				o.ElementSize = 8
				return o
			}(),
			patch: []byte{0, 0, 0, 0, 10, 0, 0, 0, 1, 0},
		},
		{
			name: "element size mismatch",
			create: func() *Options {
				o := capacityOptions(64)
				o.ElementSize = 8
				return o
			}(),
			reopen: func(o *Options) { o.ElementSize = 16 },
		},
		{
			name:   "smaller capacity",
			create: capacityOptions(64),
			patch:  []byte{40, 0, 0, 0, 40, 0, 0, 0, 0, 0},
			reopen: func(o *Options) { o.Capacity = 32 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, m := setupQueue(t, tt.create)
			require.NoError(t, q.Close())

			if tt.patch != nil {
				writeStore(t, m, testQueueName, 0, tt.patch)
			}

			opts := *tt.create
			if tt.reopen != nil {
				tt.reopen(&opts)
			}

			_, err := Open(m, testQueueName, &opts)
			assert.ErrorIs(t, err, ErrInit)
		})
	}
}

func TestOpen_FixedStoreKeepsMode(t *testing.T) {
	opts := capacityOptions(64)
	opts.ElementSize = 8
	q, m := setupQueue(t, opts)
	require.NoError(t, q.Enqueue([]byte("ABCDEFGH")))
	require.NoError(t, q.Close())

	_, err := Open(m, testQueueName, capacityOptions(64))
	require.ErrorIs(t, err, ErrInit)
	assert.Contains(t, err.Error(), "fixed-size")

	q2, err := Open(m, testQueueName, opts)
	require.NoError(t, err)
	defer func() { _ = q2.Close() }()

	got, err := q2.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, []byte("ABCDEFGH"), got)
}

func TestOpen_ShortHeader(t *testing.T) {
	m := medium.NewMemory()
	require.NoError(t, m.Mount())

	f, err := m.Create(testQueueName)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Open(m, testQueueName, nil)
	assert.ErrorIs(t, err, ErrInit)
}

func TestOpen_InvalidArguments(t *testing.T) {
	m := medium.NewMemory()

	_, err := Open(m, "../escape", nil)
	assert.ErrorIs(t, err, ErrInit)

	opts := DefaultOptions()
	opts.Capacity = 2
	_, err = Open(m, testQueueName, opts)
	assert.ErrorIs(t, err, ErrInit)
}

func TestIsolation(t *testing.T) {
	m := medium.NewMemory()

	a, err := Open(m, "a.q", capacityOptions(1024))
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	b, err := Open(m, "b.q", capacityOptions(2048))
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	for i := 0; ; i++ {
		if err := a.Enqueue(makeSeq(50, byte(i))); err != nil {
			require.ErrorIs(t, err, ErrCapacity)
			break
		}
	}

	assert.True(t, b.IsEmpty())
	assert.Equal(t, 2046, b.AvailableSpace())
	require.NoError(t, b.Enqueue([]byte("independent")))

	_, err = a.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, b.Count())
}

func TestFree(t *testing.T) {
	q, m := setupQueue(t, nil)
	enqueueN(t, q, 2, 8)

	require.NoError(t, q.Free(false))

	_, err := m.Stat(testQueueName)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.True(t, m.Mounted())

	assert.Equal(t, 0, q.Count())
	assert.Equal(t, 0, q.Size())
	assert.Equal(t, uint32(0), q.Capacity())
	assert.Equal(t, Descriptor{}, q.Descriptor())
	assert.Empty(t, q.Name())
	assert.ErrorIs(t, q.Enqueue([]byte("x")), ErrClosed)
	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = q.Footprint()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, q.Free(false), ErrClosed)
	assert.NoError(t, q.Close())
}

func TestFree_AfterClose(t *testing.T) {
	q, m := setupQueue(t, nil)
	enqueueN(t, q, 1, 8)
	require.NoError(t, q.Close())

	require.NoError(t, q.Free(false))

	_, err := m.Stat(testQueueName)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, q.Descriptor().Name)
	assert.ErrorIs(t, q.Free(false), ErrClosed)
}

func TestFree_ReleasesMedium(t *testing.T) {
	q, m := setupQueue(t, nil)

	require.NoError(t, q.Free(true))
	assert.False(t, m.Mounted())
}

func TestClosedQueue(t *testing.T) {
	q, _ := setupQueue(t, nil)
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	assert.ErrorIs(t, q.Enqueue([]byte("x")), ErrClosed)
	assert.ErrorIs(t, q.Init(), ErrClosed)
	assert.ErrorIs(t, q.Sync(), ErrClosed)
	assert.ErrorIs(t, q.Drop(), ErrClosed)
	_, err := q.Peek(1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStats(t *testing.T) {
	q, _ := setupQueue(t, capacityOptions(100))
	enqueueN(t, q, 2, 10)

	stats := q.Stats()
	assert.Equal(t, testQueueName, stats.Name)
	assert.Equal(t, "variable", stats.Mode)
	assert.Equal(t, uint32(100), stats.Capacity)
	assert.Equal(t, headerSize, stats.HeaderSize)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 20, stats.SizeBytes)
	assert.Equal(t, 74, stats.AvailableBytes)
	assert.Equal(t, uint32(0), stats.FrontOffset)
	assert.Equal(t, uint32(24), stats.BackOffset)
	assert.False(t, stats.Wrapped)
}

func TestLocalMedium(t *testing.T) {
	m := medium.NewLocal(t.TempDir())
	opts := capacityOptions(128)
	opts.AutoSync = true

	q, err := Open(m, "local.q", opts)
	require.NoError(t, err)
	records := enqueueN(t, q, 4, 20)
	require.NoError(t, q.Sync())

	size, err := q.Footprint()
	require.NoError(t, err)
	assert.Equal(t, int64(headerSize+4*22), size)
	require.NoError(t, q.Close())

	q, err = Open(m, "local.q", opts)
	require.NoError(t, err)
	assert.Equal(t, records, dequeueN(t, q, 4))
	require.NoError(t, q.Free(true))
	assert.False(t, m.Mounted())
}
