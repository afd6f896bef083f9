package queue

// Stats summarizes a queue's state.
type Stats struct {
	// Name is the store name within the medium
	Name string `json:"name"`

	// Mode is "variable" or "fixed(N)"
	Mode string `json:"mode"`

	// Capacity is the size of the data region in bytes
	Capacity uint32 `json:"capacity"`

	// HeaderSize is the number of bytes before the data region
	HeaderSize int `json:"header_size"`

	// Records is the number of stored records
	Records int `json:"records"`

	// SizeBytes is the total payload stored, excluding length prefixes
	SizeBytes int `json:"size_bytes"`

	// AvailableBytes is the largest payload the next enqueue accepts
	AvailableBytes int `json:"available_bytes"`

	// FrontOffset and BackOffset are logical offsets in the data region
	FrontOffset uint32 `json:"front_offset"`
	BackOffset  uint32 `json:"back_offset"`

	// Wrapped is true when the stored bytes run past the end of the data region
	Wrapped bool `json:"wrapped"`
}

// Stats returns current queue statistics.
func (q *Queue) Stats() *Stats {
	h := q.hdr
	return &Stats{
		Name:           q.name,
		Mode:           h.Mode.String(),
		Capacity:       q.capacity,
		HeaderSize:     h.Size(),
		Records:        int(h.Count),
		SizeBytes:      q.Size(),
		AvailableBytes: q.AvailableSpace(),
		FrontOffset:    h.Front,
		BackOffset:     h.Back,
		Wrapped:        h.Count > 0 && h.Back <= h.Front && h.Back != 0,
	}
}
