package filesort

// chunk is a fixed-capacity buffer of int32 values shared across the three
// phases that touch a piece of input in sequence: ingest fills it, the
// parallel sorter (internal/pmsort) sorts it in place, and the run-file
// writer drains it. Only one phase holds a chunk at a time — spec.md's
// single-owner-at-a-time invariant for the shared workspace — so the type
// itself does no locking, it just tracks how much of its backing array is
// live.
type chunk struct {
	data []int32
	n    int
}

// newChunk allocates a chunk able to hold up to capacity int32 values.
func newChunk(capacity int) *chunk {
	return &chunk{data: make([]int32, capacity)}
}

// reset marks the chunk empty without releasing its backing array, so the
// same allocation is reused across every chunk read during ingest.
func (c *chunk) reset() {
	c.n = 0
}

// values returns the live portion of the chunk's backing array.
func (c *chunk) values() []int32 {
	return c.data[:c.n]
}

func (c *chunk) cap() int {
	return len(c.data)
}

func (c *chunk) len() int {
	return c.n
}

func (c *chunk) full() bool {
	return c.n == len(c.data)
}

// push appends v to the chunk. The caller must check full() first; push
// panics on overflow rather than silently growing, since a chunk's
// capacity is fixed for the lifetime of a Sort call by WithBufferBytes.
func (c *chunk) push(v int32) {
	c.data[c.n] = v
	c.n++
}
