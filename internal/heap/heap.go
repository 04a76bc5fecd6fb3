// Package heap implements a fixed-capacity binary min-heap over (key, src)
// pairs, used by the K-way merger as its priority queue.
//
// The heap stores keys and source indices in separate slices (struct of
// arrays) rather than a slice of structs, the same layout used by the
// teacher's bucket heap; it keeps the hot comparison loop (on keys) free of
// unrelated payload bytes.
package heap

// Heap is a binary min-heap of (key, src) pairs, keyed on key using
// ordinary signed-integer comparison. Ties between equal keys are broken
// arbitrarily: duplicate values in the input are indistinguishable, so no
// tie-break rule is required.
type Heap struct {
	keys []int32
	srcs []uint16
}

// New creates a heap with the given fixed capacity.
func New(capacity int) *Heap {
	return &Heap{
		keys: make([]int32, 0, capacity),
		srcs: make([]uint16, 0, capacity),
	}
}

// Reset clears the heap for reuse without releasing its backing arrays.
func (h *Heap) Reset() {
	h.keys = h.keys[:0]
	h.srcs = h.srcs[:0]
}

// Len reports the number of elements currently in the heap.
func (h *Heap) Len() int {
	return len(h.keys)
}

// Empty reports whether the heap currently holds no elements.
func (h *Heap) Empty() bool {
	return len(h.keys) == 0
}

// Insert adds (key, src) to the heap and restores the min-heap property.
// The caller must not exceed the capacity passed to New.
func (h *Heap) Insert(key int32, src uint16) {
	h.keys = append(h.keys, key)
	h.srcs = append(h.srcs, src)
	h.up(len(h.keys) - 1)
}

// Pop removes and returns the minimum (key, src) pair.
// Pop must not be called on an empty heap.
func (h *Heap) Pop() (key int32, src uint16) {
	n := len(h.keys) - 1
	key, src = h.keys[0], h.srcs[0]

	h.keys[0] = h.keys[n]
	h.srcs[0] = h.srcs[n]
	h.keys = h.keys[:n]
	h.srcs = h.srcs[:n]

	if n > 0 {
		h.down(0)
	}
	return key, src
}

func parent(i int) int { return (i - 1) / 2 }
func left(i int) int   { return 2*i + 1 }
func right(i int) int  { return 2*i + 2 }

func (h *Heap) swap(i, j int) {
	h.keys[i], h.keys[j] = h.keys[j], h.keys[i]
	h.srcs[i], h.srcs[j] = h.srcs[j], h.srcs[i]
}

func (h *Heap) up(i int) {
	for i != 0 {
		p := parent(i)
		if h.keys[p] <= h.keys[i] {
			break
		}
		h.swap(i, p)
		i = p
	}
}

func (h *Heap) down(i int) {
	n := len(h.keys)
	for {
		l, r := left(i), right(i)
		min := i
		if l < n && h.keys[l] < h.keys[min] {
			min = l
		}
		if r < n && h.keys[r] < h.keys[min] {
			min = r
		}
		if min == i {
			break
		}
		h.swap(i, min)
		i = min
	}
}
