package filesort

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// multisetChecksum accumulates an order-independent digest of a stream of
// int32 values by summing xxhash.Sum64 of each value's little-endian
// encoding. Summation is commutative, so the same multiset of values
// produces the same checksum regardless of the order values are seen in —
// unlike index_writer.go's ordered hash-of-hashes fold in the teacher,
// which only works because its keys are never reordered. Ours are, since
// sorting is the whole point.
type multisetChecksum struct {
	sum uint64
}

func (c *multisetChecksum) add(v int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	c.sum += xxhash.Sum64(buf[:])
}

func (c *multisetChecksum) value() uint64 {
	return c.sum
}
