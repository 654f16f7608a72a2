package wirebloom

import (
	"unsafe"

	"github.com/spaolacci/murmur3"
)

// Hash64 returns the low 64 bits of the MurmurHash3 x64_128 digest of data
// using the given seed. The high 64 bits are discarded.
//
// This is the hash every producer of filter bytes must agree on. Changing it
// breaks compatibility with all previously produced filters.
func Hash64(data []byte, seed uint32) uint64 {
	h1, _ := murmur3.Sum128WithSeed(data, seed)
	return h1
}

// bitIndex maps a key to its bit position for hash function i.
func bitIndex(data []byte, i uint32, numBits uint32) uint64 {
	return Hash64(data, i) % uint64(numBits)
}

// stringBytes returns the bytes of s without copying. The result must not
// be modified.
func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
