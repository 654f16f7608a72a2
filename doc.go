// Package wirebloom provides a Bloom filter whose bytes are a wire format.
//
// A bloom filter is a space-efficient probabilistic data structure that tests
// whether an element is a member of a set. False positive matches are possible,
// but false negatives are not: if the filter says an element is not present,
// it definitely is not. If it says an element might be present, it could be a
// false positive.
//
// Unlike general purpose filters, the layout used here is fixed so that a
// filter built by one party (typically a server) can be loaded and queried by
// another without translation.
//
// # Wire Format
//
// A filter is described by three values:
//
//   - the number of hash functions k
//   - the number of addressable bits m
//   - a byte slice of at least ceil(m/8) bytes
//
// k and m are not stored in the bytes; they travel alongside them, see [Params].
//
// Bit n is stored in byte n/8 at bit position n%8, least-significant bit
// first. For a key s, the i-th bit position (i from 0 to k-1) is:
//
//	Hash64(s, i) % m
//
// where [Hash64] is the first 64 bits of MurmurHash3 x64_128 seeded with i.
// The reduction is a plain modulo of the 64-bit value; no masking shortcuts.
//
// Bytes past ceil(m/8), and padding bits above m in the last byte, are
// carried unchanged but never read.
//
// # Usage
//
// A producer creates an empty filter, adds keys and ships the bytes:
//
//	f, err := wirebloom.New(7, 1<<20)
//	if err != nil {
//		return err
//	}
//	f.Add("example.com/page")
//	data := f.Bytes()
//
// A consumer rebuilds it from the bytes and the out-of-band parameters:
//
//	f, err := wirebloom.FromBytes(7, 1<<20, data)
//	if err != nil {
//		return err // data too short, or zero parameters
//	}
//	if f.Contains("example.com/page") { ... }
//
// [FromBytes] is the trust boundary: it rejects zero parameters and data too
// short to cover m bits, and never truncates or zero-extends. Once a filter
// exists, Add and Contains cannot fail.
//
// # Choosing Parameters
//
// Use [OptimalParams] or [NewWithEstimates] to size a filter for an expected
// number of items and a target false positive rate:
//
//	f := wirebloom.NewWithEstimates(1_000_000, 0.01)
//
// [Filter.FillRatio], [Filter.EstimatedCount] and
// [Filter.EstimatedFalsePositiveRate] describe a live filter, including one
// loaded from bytes whose insertion count is unknown.
//
// # Envelope
//
// [Filter.MarshalBinary] and [UnmarshalBinary] wrap the bytes, k and m in a
// small checksummed envelope for callers that want one self-describing blob.
// The embedded bytes are exactly those returned by [Filter.Bytes].
//
// # Thread Safety
//
// [Filter] is NOT thread-safe and performs no atomic operations. Use external
// synchronization if a filter is shared between goroutines.
package wirebloom
