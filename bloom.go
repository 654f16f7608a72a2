package wirebloom

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/bits"

	"k8s.io/klog/v2"
)

var (
	// ErrZeroBits is returned when a filter is configured with no bits.
	ErrZeroBits = errors.New("wirebloom: number of bits must be positive")

	// ErrZeroHashFunctions is returned when a filter is configured with no hash functions.
	ErrZeroHashFunctions = errors.New("wirebloom: number of hash functions must be positive")

	// ErrShortData is returned when supplied filter data cannot cover the
	// configured number of bits.
	ErrShortData = errors.New("wirebloom: filter data too short")
)

// Filter is a Bloom filter over strings whose bit layout and hashing are
// fixed so that its bytes can be exchanged with other implementations.
//
// Bit n of the filter lives in byte n/8 under mask 1<<(n%8). The i-th hash
// function (0-based) is Hash64 seeded with i, reduced modulo the number of
// bits.
//
// A Filter is not safe for concurrent use. Callers sharing one across
// goroutines must serialize Add against every other call.
type Filter struct {
	k       uint32 // Number of hash functions
	numBits uint32 // Addressable bits
	bytes   []byte // Backing storage, at least ceil(numBits/8) bytes
}

// New creates an empty filter with numBits bits that sets numHashFunctions
// bits per added key.
func New(numHashFunctions, numBits uint32) (*Filter, error) {
	p := Params{NumHashFunctions: numHashFunctions, NumBits: numBits}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &Filter{
		k:       numHashFunctions,
		numBits: numBits,
		bytes:   make([]byte, p.ByteLen()),
	}, nil
}

// NewWithEstimates creates an empty filter sized for the expected number of
// items and desired false positive rate.
func NewWithEstimates(expectedItems uint64, fpRate float64) *Filter {
	p := OptimalParams(expectedItems, fpRate)
	return &Filter{
		k:       p.NumHashFunctions,
		numBits: p.NumBits,
		bytes:   make([]byte, p.ByteLen()),
	}
}

// FromBytes creates a filter initialized from data, typically received from
// a remote producer together with numHashFunctions and numBits.
//
// data must hold at least numBits bits. It is copied in full, so bytes past
// the addressed range are kept (and returned by Bytes) but never consulted.
func FromBytes(numHashFunctions, numBits uint32, data []byte) (*Filter, error) {
	f, err := fromBytes(numHashFunctions, numBits, data)
	if err != nil {
		klog.V(2).InfoS("Rejecting filter data", "k", numHashFunctions, "bits", numBits, "len", len(data), "err", err)
		return nil, err
	}
	return f, nil
}

func fromBytes(numHashFunctions, numBits uint32, data []byte) (*Filter, error) {
	p := Params{NumHashFunctions: numHashFunctions, NumBits: numBits}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if uint64(len(data))*8 < uint64(numBits) {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d for %d bits",
			ErrShortData, len(data), p.ByteLen(), numBits)
	}

	return &Filter{
		k:       numHashFunctions,
		numBits: numBits,
		bytes:   bytes.Clone(data),
	}, nil
}

// Add adds s to the filter.
func (f *Filter) Add(s string) {
	f.AddBytes(stringBytes(s))
}

// AddBytes adds the key data to the filter. It is equivalent to Add with the
// same bytes as a string.
func (f *Filter) AddBytes(data []byte) {
	for i := uint32(0); i < f.k; i++ {
		n := bitIndex(data, i, f.numBits)
		f.bytes[n/8] |= 1 << (n % 8)
	}
}

// Contains reports whether s might be in the filter. False means s was
// definitely never added.
func (f *Filter) Contains(s string) bool {
	return f.ContainsBytes(stringBytes(s))
}

// ContainsBytes reports whether the key data might be in the filter.
func (f *Filter) ContainsBytes(data []byte) bool {
	for i := uint32(0); i < f.k; i++ {
		n := bitIndex(data, i, f.numBits)
		if f.bytes[n/8]&(1<<(n%8)) == 0 {
			return false
		}
	}
	return true
}

// AddIfAbsent reports whether s might already have been in the filter, then
// adds it.
func (f *Filter) AddIfAbsent(s string) bool {
	data := stringBytes(s)
	present := f.ContainsBytes(data)
	if !present {
		f.AddBytes(data)
	}
	return present
}

// Bytes returns a copy of the filter's storage, including any trailing bytes
// supplied to FromBytes.
func (f *Filter) Bytes() []byte {
	return bytes.Clone(f.bytes)
}

// K returns the number of hash functions.
func (f *Filter) K() uint32 {
	return f.k
}

// NumBits returns the number of addressable bits.
func (f *Filter) NumBits() uint32 {
	return f.numBits
}

// Params returns the parameters needed to reinterpret Bytes elsewhere.
func (f *Filter) Params() Params {
	return Params{NumHashFunctions: f.k, NumBits: f.numBits}
}

// Equal reports whether f and other have the same parameters and the same
// addressable bits set. Padding bits and trailing bytes are ignored. A nil
// other is never equal.
func (f *Filter) Equal(other *Filter) bool {
	if other == nil {
		return false
	}
	if f.k != other.k || f.numBits != other.numBits {
		return false
	}
	full := f.numBits / 8
	if !bytes.Equal(f.bytes[:full], other.bytes[:full]) {
		return false
	}
	if rem := f.numBits % 8; rem != 0 {
		mask := byte(1)<<rem - 1
		return f.bytes[full]&mask == other.bytes[full]&mask
	}
	return true
}

// setBits counts the set bits in the addressable range.
func (f *Filter) setBits() uint64 {
	full := f.numBits / 8
	var n uint64
	for _, b := range f.bytes[:full] {
		n += uint64(bits.OnesCount8(b))
	}
	if rem := f.numBits % 8; rem != 0 {
		mask := byte(1)<<rem - 1
		n += uint64(bits.OnesCount8(f.bytes[full] & mask))
	}
	return n
}

// FillRatio returns the proportion of addressable bits that are set.
func (f *Filter) FillRatio() float64 {
	return float64(f.setBits()) / float64(f.numBits)
}

// EstimatedCount estimates the number of distinct keys added, derived from
// the fill ratio. It works for filters loaded with FromBytes, whose insertion
// count is unknown. A saturated filter returns +Inf.
func (f *Filter) EstimatedCount() float64 {
	x := float64(f.setBits())
	m := float64(f.numBits)
	if x >= m {
		return math.Inf(1)
	}
	// n ≈ -(m/k) * ln(1 - x/m)
	return -m / float64(f.k) * math.Log1p(-x/m)
}

// EstimatedFalsePositiveRate estimates the probability that Contains returns
// true for a key that was never added, given the bits currently set.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	return math.Pow(f.FillRatio(), float64(f.k))
}
