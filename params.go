package wirebloom

import (
	"fmt"
	"math"
)

const (
	// ln2 is the natural logarithm of 2.
	ln2 = 0.6931471805599453
	// ln2Squared is ln(2)^2.
	ln2Squared = 0.4804530139182014
)

// Params are the two values needed to interpret filter bytes. They are not
// part of the byte stream and must travel alongside it.
type Params struct {
	NumHashFunctions uint32
	NumBits          uint32
}

// Validate reports whether p describes a usable filter.
func (p Params) Validate() error {
	if p.NumBits == 0 {
		return ErrZeroBits
	}
	if p.NumHashFunctions == 0 {
		return ErrZeroHashFunctions
	}
	return nil
}

// ByteLen returns the minimum storage length in bytes, ceil(NumBits/8).
func (p Params) ByteLen() int {
	return ByteLen(p.NumBits)
}

func (p Params) String() string {
	return fmt.Sprintf("k=%d bits=%d", p.NumHashFunctions, p.NumBits)
}

// ByteLen returns ceil(numBits/8).
func ByteLen(numBits uint32) int {
	return int((uint64(numBits) + 7) / 8)
}

// OptimalParams calculates filter parameters for the expected number of
// items and desired false positive rate. The bit count is clamped to the
// uint32 range and the hash function count is at least 1.
func OptimalParams(expectedItems uint64, fpRate float64) Params {
	if expectedItems == 0 {
		expectedItems = 1
	}
	if !(fpRate > 0) { // also catches NaN
		fpRate = 0.0001 // default to 0.01%
	}
	if fpRate >= 1 {
		fpRate = 0.99
	}

	// Optimal bits per item: -ln(fpRate) / ln(2)^2
	bitsPerItem := -math.Log(fpRate) / ln2Squared

	totalBits := math.Ceil(float64(expectedItems) * bitsPerItem)
	totalBits = min(totalBits, math.MaxUint32)
	numBits := max(uint32(totalBits), 1)

	// Optimal k: (m/n) * ln(2)
	kFloat := float64(numBits) / float64(expectedItems) * ln2
	k := max(uint32(math.Round(kFloat)), 1)

	return Params{NumHashFunctions: k, NumBits: numBits}
}

// EstimateFalsePositiveRate estimates the false positive rate for given parameters.
// Formula: (1 - e^(-kn/m))^k
func EstimateFalsePositiveRate(p Params, itemsAdded uint64) float64 {
	m := float64(p.NumBits)
	n := float64(itemsAdded)
	kf := float64(p.NumHashFunctions)

	if m == 0 || n == 0 {
		return 0
	}

	return math.Pow(1-math.Exp(-kf*n/m), kf)
}
