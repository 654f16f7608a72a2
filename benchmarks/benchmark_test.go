package benchmarks

import (
	"fmt"
	"testing"

	bab "github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
	atomicbloom "github.com/ericvolp12/atomic-bloom"
	"github.com/greatroar/blobloom"
	"github.com/jcalabro/wirebloom"
)

const (
	benchItems  = 1_000_000
	benchFPRate = 0.01
)

// Pre-generate test data to avoid measuring string generation
var testKeys [][]byte
var testKeysStr []string

func init() {
	testKeys = make([][]byte, benchItems)
	testKeysStr = make([]string, benchItems)
	for i := range benchItems {
		s := fmt.Sprintf("key-%d", i)
		testKeys[i] = []byte(s)
		testKeysStr[i] = s
	}
}

// ============================================================================
// Hashing
// ============================================================================

func BenchmarkHash_Murmur3(b *testing.B) {
	for i := range b.N {
		wirebloom.Hash64(testKeys[i%benchItems], uint32(i&7))
	}
}

func BenchmarkHash_Xxhash(b *testing.B) {
	for i := range b.N {
		xxhash.Sum64(testKeys[i%benchItems])
	}
}

// ============================================================================
// Sequential Add Benchmarks
// ============================================================================

func BenchmarkAddSequential_Wirebloom(b *testing.B) {
	f := wirebloom.NewWithEstimates(benchItems, benchFPRate)
	b.ResetTimer()
	for i := range b.N {
		f.AddBytes(testKeys[i%benchItems])
	}
}

func BenchmarkAddSequential_WirebloomString(b *testing.B) {
	f := wirebloom.NewWithEstimates(benchItems, benchFPRate)
	b.ResetTimer()
	for i := range b.N {
		f.Add(testKeysStr[i%benchItems])
	}
}

func BenchmarkAddSequential_BitsAndBlooms(b *testing.B) {
	f := bab.NewWithEstimates(benchItems, benchFPRate)
	b.ResetTimer()
	for i := range b.N {
		f.Add(testKeys[i%benchItems])
	}
}

func BenchmarkAddSequential_AtomicBloom(b *testing.B) {
	f := atomicbloom.NewWithEstimates(benchItems, benchFPRate)
	b.ResetTimer()
	for i := range b.N {
		f.Add(testKeys[i%benchItems])
	}
}

func BenchmarkAddSequential_Blobloom(b *testing.B) {
	f := blobloom.NewOptimized(blobloom.Config{
		Capacity: benchItems,
		FPRate:   benchFPRate,
	})
	b.ResetTimer()
	for i := range b.N {
		// blobloom requires pre-hashing
		h := xxhash.Sum64(testKeys[i%benchItems])
		f.Add(h)
	}
}

// ============================================================================
// Sequential Contains Benchmarks
// ============================================================================

func BenchmarkContainsSequential_Wirebloom(b *testing.B) {
	f := wirebloom.NewWithEstimates(benchItems, benchFPRate)
	for i := range benchItems {
		f.AddBytes(testKeys[i])
	}
	b.ResetTimer()
	for i := range b.N {
		f.ContainsBytes(testKeys[i%benchItems])
	}
}

func BenchmarkContainsSequential_WirebloomString(b *testing.B) {
	f := wirebloom.NewWithEstimates(benchItems, benchFPRate)
	for i := range benchItems {
		f.AddBytes(testKeys[i])
	}
	b.ResetTimer()
	for i := range b.N {
		f.Contains(testKeysStr[i%benchItems])
	}
}

// Misses short-circuit on the first clear bit.
func BenchmarkContainsMiss_Wirebloom(b *testing.B) {
	f := wirebloom.NewWithEstimates(benchItems, benchFPRate)
	for i := range benchItems / 2 {
		f.AddBytes(testKeys[i])
	}
	b.ResetTimer()
	for i := range b.N {
		f.ContainsBytes(testKeys[benchItems/2+i%(benchItems/2)])
	}
}

func BenchmarkContainsSequential_BitsAndBlooms(b *testing.B) {
	f := bab.NewWithEstimates(benchItems, benchFPRate)
	for i := range benchItems {
		f.Add(testKeys[i])
	}
	b.ResetTimer()
	for i := range b.N {
		f.Test(testKeys[i%benchItems])
	}
}

func BenchmarkContainsSequential_AtomicBloom(b *testing.B) {
	f := atomicbloom.NewWithEstimates(benchItems, benchFPRate)
	for i := range benchItems {
		f.Add(testKeys[i])
	}
	b.ResetTimer()
	for i := range b.N {
		f.Test(testKeys[i%benchItems])
	}
}

func BenchmarkContainsSequential_Blobloom(b *testing.B) {
	f := blobloom.NewOptimized(blobloom.Config{
		Capacity: benchItems,
		FPRate:   benchFPRate,
	})
	// Pre-hash keys for fair comparison
	hashes := make([]uint64, benchItems)
	for i := range benchItems {
		hashes[i] = xxhash.Sum64(testKeys[i])
		f.Add(hashes[i])
	}
	b.ResetTimer()
	for i := range b.N {
		f.Has(hashes[i%benchItems])
	}
}

// ============================================================================
// Memory Allocation Benchmarks
// ============================================================================

func BenchmarkAddAlloc_Wirebloom(b *testing.B) {
	f := wirebloom.NewWithEstimates(benchItems, benchFPRate)
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		f.AddBytes(testKeys[i%benchItems])
	}
}

func BenchmarkAddAlloc_WirebloomString(b *testing.B) {
	f := wirebloom.NewWithEstimates(benchItems, benchFPRate)
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		f.Add(testKeysStr[i%benchItems])
	}
}

func BenchmarkAddAlloc_BitsAndBlooms(b *testing.B) {
	f := bab.NewWithEstimates(benchItems, benchFPRate)
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		f.Add(testKeys[i%benchItems])
	}
}

// ============================================================================
// Loading Benchmarks
// ============================================================================

func BenchmarkFromBytes_Wirebloom(b *testing.B) {
	src := wirebloom.NewWithEstimates(benchItems, benchFPRate)
	for i := range benchItems / 10 {
		src.AddBytes(testKeys[i])
	}
	p := src.Params()
	data := src.Bytes()

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := wirebloom.FromBytes(p.NumHashFunctions, p.NumBits, data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUnmarshalBinary_Wirebloom(b *testing.B) {
	src := wirebloom.NewWithEstimates(benchItems, benchFPRate)
	for i := range benchItems / 10 {
		src.AddBytes(testKeys[i])
	}
	blob, err := src.MarshalBinary()
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(blob)))
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := wirebloom.UnmarshalBinary(blob); err != nil {
			b.Fatal(err)
		}
	}
}
