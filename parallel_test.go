package partition

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParallelChunkSizes(t *testing.T) {
	testCases := []struct {
		name        string
		threads     int
		inputSize   int
		hashBits    int
		expectedIn  int
		expectedOut int
		expectedCap int
	}{
		{"Small input", 2, 8, 1, 4, 1, 6},
		{"Clamped to max", 4, 100_000, 3, 128, 128, 18750},
		{"Empty input", 4, 0, 3, 1, 1, 8},
		{"More threads than records", 16, 8, 2, 1, 1, 32},
		{"Thread floor", 4, 40, 4, 10, 1, 8},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewParallel(tc.threads, make([]Record, tc.inputSize), tc.hashBits, WithLogger(quietLogger))
			if err != nil {
				t.Fatal(err)
			}
			defer p.Close()
			in, out := p.ChunkSizes()
			if in != tc.expectedIn || out != tc.expectedOut {
				t.Errorf("expected chunk sizes (%d, %d), got (%d, %d)", tc.expectedIn, tc.expectedOut, in, out)
			}
			if p.Capacity() != tc.expectedCap {
				t.Errorf("expected capacity %d, got %d", tc.expectedCap, p.Capacity())
			}
		})
	}
}

func TestConcurrentCapacity(t *testing.T) {
	testCases := []struct {
		inputSize   int
		hashBits    int
		expectedCap int
	}{
		{8, 1, 6},
		{100_000, 3, 18750},
		{10, 2, 4}, // ceil(2.5 * 1.5)
		{1, 4, 1},
		{0, 4, 0},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("n=%d/bits=%d", tc.inputSize, tc.hashBits), func(t *testing.T) {
			c, err := NewConcurrent(2, make([]Record, tc.inputSize), tc.hashBits, WithLogger(quietLogger))
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()
			if c.Capacity() != tc.expectedCap {
				t.Errorf("expected capacity %d, got %d", tc.expectedCap, c.Capacity())
			}
		})
	}
}

// Input sizes that are not a multiple of the input chunk size leave one short
// final chunk; it must be drained exactly once whichever thread claims it.
func TestParallelPartialInputChunk(t *testing.T) {
	for _, chunkIn := range []int{1, 3, 7, 64, 128} {
		for _, chunkOut := range []int{1, 5, 32} {
			for _, n := range []int{chunkIn - 1, chunkIn + 1, 10*chunkIn + 1, 1000*chunkIn - 1} {
				if n <= 0 {
					continue
				}
				name := fmt.Sprintf("in=%d/out=%d/n=%d", chunkIn, chunkOut, n)
				t.Run(name, func(t *testing.T) {
					input := testRecords(n, uint64(n))
					for range 5 {
						p := mustPartition(t, AlgorithmParallel, 4, input, 3,
							WithChunkSizes(chunkIn, chunkOut),
							WithSafetyFactor(2),
						)
						if got := p.Len(); got != n {
							t.Fatalf("expected len %d, got %d", n, got)
						}
						if diff := cmp.Diff(toMap(input), p.ToMap()); diff != "" {
							t.Fatalf("unexpected map (-want +got):\n%s", diff)
						}
					}
				})
			}
		}
	}
}

func TestParallelCursorClaims(t *testing.T) {
	const (
		n       = 10_000
		threads = 4
	)
	p, err := NewParallel(threads, testRecords(n, 1), 2, WithLogger(quietLogger))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	p.Partition()

	in, out := p.ChunkSizes()
	// Each thread makes one final claim past the end of the input.
	chunks := (n + in - 1) / in
	if got := p.in.load(); got < chunks || got > chunks+threads {
		t.Errorf("expected between %d and %d input claims, got %d", chunks, chunks+threads, got)
	}
	sizes := p.LenPartitions()
	for b := range p.out {
		claimed := p.out[b].load() * out
		if claimed < sizes[b] {
			t.Errorf("bucket %d: %d records in %d claimed slots", b, sizes[b], claimed)
		}
		// At most one partially filled chunk per thread.
		if claimed > sizes[b]+threads*out {
			t.Errorf("bucket %d: %d claimed slots for %d records", b, claimed, sizes[b])
		}
	}
}
