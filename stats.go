package partition

import (
	"fmt"
	"io"
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Stats summarizes how evenly records were spread across buckets.
// It is diagnostic only and has no bearing on correctness.
type Stats struct {
	Partitions int
	Elements   int
	Capacity   int // Slots provisioned per bucket.
	Min        int
	Max        int
	Mean       float64
	StdDev     float64 // Population standard deviation of bucket occupancy.
	P50        int64
	P99        int64
}

// Fill returns the fraction of provisioned slots holding a record.
func (s Stats) Fill() float64 {
	total := s.Partitions * s.Capacity
	if total == 0 {
		return 0
	}
	return float64(s.Elements) / float64(total)
}

func occupancyStats(sizes []int, capacity int) Stats {
	s := Stats{Partitions: len(sizes), Capacity: capacity}
	if len(sizes) == 0 {
		return s
	}
	// Occupancy never exceeds capacity, so the histogram range is known up front.
	h := hdrhistogram.New(1, int64(max(capacity, 2)), 3)
	s.Min, s.Max = sizes[0], sizes[0]
	for _, n := range sizes {
		s.Elements += n
		s.Min = min(s.Min, n)
		s.Max = max(s.Max, n)
		if err := h.RecordValue(int64(n)); err != nil {
			panic(fmt.Errorf("invariant violation: occupancy %d exceeds capacity %d: %w", n, capacity, err))
		}
	}
	s.Mean = float64(s.Elements) / float64(len(sizes))
	var acc float64
	for _, n := range sizes {
		d := float64(n) - s.Mean
		acc += d * d
	}
	s.StdDev = math.Sqrt(acc / float64(len(sizes)))
	s.P50 = h.ValueAtQuantile(50)
	s.P99 = h.ValueAtQuantile(99)
	return s
}

// Print writes s to w in the benchmark's text report format.
func (s Stats) Print(w io.Writer) {
	fmt.Fprintln(w, "******* STATS ********")
	fmt.Fprintf(w, "partitions: %d, elements: %d\n", s.Partitions, s.Elements)
	fmt.Fprintf(w, "min: %d, max: %d\n", s.Min, s.Max)
	fmt.Fprintf(w, "StdDev: %.4f, mean: %.2f\n", s.StdDev, s.Mean)
	fmt.Fprintf(w, "p50: %d, p99: %d, fill: %.2f%%\n", s.P50, s.P99, s.Fill()*100)
	fmt.Fprintln(w, "***********************")
}
