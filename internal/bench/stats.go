package bench

import (
	"fmt"
	"io"
	"math"
	"slices"
)

// Summary holds trimmed statistics over the runs of one combination.
type Summary struct {
	Samples          int     `json:"samples"`
	MeanTime         float64 `json:"mean_time_ms"`
	StdDevTime       float64 `json:"stddev_time_ms"`
	MeanThroughput   float64 `json:"mean_throughput_mrps"`
	StdDevThroughput float64 `json:"stddev_throughput_mrps"`
}

// Throughput returns millions of records per second.
func Throughput(size int, ms float64) float64 {
	return (float64(size) / 1e6) / (ms / 1000)
}

// Trim computes mean and population standard deviation of time and
// throughput after discarding the single fastest and slowest run.
// With fewer than three runs nothing remains and the statistics are NaN.
func Trim(times []float64, size int) Summary {
	sorted := slices.Clone(times)
	slices.Sort(sorted)
	if len(sorted) >= 2 {
		sorted = sorted[1 : len(sorted)-1]
	}

	n := float64(len(sorted))
	s := Summary{Samples: len(sorted)}
	throughputs := make([]float64, len(sorted))
	for i, ms := range sorted {
		throughputs[i] = Throughput(size, ms)
		s.MeanTime += ms
		s.MeanThroughput += throughputs[i]
	}
	s.MeanTime /= n
	s.MeanThroughput /= n

	var accTime, accThroughput float64
	for i, ms := range sorted {
		dt := ms - s.MeanTime
		dx := throughputs[i] - s.MeanThroughput
		accTime += dt * dt
		accThroughput += dx * dx
	}
	s.StdDevTime = math.Sqrt(accTime / n)
	s.StdDevThroughput = math.Sqrt(accThroughput / n)
	return s
}

// Print writes s in the text report format.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "********** RESULTS **********")
	fmt.Fprintf(w, "Average time:       %.2f ms\n", s.MeanTime)
	fmt.Fprintf(w, "Time StdDev:        %.4f\n", s.StdDevTime)
	fmt.Fprintf(w, "Average throughput: %.2f M/S\n", s.MeanThroughput)
	fmt.Fprintf(w, "Throughput StdDev:  %.4f\n", s.StdDevThroughput)
}
