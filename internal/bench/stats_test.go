package bench

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrim(t *testing.T) {
	// 1 and 100 are discarded, leaving 10, 20, 30.
	s := Trim([]float64{30, 100, 10, 1, 20}, 1_000_000)
	assert.Equal(t, 3, s.Samples)
	assert.InDelta(t, 20, s.MeanTime, 1e-9)
	assert.InDelta(t, math.Sqrt(200.0/3), s.StdDevTime, 1e-9)

	// 1M records in 10, 20 and 30ms: 100, 50 and 33.3 M/s.
	mean := (100 + 50 + 100.0/3) / 3
	assert.InDelta(t, mean, s.MeanThroughput, 1e-9)
	assert.Greater(t, s.StdDevThroughput, 0.0)
}

func TestTrimTooFewRuns(t *testing.T) {
	s := Trim([]float64{5, 6}, 100)
	assert.Zero(t, s.Samples)
	assert.True(t, math.IsNaN(s.MeanTime))
}

func TestThroughput(t *testing.T) {
	assert.InDelta(t, 2.0, Throughput(2_000_000, 1000), 1e-12)
	assert.True(t, math.IsInf(Throughput(10, 0), 1))
}

func TestSummaryPrint(t *testing.T) {
	var buf bytes.Buffer
	Summary{MeanTime: 12.346, StdDevTime: 0.5, MeanThroughput: 80, StdDevThroughput: 1.25}.Print(&buf)
	assert.Equal(t, `********** RESULTS **********
Average time:       12.35 ms
Time StdDev:        0.5000
Average throughput: 80.00 M/S
Throughput StdDev:  1.2500
`, buf.String())
}
