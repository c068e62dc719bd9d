package bench

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"

	"github.com/holmberd/go-partition"
)

var runLine = regexp.MustCompile(`^time: [0-9.]+ms, throughput: ([0-9.]+|\+Inf) M/s, integrity: true$`)

func newTestRunner(out *bytes.Buffer) *Runner {
	return &Runner{Out: out, Logger: zap.NewNop()}
}

func TestRunnerRun(t *testing.T) {
	var out bytes.Buffer
	r := newTestRunner(&out)
	err := r.Run(Args{
		Algorithms: []string{"parallel", "concurrent"},
		DataSizes:  []int{1 << 12},
		HashBits:   []int{2},
		Threads:    []int{1, 4},
		Repeats:    3,
		Test:       true,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var runs, results int
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "time: "):
			assert.Regexp(t, runLine, line)
			runs++
		case line == "********** RESULTS **********":
			results++
		}
	}
	assert.Equal(t, 2*2*3, runs)
	assert.Equal(t, 2*2, results)
}

func TestRunnerUnknownAlgorithm(t *testing.T) {
	var out bytes.Buffer
	r := newTestRunner(&out)
	err := r.Run(Args{
		Algorithms: []string{"sequential", "concurrent"},
		DataSizes:  []int{64, 128},
		HashBits:   []int{1},
		Threads:    []int{2},
		Repeats:    1,
	})
	require.NoError(t, err)

	// The message repeats for every combination of the unknown algorithm,
	// and the remaining algorithms still run.
	assert.Equal(t, 2, strings.Count(out.String(), "No matching algorithm found for: sequential\n"))
	assert.Equal(t, 2, strings.Count(out.String(), "time: "))
}

func TestRunnerInvalidShape(t *testing.T) {
	var out bytes.Buffer
	r := newTestRunner(&out)
	err := r.Run(Args{
		Algorithms: []string{"parallel"},
		DataSizes:  []int{64},
		HashBits:   []int{1},
		Threads:    []int{0},
		Repeats:    1,
	})
	assert.ErrorIs(t, err, partition.ErrInvalidConfig)
}

func TestRunnerJSON(t *testing.T) {
	var out bytes.Buffer
	r := newTestRunner(&out)
	err := r.Run(Args{
		Algorithms: []string{"concurrent"},
		DataSizes:  []int{1 << 10},
		HashBits:   []int{3},
		Threads:    []int{2},
		Repeats:    4,
		Test:       true,
		JSON:       true,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var report Report
	require.NoError(t, sonnet.Unmarshal([]byte(lines[len(lines)-1]), &report))
	assert.Equal(t, "concurrent", report.Algorithm)
	assert.Equal(t, 1<<10, report.Size)
	assert.Equal(t, 3, report.HashBits)
	assert.Equal(t, 2, report.Threads)
	assert.Len(t, report.Times, 4)
	require.NotNil(t, report.Verified)
	assert.True(t, *report.Verified)
	require.NotNil(t, report.Summary)
	assert.Equal(t, 2, report.Summary.Samples)
}

func TestRunOnce(t *testing.T) {
	r := newTestRunner(&bytes.Buffer{})
	r.Options = []partition.Option{partition.WithAllocator(partition.MmapAllocator())}
	for _, algo := range []partition.Algorithm{partition.AlgorithmParallel, partition.AlgorithmConcurrent} {
		res, err := r.RunOnce(algo, 4, 1<<14, 4, 0, true)
		require.NoError(t, err)
		assert.True(t, res.Integrity.OK(), "%v: %+v", algo, res.Integrity)
	}
}
