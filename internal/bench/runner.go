package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"

	"github.com/holmberd/go-partition"
)

// Result is the outcome of a single partition run.
type Result struct {
	Elapsed   time.Duration
	Integrity partition.Integrity // Zero unless the run was verified.
}

// Millis returns the elapsed time in fractional milliseconds.
func (r Result) Millis() float64 {
	return float64(r.Elapsed.Microseconds()) / 1000
}

// Report is the JSON form of one (algorithm, size, bits, threads) combination.
type Report struct {
	Algorithm string    `json:"algorithm"`
	Size      int       `json:"size"`
	HashBits  int       `json:"hash_bits"`
	Threads   int       `json:"threads"`
	Times     []float64 `json:"times_ms"`
	Verified  *bool     `json:"verified,omitempty"`
	Summary   *Summary  `json:"summary,omitempty"`
}

// Runner executes benchmark sessions.
type Runner struct {
	Out     io.Writer
	Logger  *zap.Logger
	Options []partition.Option // Applied to every partitioner.
}

// Run executes every combination of args. An unknown algorithm is reported
// and skipped; any other failure ends the session.
func (r *Runner) Run(args Args) error {
	for _, name := range args.Algorithms {
		for _, size := range args.DataSizes {
			for _, bits := range args.HashBits {
				for _, threads := range args.Threads {
					if err := r.runCombination(name, size, bits, threads, args); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (r *Runner) runCombination(name string, size, bits, threads int, args Args) error {
	log := r.Logger.With(
		zap.String("algorithm", name),
		zap.Int("size", size),
		zap.Int("hash_bits", bits),
		zap.Int("threads", threads),
	)
	algo, err := partition.ParseAlgorithm(name)
	if err != nil {
		// Reported once per combination; the session carries on.
		fmt.Fprintf(r.Out, "No matching algorithm found for: %s\n", name)
		log.Warn("skipping combination", zap.Error(err))
		return nil
	}
	log.Debug("running combination", zap.Int("repeats", args.Repeats))

	times := make([]float64, 0, args.Repeats)
	verified := true
	for run := range args.Repeats {
		res, err := r.RunOnce(algo, threads, size, bits, uint64(run), args.Test)
		if err != nil {
			return fmt.Errorf("%v with %d records, %d hash bits, %d threads: %w", algo, size, bits, threads, err)
		}
		ms := res.Millis()
		times = append(times, ms)
		if args.Test {
			ok := res.Integrity.OK()
			verified = verified && ok
			fmt.Fprintf(r.Out, "time: %.3fms, throughput: %.2f M/s, integrity: %t\n", ms, Throughput(size, ms), ok)
			if !ok {
				log.Warn("integrity check failed",
					zap.Int("run", run),
					zap.Bool("equal_size", res.Integrity.EqualSize),
					zap.Bool("all_present", res.Integrity.AllPresent),
				)
			}
		} else {
			fmt.Fprintf(r.Out, "time: %.3fms, throughput: %.2f M/s\n", ms, Throughput(size, ms))
		}
	}

	report := Report{
		Algorithm: algo.String(),
		Size:      size,
		HashBits:  bits,
		Threads:   threads,
		Times:     times,
	}
	if args.Test {
		report.Verified = &verified
	}
	if args.Repeats > 1 {
		s := Trim(times, size)
		s.Print(r.Out)
		// NaN has no JSON form.
		if s.Samples > 0 {
			report.Summary = &s
		}
	}
	if args.JSON {
		return r.writeJSON(report)
	}
	return nil
}

// RunOnce partitions freshly generated data once and times the partition phase.
func (r *Runner) RunOnce(algo partition.Algorithm, threads, size, bits int, seed uint64, verify bool) (Result, error) {
	data := Generate(size, seed)
	p, err := partition.New(algo, threads, data, bits, r.Options...)
	if err != nil {
		return Result{}, err
	}
	defer p.Close()

	start := time.Now()
	p.Partition()
	res := Result{Elapsed: time.Since(start)}
	if verify {
		res.Integrity = partition.Verify(p.Input(), p.ToMap())
	}
	return res, nil
}

func (r *Runner) writeJSON(report Report) error {
	b, err := sonnet.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	b = append(b, '\n')
	_, err = r.Out.Write(b)
	return err
}
