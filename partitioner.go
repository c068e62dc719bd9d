// Package partition implements lock-free, multi-threaded partitioning of
// key/value records into fixed-capacity hash buckets.
//
// Two strategies are provided. Concurrent claims one output slot per record
// with a single atomic increment on the target bucket's cursor. Parallel
// claims input and output work in chunks and writes locally between claims,
// trading a little slot waste for far fewer atomic operations.
//
// All bucket memory is provisioned once at construction. A bucket that
// receives more records than its capacity aborts the run with a panic.
package partition

import (
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"
)

// Record is a key/value pair. A record whose value is 0 is indistinguishable
// from an empty slot and is therefore never reported as partitioned.
type Record struct {
	Key   uint64
	Value uint64
}

func (r Record) empty() bool {
	return r.Value == 0
}

// Partitioner partitions its input into 2^hashBits buckets.
//
// A Partitioner serves exactly one run: Partition is called once, after
// which the result accessors may be called from any goroutine.
type Partitioner interface {
	// Partition distributes the input across the buckets using the configured
	// number of goroutines and returns once all of them have finished.
	Partition()
	ToMap() map[uint64]uint64 // ToMap returns every occupied slot as key → value.
	Len() int                 // Len returns the number of occupied slots.
	LenPartitions() []int     // LenPartitions returns the number of occupied slots per bucket.
	Stats() Stats             // Stats summarizes bucket occupancy.
	PrintStats(w io.Writer)   // PrintStats writes a human readable occupancy summary.
	Input() []Record          // Input returns the records being partitioned.
	Close() error             // Close releases the bucket memory.
}

// Algorithm identifies a partitioning strategy.
type Algorithm int

const (
	AlgorithmParallel   Algorithm = iota // Chunked claims, see Parallel.
	AlgorithmConcurrent                  // One claim per record, see Concurrent.
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmParallel:
		return "parallel"
	case AlgorithmConcurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm returns the algorithm registered under name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "parallel":
		return AlgorithmParallel, nil
	case "concurrent":
		return AlgorithmConcurrent, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// New creates a partitioner for the given algorithm.
func New(algo Algorithm, threads int, input []Record, hashBits int, opts ...Option) (Partitioner, error) {
	var (
		p   Partitioner
		err error
	)
	switch algo {
	case AlgorithmParallel:
		p, err = NewParallel(threads, input, hashBits, opts...)
	case AlgorithmConcurrent:
		p, err = NewConcurrent(threads, input, hashBits, opts...)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, algo)
	}
	if err != nil {
		// Avoid returning a typed nil pointer inside the interface.
		return nil, err
	}
	return p, nil
}

type planFunc func(threads, inputSize, hashBits int, cfg Config) plan

// base holds the state shared by both strategies: the input, the bucket
// arena, and the fixed plan of the run.
type base struct {
	algo        Algorithm
	cfg         Config
	plan        plan
	input       []Record
	slots       *slots
	partitioned bool
}

func (b *base) init(
	algo Algorithm,
	threads int,
	input []Record,
	hashBits int,
	opts []Option,
	planFn planFunc,
) error {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return err
	}
	if err := validateShape(threads, hashBits); err != nil {
		return err
	}
	b.algo = algo
	b.cfg = cfg
	b.input = input
	b.plan = planFn(threads, len(input), hashBits, cfg)
	if b.slots, err = newSlots(cfg.Allocator, b.plan.partitions, b.plan.capacity); err != nil {
		return err
	}
	cfg.Logger.Debug("partitioner created",
		"algorithm", algo.String(),
		"threads", b.plan.threads,
		"hashBits", b.plan.hashBits,
		"inputSize", b.plan.inputSize,
		"capacity", b.plan.capacity,
		"chunkIn", b.plan.chunkIn,
		"chunkOut", b.plan.chunkOut,
	)
	return nil
}

// run spawns one worker per thread and blocks until all of them returned.
// The join is the only point at which slot writes become visible to the caller.
func (b *base) run(work func(thread int) error) {
	if b.slots == nil {
		panic(errors.New("invariant violation: partition on a closed partitioner"))
	}
	if b.partitioned {
		panic(errors.New("invariant violation: partition called more than once"))
	}
	b.partitioned = true

	start := time.Now()
	var g errgroup.Group
	for t := range b.plan.threads {
		g.Go(func() error {
			return work(t)
		})
	}
	if err := g.Wait(); err != nil {
		// Unrecoverable: records were dropped.
		panic(fmt.Errorf("invariant violation: %w", err))
	}
	b.cfg.Logger.Debug("partition finished",
		"algorithm", b.algo.String(),
		"records", b.plan.inputSize,
		"elapsed", time.Since(start),
	)
}

func (b *base) ToMap() map[uint64]uint64 {
	return b.slots.toMap()
}

func (b *base) Len() int {
	n := 0
	for _, size := range b.LenPartitions() {
		n += size
	}
	return n
}

func (b *base) LenPartitions() []int {
	return b.slots.lenPartitions()
}

func (b *base) Stats() Stats {
	return occupancyStats(b.LenPartitions(), b.plan.capacity)
}

func (b *base) PrintStats(w io.Writer) {
	b.Stats().Print(w)
}

func (b *base) Input() []Record {
	return b.input
}

// Capacity returns the number of slots provisioned per bucket.
func (b *base) Capacity() int {
	return b.plan.capacity
}

func (b *base) Close() error {
	if b.slots == nil {
		return nil
	}
	err := b.slots.release(b.cfg.Allocator)
	b.slots = nil
	return err
}
