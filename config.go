package partition

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/holmberd/go-partition/internal/arena"
)

const (
	DefaultSafetyFactor = 1.5 // Inflation of the expected average bucket occupancy.
	DefaultMaxChunkSize = 128 // Upper bound for derived input and output chunk sizes.
)

var (
	ErrInvalidConfig    = errors.New("invalid config")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrCapacityExceeded = errors.New("bucket capacity exceeded")
)

// Allocator provides the zeroed memory backing all bucket slots of a run.
type Allocator = arena.Allocator

// HeapAllocator returns an Allocator backed by the Go heap.
func HeapAllocator() Allocator {
	return arena.Heap{}
}

// MmapAllocator returns an Allocator backed by anonymous memory mappings,
// keeping large slot arrays out of the garbage collector's view.
func MmapAllocator() Allocator {
	return &arena.Mmap{}
}

type Config struct {
	// SafetyFactor inflates the expected average occupancy of a bucket to
	// obtain its fixed capacity. Capacity is never grown after construction,
	// so a bucket receiving more records than this margin allows is a fatal error.
	SafetyFactor float64

	// Input and output chunk sizes of the chunked strategy, in records.
	// A value of 0 derives the size from the input and thread count.
	ChunkSizeIn  int
	ChunkSizeOut int

	MaxChunkSize int // Upper bound applied to derived chunk sizes.

	Allocator Allocator
	Logger    *slog.Logger
}

// Option allows configuring a partitioner based on functional options.
type Option func(Config) Config

// WithSafetyFactor configures the bucket capacity inflation factor.
func WithSafetyFactor(f float64) Option {
	return func(c Config) Config {
		c.SafetyFactor = f
		return c
	}
}

// WithChunkSizes overrides the derived chunk sizes of the chunked strategy.
func WithChunkSizes(in, out int) Option {
	return func(c Config) Config {
		c.ChunkSizeIn = in
		c.ChunkSizeOut = out
		return c
	}
}

// WithMaxChunkSize configures the upper bound for derived chunk sizes.
func WithMaxChunkSize(n int) Option {
	return func(c Config) Config {
		c.MaxChunkSize = n
		return c
	}
}

// WithAllocator configures the allocator for bucket slots.
func WithAllocator(a Allocator) Option {
	return func(c Config) Config {
		c.Allocator = a
		return c
	}
}

// WithLogger configures the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c Config) Config {
		c.Logger = l
		return c
	}
}

func DefaultConfig() Config {
	return Config{
		SafetyFactor: DefaultSafetyFactor,
		MaxChunkSize: DefaultMaxChunkSize,
		Allocator:    HeapAllocator(),
		Logger:       slog.Default(),
	}
}

// NewConfig creates a config from the defaults and the passed options.
func NewConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		cfg = opt(cfg)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if math.IsNaN(c.SafetyFactor) || c.SafetyFactor < 1.0 {
		errs = append(errs, fmt.Errorf("%w: safety factor must be at least 1.0", ErrInvalidConfig))
	}
	if c.ChunkSizeIn < 0 || c.ChunkSizeOut < 0 {
		errs = append(errs, fmt.Errorf("%w: chunk sizes must not be negative", ErrInvalidConfig))
	}
	if c.MaxChunkSize < 1 {
		errs = append(errs, fmt.Errorf("%w: max chunk size must be at least 1", ErrInvalidConfig))
	}
	if c.Allocator == nil {
		errs = append(errs, fmt.Errorf("%w: allocator is required", ErrInvalidConfig))
	}
	if c.Logger == nil {
		errs = append(errs, fmt.Errorf("%w: logger is required", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// plan is the fixed shape of one partition run, derived once at construction.
type plan struct {
	threads    int
	hashBits   int
	partitions int
	inputSize  int
	capacity   int // Slots per bucket.
	chunkIn    int // Input records per claim; chunked strategy only.
	chunkOut   int // Output slots per claim; chunked strategy only.
}

func validateShape(threads, hashBits int) error {
	var errs []error
	if threads < 1 {
		errs = append(errs, fmt.Errorf("%w: thread count must be at least 1, got %d", ErrInvalidConfig, threads))
	}
	if hashBits < 0 || hashBits > MaxHashBits {
		errs = append(errs, fmt.Errorf(
			"%w: hash bits must be between 0 and %d, got %d", ErrInvalidConfig, MaxHashBits, hashBits,
		))
	}
	return errors.Join(errs...)
}

// bucketCapacity inflates an expected occupancy by factor, never going below floor.
func bucketCapacity(expected, factor float64, floor int) int {
	return max(int(math.Ceil(expected*factor)), floor)
}

// concurrentPlan provisions every bucket with the inflated average occupancy.
func concurrentPlan(threads, inputSize, hashBits int, cfg Config) plan {
	partitions := 1 << hashBits
	avg := float64(inputSize) / float64(partitions)
	return plan{
		threads:    threads,
		hashBits:   hashBits,
		partitions: partitions,
		inputSize:  inputSize,
		capacity:   bucketCapacity(avg, cfg.SafetyFactor, 0),
	}
}

// parallelPlan derives the chunk sizes of the chunked strategy and provisions
// buckets so that each thread can hold at least one output chunk per bucket.
func parallelPlan(threads, inputSize, hashBits int, cfg Config) plan {
	partitions := 1 << hashBits
	minPartSize := max(inputSize/partitions, threads)

	chunkIn := cfg.ChunkSizeIn
	if chunkIn == 0 {
		chunkIn = min(max(inputSize/threads, 1), cfg.MaxChunkSize)
	}
	derivedOut := min(max(minPartSize/threads/2, 1), cfg.MaxChunkSize)
	chunkOut := cfg.ChunkSizeOut
	if chunkOut == 0 {
		chunkOut = derivedOut
	}

	// Each thread leaves at most one partially filled output chunk per bucket.
	// A derived chunk size keeps that waste within the safety margin; a larger
	// override widens every bucket by the additional waste.
	capacity := bucketCapacity(float64(minPartSize), cfg.SafetyFactor, 2*threads)
	capacity += threads * max(chunkOut-derivedOut, 0)
	return plan{
		threads:    threads,
		hashBits:   hashBits,
		partitions: partitions,
		inputSize:  inputSize,
		capacity:   capacity,
		chunkIn:    chunkIn,
		chunkOut:   chunkOut,
	}
}
