package partition

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

const recordSize = int(unsafe.Sizeof(Record{}))

// cursor hands out unique indices with a single fetch-and-add.
// Cursors are padded so that neighbouring buckets do not share a cache line.
type cursor struct {
	n atomic.Uint64
	_ cpu.CacheLinePad
}

// claim returns the next unclaimed index.
func (c *cursor) claim() int {
	return int(c.n.Add(1) - 1)
}

func (c *cursor) load() int {
	return int(c.n.Load())
}

// slots is a single arena of fixed-capacity buckets, indexed by (bucket, offset).
//
// Workers never read each other's slots while partitioning; a slot is written
// at most once, after its offset was claimed from the bucket's cursor.
type slots struct {
	region     []byte
	records    []Record
	partitions int
	capacity   int
}

func newSlots(alloc Allocator, partitions, capacity int) (*slots, error) {
	n := partitions * capacity
	if capacity != 0 && (n/capacity != partitions || n > math.MaxInt/recordSize) {
		return nil, fmt.Errorf("%w: %d buckets of %d slots overflow the address space",
			ErrInvalidConfig, partitions, capacity)
	}
	region, err := alloc.Alloc(n * recordSize)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate %d slots: %w", n, err)
	}
	s := &slots{
		region:     region,
		partitions: partitions,
		capacity:   capacity,
	}
	if n > 0 {
		s.records = unsafe.Slice((*Record)(unsafe.Pointer(&region[0])), n)
	}
	return s, nil
}

// store writes r at offset within bucket. It reports false, writing nothing,
// if the offset lies beyond the bucket's capacity.
func (s *slots) store(bucket, offset int, r Record) bool {
	if offset >= s.capacity {
		return false
	}
	s.records[bucket*s.capacity+offset] = r
	return true
}

// bucket returns all slots of bucket b, including empty ones.
func (s *slots) bucket(b int) []Record {
	return s.records[b*s.capacity : (b+1)*s.capacity]
}

// lenPartitions counts the occupied slots of every bucket.
func (s *slots) lenPartitions() []int {
	sizes := make([]int, s.partitions)
	for b := range sizes {
		for _, r := range s.bucket(b) {
			if !r.empty() {
				sizes[b]++
			}
		}
	}
	return sizes
}

// toMap collects every occupied slot into a key → value map.
func (s *slots) toMap() map[uint64]uint64 {
	m := make(map[uint64]uint64)
	for _, r := range s.records {
		if !r.empty() {
			m[r.Key] = r.Value
		}
	}
	return m
}

// release returns the arena to alloc. The slots must not be used afterwards.
func (s *slots) release(alloc Allocator) error {
	region := s.region
	s.region, s.records = nil, nil
	if region == nil {
		return nil
	}
	return alloc.Free(region)
}

func capacityError(bucket, offset, capacity int) error {
	return fmt.Errorf("%w: bucket %d offset %d, capacity %d", ErrCapacityExceeded, bucket, offset, capacity)
}
