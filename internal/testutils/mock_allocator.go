package testutils

import (
	"sync/atomic"

	"github.com/holmberd/go-partition/internal/arena"
)

// MockAllocator is a heap-backed arena.Allocator that counts its calls.
type MockAllocator struct {
	allocCalls atomic.Int64
	freeCalls  atomic.Int64
	allocBytes atomic.Int64

	// Err, if set, is returned from every Alloc call.
	Err error
}

func (a *MockAllocator) Alloc(size int) ([]byte, error) {
	a.allocCalls.Add(1)
	if a.Err != nil {
		return nil, a.Err
	}
	region, err := arena.Heap{}.Alloc(size)
	if err != nil {
		return nil, err
	}
	a.allocBytes.Add(int64(size))
	return region, nil
}

func (a *MockAllocator) Free(region []byte) error {
	a.freeCalls.Add(1)
	return nil
}

func (a *MockAllocator) AllocCalls() int64 {
	return a.allocCalls.Load()
}

func (a *MockAllocator) FreeCalls() int64 {
	return a.freeCalls.Load()
}

func (a *MockAllocator) AllocBytes() int64 {
	return a.allocBytes.Load()
}

func (a *MockAllocator) RegionsInUse() int64 {
	return a.AllocCalls() - a.FreeCalls()
}

func (a *MockAllocator) Reset() {
	a.allocCalls.Store(0)
	a.freeCalls.Store(0)
	a.allocBytes.Store(0)
}
