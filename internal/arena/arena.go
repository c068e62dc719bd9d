// Package arena provides zeroed memory regions backing partition slots.
package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

const (
	KiB = 1024
	MiB = KiB * KiB

	// Align is the minimum alignment of every region returned by an Allocator.
	Align = 8
)

var ErrInvalidSize = errors.New("invalid region size")

// Allocator defines the contract for a provider of slot memory.
//
// Regions returned by Alloc must be zeroed and aligned to at least Align bytes,
// since a zero slot is read as empty by the partitioners.
type Allocator interface {
	Alloc(size int) ([]byte, error) // Alloc returns a zeroed region of exactly size bytes.
	Free(region []byte) error       // Free releases a region returned by Alloc.
}

// Heap allocates regions on the Go heap.
type Heap struct{}

// Alloc returns a zeroed, word-aligned region owned by the garbage collector.
func (Heap) Alloc(size int) ([]byte, error) {
	if size < 0 || size%Align != 0 {
		return nil, fmt.Errorf("%w: %d is not a multiple of %d", ErrInvalidSize, size, Align)
	}
	if size == 0 {
		return []byte{}, nil
	}
	// Backing the region with words guarantees the alignment a []byte does not.
	words := make([]uint64, size/Align)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size), nil
}

// Free is a no-op; heap regions are reclaimed by the garbage collector.
func (Heap) Free(region []byte) error {
	return nil
}

// checkAligned panics if a region violates the Allocator contract.
func checkAligned(region []byte) {
	if len(region) == 0 {
		return
	}
	if uintptr(unsafe.Pointer(&region[0]))%Align != 0 {
		panic(fmt.Errorf("invariant violation: region at %p is not %d-byte aligned", &region[0], Align))
	}
}
