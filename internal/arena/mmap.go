package arena

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Mmap allocates regions outside the Go heap using anonymous memory mappings.
//
// Large slot arrays are never scanned by the GC, and the kernel hands out
// zero-filled pages, so no explicit clearing pass is needed.
type Mmap struct {
	mapped atomic.Int64 // Bytes currently mapped.
}

// Alloc maps a new anonymous region of size bytes.
func (m *Mmap) Alloc(size int) ([]byte, error) {
	if size < 0 || size%Align != 0 {
		return nil, fmt.Errorf("%w: %d is not a multiple of %d", ErrInvalidSize, size, Align)
	}
	if size == 0 {
		return []byte{}, nil
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot allocate %d bytes via mmap: %w", size, err)
	}
	checkAligned(data)
	m.mapped.Add(int64(size))
	return data, nil
}

// Free unmaps a region previously returned by Alloc.
func (m *Mmap) Free(region []byte) error {
	if len(region) == 0 {
		return nil
	}
	size := cap(region)
	if err := unix.Munmap(region[:size]); err != nil {
		slog.Error("failed to unmap region", "size", size, "error", err)
		return err
	}
	m.mapped.Add(-int64(size))
	return nil
}

// Mapped returns the number of bytes currently mapped by m.
func (m *Mmap) Mapped() int64 {
	return m.mapped.Load()
}
