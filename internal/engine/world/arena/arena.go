// Package arena implements a fixed-capacity bump allocator.
//
// An Arena hands out consecutive regions of one pre-sized buffer. There is
// no per-allocation free: memory is reclaimed in bulk with Reset (cursor back
// to zero, buffer kept) or Free (buffer released). Regions returned before a
// Reset or Free must not be used afterwards; the arena does not guard this.
package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	// ErrExhausted is returned when an allocation does not fit in the remaining capacity.
	ErrExhausted = errors.New("arena exhausted")
	// ErrInvalidSize is returned for negative sizes.
	ErrInvalidSize = errors.New("invalid arena size")
)

// Scalar is the set of element types AllocSlice may carve out of the arena.
// Elements must be pointer-free because the backing buffer is a []byte the
// garbage collector does not scan.
type Scalar interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// Arena is a linear allocator over a contiguous byte buffer.
// It is not safe for concurrent use.
type Arena struct {
	buf  []byte
	size int
	used int
}

// New creates an arena backed by exactly capacity bytes.
func New(capacity int) (*Arena, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("new arena of %d bytes: %w", capacity, ErrInvalidSize)
	}
	return &Arena{
		buf:  make([]byte, capacity),
		size: capacity,
	}, nil
}

// Alloc returns n zeroed, unused bytes and advances the cursor by n.
// If the request does not fit, the cursor is left untouched.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("alloc %d bytes: %w", n, ErrInvalidSize)
	}
	if n > a.size-a.used {
		return nil, fmt.Errorf("alloc %d bytes (%d of %d used): %w", n, a.used, a.size, ErrExhausted)
	}
	start := a.used
	a.used += n
	b := a.buf[start:a.used:a.used]
	clear(b)
	return b, nil
}

// AllocSlice returns a zeroed slice of n elements of T, aligned to T's
// natural alignment. Alignment padding is consumed from the arena.
func AllocSlice[T Scalar](a *Arena, n int) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("alloc %d elements: %w", n, ErrInvalidSize)
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	pad := a.padding(int(unsafe.Alignof(zero)))
	if pad+n*elem > a.size-a.used {
		return nil, fmt.Errorf("alloc %d elements of %d bytes (%d of %d used): %w", n, elem, a.used, a.size, ErrExhausted)
	}
	a.used += pad
	b, err := a.Alloc(n * elem)
	if err != nil {
		a.used -= pad
		return nil, err
	}
	if n == 0 {
		return []T{}, nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n), nil
}

// padding returns how many bytes must be skipped so the next allocation
// starts on an address that is a multiple of align.
func (a *Arena) padding(align int) int {
	if align <= 1 || a.used >= a.size {
		return 0
	}
	addr := uintptr(unsafe.Pointer(&a.buf[a.used]))
	return int((uintptr(align) - addr%uintptr(align)) % uintptr(align))
}

// Reset rewinds the cursor to zero. The buffer is kept for reuse and every
// region handed out so far becomes invalid.
func (a *Arena) Reset() {
	a.used = 0
}

// Free releases the backing buffer. Any later allocation fails with ErrExhausted.
func (a *Arena) Free() {
	a.buf = nil
	a.size = 0
	a.used = 0
}

// Used returns the number of bytes handed out, including alignment padding.
func (a *Arena) Used() int { return a.used }

// Cap returns the arena capacity in bytes.
func (a *Arena) Cap() int { return a.size }

// Remaining returns the number of bytes still available.
func (a *Arena) Remaining() int { return a.size - a.used }

// AlignUp rounds n up to the next multiple of align (a power of two or any positive value).
func AlignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
