// Package alloc implements the runtime's single allocation primitive: a
// host-supplied callback of shape (ctx, old, newSize) -> new, with byte
// accounting, an optional use-after-free poison mode, and an optional
// leak-detector mode that records every live allocation by its buffer's
// address and type name for diagnostic dumps on VM close (spec §4.1).
package alloc

import (
	"fmt"
	"unsafe"
)

// poisonByte fills freed ranges in debug builds so use-after-free shows up
// as a recognizable pattern rather than silently-reused zeros.
const poisonByte = 0xCD

// MemFunc is the host-supplied memory callback. old is nil to request a
// fresh allocation of newSize bytes; newSize is 0 to request old be freed;
// both non-nil/non-zero reallocates. The convention mirrors spec §4.1: the
// callback must never return nil for a non-zero newSize (the Allocator
// treats that as a fatal condition, not a recoverable error), and must not
// return a buffer shorter than requested.
type MemFunc func(ctx any, old []byte, newSize int) []byte

// defaultMemFunc is the plain Go-heap-backed callback used when the host
// does not supply one: allocate via make, let Go's allocator and GC do the
// rest. This is the "CallbackAllocator" default backend; alloc also
// supplies an mmap-backed arena backend (see arena_unix.go) for hosts that
// want real page-granularity accounting.
func defaultMemFunc(_ any, old []byte, newSize int) []byte {
	if newSize == 0 {
		return nil
	}
	buf := make([]byte, newSize)
	copy(buf, old)
	return buf
}

// leakRecord describes one live allocation for leak-detector dumps.
type leakRecord struct {
	addr     uintptr
	size     int
	typeName string
}

// Allocator tracks every byte the core hands out through its single memory
// callback. Construct with New; it is not safe for concurrent use by
// multiple goroutines, matching the single-threaded VM model (spec §5).
type Allocator struct {
	fn  MemFunc
	ctx any

	bytesAllocated int64

	poison       bool
	leakDetector bool
	live         map[uintptr]leakRecord
}

// New returns an Allocator backed by fn. If fn is nil, a plain
// make()-backed default is used.
func New(fn MemFunc, ctx any) *Allocator {
	if fn == nil {
		fn = defaultMemFunc
	}
	return &Allocator{fn: fn, ctx: ctx}
}

// SetDebugPoison enables or disables use-after-free poisoning of freed
// ranges. Intended for debug builds; adds a write on every Free (and on a
// Realloc to size 0, which frees).
func (a *Allocator) SetDebugPoison(on bool) { a.poison = on }

// SetLeakDetector enables or disables per-allocation tracking by address
// and type name, used for the diagnostic dump at VM close.
func (a *Allocator) SetLeakDetector(on bool) {
	a.leakDetector = on
	if on && a.live == nil {
		a.live = make(map[uintptr]leakRecord)
	}
}

// BytesAllocated returns the running total of live allocated bytes.
func (a *Allocator) BytesAllocated() int64 { return a.bytesAllocated }

// Alloc returns a zero-filled buffer of exactly size bytes, or raises a
// *FatalError if the callback violates its no-nil-for-live-request
// contract. typeName is recorded for leak-detector dumps; it may be empty.
func (a *Allocator) Alloc(size int, typeName string) []byte {
	if size <= 0 {
		panic(fatalf(nil, "alloc: non-positive size %d", size))
	}
	buf := a.fn(a.ctx, nil, size)
	if buf == nil {
		panic(fatalf(nil, "memory callback returned nil for live request of %d bytes", size))
	}
	if len(buf) < size {
		panic(fatalf(nil, "memory callback returned %d bytes, wanted %d", len(buf), size))
	}
	buf = buf[:size]
	for i := range buf {
		buf[i] = 0
	}
	a.bytesAllocated += int64(size)
	a.track(buf, typeName)
	return buf
}

// Realloc grows or shrinks old to newSize, preserving the overlapping
// prefix. newSize of 0 is equivalent to Free(old) and returns nil.
func (a *Allocator) Realloc(old []byte, newSize int, typeName string) []byte {
	oldSize := len(old)
	if newSize == 0 {
		a.Free(old)
		return nil
	}
	a.untrack(old)
	buf := a.fn(a.ctx, old, newSize)
	if buf == nil {
		panic(fatalf(nil, "memory callback returned nil for live realloc of %d bytes", newSize))
	}
	if len(buf) < newSize {
		panic(fatalf(nil, "memory callback returned %d bytes, wanted %d", len(buf), newSize))
	}
	buf = buf[:newSize]
	if newSize > oldSize {
		for i := oldSize; i < newSize; i++ {
			buf[i] = 0
		}
	}
	a.bytesAllocated += int64(newSize - oldSize)
	a.track(buf, typeName)
	return buf
}

// Free releases buf back through the memory callback. If debug poisoning
// is enabled, buf is stomped with poisonByte first to catch
// use-after-free.
func (a *Allocator) Free(buf []byte) {
	if buf == nil {
		return
	}
	a.untrack(buf)
	if a.poison {
		for i := range buf {
			buf[i] = poisonByte
		}
	}
	a.bytesAllocated -= int64(len(buf))
	a.fn(a.ctx, buf, 0)
}

func (a *Allocator) track(buf []byte, typeName string) {
	if !a.leakDetector || len(buf) == 0 {
		return
	}
	addr := bufAddr(buf)
	a.live[addr] = leakRecord{addr: addr, size: len(buf), typeName: typeName}
}

func (a *Allocator) untrack(buf []byte) {
	if !a.leakDetector || len(buf) == 0 {
		return
	}
	delete(a.live, bufAddr(buf))
}

func bufAddr(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(&buf[0]))
}

// LeakReport summarizes residual allocations at VM close (spec §7,
// "Leak").
type LeakReport struct {
	ResidualBytes int64
	ByType        map[string]int // typeName -> live byte count, leak-detector builds only
}

// Report produces a LeakReport reflecting the allocator's current state.
// Call after a no-roots drain cycle at VM close; a non-zero ResidualBytes
// is a leak (not fatal, spec §7).
func (a *Allocator) Report() LeakReport {
	r := LeakReport{ResidualBytes: a.bytesAllocated}
	if a.leakDetector {
		r.ByType = make(map[string]int)
		for _, rec := range a.live {
			r.ByType[rec.typeName] += rec.size
		}
	}
	return r
}

func (r LeakReport) String() string {
	if r.ResidualBytes == 0 {
		return "alloc: no leaks"
	}
	if r.ByType == nil {
		return fmt.Sprintf("alloc: leaked %d bytes", r.ResidualBytes)
	}
	s := fmt.Sprintf("alloc: leaked %d bytes:", r.ResidualBytes)
	for t, n := range r.ByType {
		s += fmt.Sprintf("\n  %-16s %8d bytes", t, n)
	}
	return s
}
