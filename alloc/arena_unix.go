//go:build linux || darwin

package alloc

import (
	"golang.org/x/sys/unix"
)

// NewArenaMemFunc returns a MemFunc backed by anonymous mmap pages instead
// of the Go heap, so BytesAllocated reflects real RSS-backed memory rather
// than memory Go's own GC might still be holding onto. Each live allocation
// owns a dedicated mapping; Realloc maps a fresh region, copies the
// overlapping prefix, and unmaps the old one (mmap regions cannot be
// resized in place portably).
//
// Grounded on the mmap-an-arena pattern in hive/loader_unix.go and the
// raw-syscall style of hive/dirty/flush_unix.go.
func NewArenaMemFunc() MemFunc {
	return func(_ any, old []byte, newSize int) []byte {
		if newSize == 0 {
			if old != nil {
				_ = unix.Munmap(old[:cap(old)])
			}
			return nil
		}

		buf, err := unix.Mmap(-1, 0, newSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			panic(fatalf(err, "mmap arena: failed to map %d bytes", newSize))
		}
		if old != nil {
			copy(buf, old)
			_ = unix.Munmap(old[:cap(old)])
		}
		return buf
	}
}
