//go:build !linux && !darwin

package alloc

// NewArenaMemFunc on platforms without a supported mmap binding falls back
// to the plain Go-heap-backed callback; byte accounting remains accurate,
// it is simply not page-granular or RSS-backed.
func NewArenaMemFunc() MemFunc {
	return defaultMemFunc
}
