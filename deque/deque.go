package deque

// minCapacity is the smallest ring size that growth and MinimizeToFit ever
// allocate; New allocates exactly roundUpPow2(capHint), which may be smaller.
const minCapacity = 8

// Deque is a power-of-two-sized ring buffer of T. The zero value is an
// empty, ready-to-use deque.
type Deque[T any] struct {
	buf   []T
	head  int // index of the front element
	count int
}

// New returns an empty deque with room for at least capHint elements
// pre-allocated (rounded up to a power of two). capHint may be zero.
func New[T any](capHint int) *Deque[T] {
	d := &Deque[T]{}
	if capHint > 0 {
		d.buf = make([]T, roundUpPow2(capHint))
	}
	return d
}

// Len returns the number of elements currently buffered.
func (d *Deque[T]) Len() int { return d.count }

// PushBack appends v to the back of the deque, growing by doubling if full.
func (d *Deque[T]) PushBack(v T) {
	d.growIfFull()
	idx := (d.head + d.count) & (len(d.buf) - 1)
	d.buf[idx] = v
	d.count++
}

// PopFront removes and returns the front element. ok is false if the deque
// is empty.
func (d *Deque[T]) PopFront() (v T, ok bool) {
	if d.count == 0 {
		return v, false
	}
	v = d.buf[d.head]
	var zero T
	d.buf[d.head] = zero // drop the reference so it can be collected
	d.head = (d.head + 1) & (len(d.buf) - 1)
	d.count--
	return v, true
}

// AppendDeque bulk-appends the contents of other, in order, leaving other
// unchanged.
func (d *Deque[T]) AppendDeque(other *Deque[T]) {
	other.Visit(func(v T) bool {
		d.PushBack(v)
		return true
	})
}

// AppendSlice bulk-appends vs, in order.
func (d *Deque[T]) AppendSlice(vs []T) {
	for _, v := range vs {
		d.PushBack(v)
	}
}

// Visit calls fn once for each element, front to back. fn returns false to
// request the just-yielded element be removed from the deque (stable
// removal during iteration); any other concurrent mutation of d during
// Visit is undefined, except for PushBack, whose new entries are always
// visited later in the same pass.
func (d *Deque[T]) Visit(fn func(v T) bool) {
	i := 0
	for i < d.count {
		idx := (d.head + i) & (len(d.buf) - 1)
		keep := fn(d.buf[idx])
		if keep {
			i++
			continue
		}
		d.removeAt(idx)
		// Do not advance i: the next element has slid into idx.
	}
}

// removeAt removes the element at ring index idx (which must be a
// currently-occupied slot) by shifting the shorter of the two sides.
func (d *Deque[T]) removeAt(idx int) {
	mask := len(d.buf) - 1
	// Distance from head to idx, and from idx to tail.
	fromHead := (idx - d.head) & mask
	tail := (d.head + d.count - 1) & mask
	fromTail := (tail - idx) & mask

	var zero T
	if fromHead <= fromTail {
		// Shift the front half forward by one.
		for i := fromHead; i > 0; i-- {
			cur := (d.head + i) & mask
			prev := (d.head + i - 1) & mask
			d.buf[cur] = d.buf[prev]
		}
		d.buf[d.head] = zero
		d.head = (d.head + 1) & mask
	} else {
		// Shift the back half backward by one.
		for i := fromTail; i > 0; i-- {
			cur := (idx + (fromTail - i)) & mask
			next := (cur + 1) & mask
			d.buf[cur] = d.buf[next]
		}
		d.buf[tail] = zero
	}
	d.count--
}

// Clear empties the deque without shrinking its backing storage.
func (d *Deque[T]) Clear() {
	var zero T
	for i := 0; i < d.count; i++ {
		idx := (d.head + i) & (len(d.buf) - 1)
		d.buf[idx] = zero
	}
	d.head = 0
	d.count = 0
}

// MinimizeToFit shrinks the backing array to the smallest power-of-two
// capacity, but no less than minCapacity, that still holds the current
// elements. A backing array already at or below that size is left as is.
func (d *Deque[T]) MinimizeToFit() {
	want := roundUpPow2(d.count)
	if want < minCapacity {
		want = minCapacity
	}
	if want >= len(d.buf) {
		return
	}
	nbuf := make([]T, want)
	for i := 0; i < d.count; i++ {
		nbuf[i] = d.buf[(d.head+i)&(len(d.buf)-1)]
	}
	d.buf = nbuf
	d.head = 0
}

func (d *Deque[T]) growIfFull() {
	if d.count < len(d.buf) {
		return
	}
	newCap := len(d.buf) * 2
	if newCap < minCapacity {
		newCap = minCapacity
	}
	nbuf := make([]T, newCap)
	for i := 0; i < d.count; i++ {
		nbuf[i] = d.buf[(d.head+i)&(len(d.buf)-1)]
	}
	d.buf = nbuf
	d.head = 0
}

func roundUpPow2(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
