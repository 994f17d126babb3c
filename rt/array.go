package rt

import "github.com/JarrettBillingsley/Croc-sub002/objkind"

// Array is the contiguous Value-slot container of spec §3/§4.7: length is
// always <= capacity, and capacity grows by doubling. modified parallels
// slots one-to-one and carries the per-slot modified bit spec §3 requires
// ("Array: contiguous Value slots with per-slot modified bit"); it is what
// the container write barrier relies on instead of a full edge walk.
type Array struct {
	hdr objkind.Header
	weakState

	vm       *VM
	slots    []Value
	modified []bool
	length   int
}

func newArray(vm *VM, length int) *Array {
	a := &Array{vm: vm}
	a.hdr.Kind = objkind.Array
	a.slots = make([]Value, length)
	a.modified = make([]bool, length)
	a.length = length
	return a
}

func (a *Array) Hdr() *objkind.Header { return &a.hdr }

func (a *Array) VisitOutgoing(visit func(objkind.Object)) {
	for _, v := range a.slots[:a.length] {
		if v.IsRefType() {
			visit(v.AsObject())
		}
	}
}

// VisitModifiedOutgoing is Array's objkind.ModifiedVisitor implementation:
// it walks only the slots marked modified since the last call, then
// clears those bits (spec §4.7/§4.8/§4.9).
func (a *Array) VisitModifiedOutgoing(visit func(objkind.Object)) {
	for i := 0; i < a.length; i++ {
		if !a.modified[i] {
			continue
		}
		if v := a.slots[i]; v.IsRefType() {
			visit(v.AsObject())
		}
		a.modified[i] = false
	}
}

func (a *Array) Finalize() {}

// markModified sets i's modified bit, decrementing whatever edge it is
// about to replace the first time this particular slot changes since the
// last collection (mirrors Table/Namespace.Set; see those for why
// BarrierContainer itself cannot do this).
func (a *Array) markModified(i int) {
	if a.modified[i] {
		return
	}
	if old := a.slots[i]; old.IsRefType() {
		decrementSupersededEdge(a.vm, old)
	}
	a.modified[i] = true
}

// Len returns the array's current length.
func (a *Array) Len() int { return a.length }

// At returns the value at index i. Panics (fatal) on out-of-range i, per
// the core's no-user-visible-exceptions contract (spec §7); bounds
// checking against interpreter-level indices is the interpreter's job.
func (a *Array) At(i int) Value {
	a.boundsCheck(i)
	return a.slots[i]
}

// Idxa sets index i to v (spec §4.7, "idxa(i, v) updates slot, marks
// slot-modified"). The container write barrier logs a into the modified
// buffer; markModified accounts for the edge this particular slot write
// replaces, the first time slot i changes since the last collection.
func (a *Array) Idxa(i int, v Value) {
	a.boundsCheck(i)
	a.vm.gc.BarrierContainer(a)
	a.markModified(i)
	a.slots[i] = v
}

// SliceAssign overwrites [lo, hi) with src, growing neither capacity nor
// length (the interpreter is responsible for resizing first if lengths
// differ; this primitive only ever does an equal-length copy).
func (a *Array) SliceAssign(lo, hi int, src []Value) {
	if hi-lo != len(src) {
		Abort("Array.SliceAssign: range length %d does not match source length %d", hi-lo, len(src))
	}
	a.vm.gc.BarrierContainer(a)
	for i := lo; i < hi; i++ {
		a.markModified(i)
	}
	copy(a.slots[lo:hi], src)
}

// Fill overwrites every slot in [lo, hi) with v.
func (a *Array) Fill(lo, hi int, v Value) {
	a.vm.gc.BarrierContainer(a)
	for i := lo; i < hi; i++ {
		a.markModified(i)
		a.slots[i] = v
	}
}

// Append grows the array by one, doubling capacity if necessary, and
// stores v at the new final slot. The new slot has no prior edge to
// decrement, so it is simply marked modified directly.
func (a *Array) Append(v Value) {
	a.vm.gc.BarrierContainer(a)
	if a.length == len(a.slots) {
		a.growTo(a.length + 1)
	} else {
		a.length++
	}
	a.modified[a.length-1] = true
	a.slots[a.length-1] = v
}

// SetBlock overwrites [lo, lo+len(vs)) in one pass, used by the
// ARRAY-SETTER bytecode (spec §4.7).
func (a *Array) SetBlock(lo int, vs []Value) {
	a.SliceAssign(lo, lo+len(vs), vs)
}

// Cat concatenates a and b into a freshly allocated array, copying both
// sets of slots (spec §4.7, "cat allocates a new array and addrefs copied
// GC payloads" — addref accounting here is implicit: every copied slot is
// marked modified, and the new array reaches the modified buffer when it is
// registered directly in the RC heap or, for a nursery array, when it is
// promoted; the RC phase that processes it accounts every copied edge).
func (a *Array) Cat(b *Array) *Array {
	out := a.vm.NewArray(a.length + b.length)
	copy(out.slots, a.slots[:a.length])
	copy(out.slots[a.length:], b.slots[:b.length])
	for i := range out.modified[:out.length] {
		out.modified[i] = true
	}
	return out
}

func (a *Array) growTo(n int) {
	if n <= len(a.slots) {
		a.length = n
		return
	}
	newCap := len(a.slots)
	if newCap == 0 {
		newCap = 1
	}
	for newCap < n {
		newCap *= 2
	}
	grown := make([]Value, newCap)
	copy(grown, a.slots)
	grownMod := make([]bool, newCap)
	copy(grownMod, a.modified)
	a.slots = grown
	a.modified = grownMod
	a.length = n
}

func (a *Array) boundsCheck(i int) {
	if i < 0 || i >= a.length {
		Abort("Array index %d out of range [0,%d)", i, a.length)
	}
}
