package rt

import "github.com/JarrettBillingsley/Croc-sub002/objkind"

// weakState is embedded by every reference type so it can answer
// HasWeakref/ClearWeakref without each concrete type repeating the same
// three lines (spec §3, "Weakref": "Canonicalized per referent").
type weakState struct {
	weak *Weakref
}

func (w *weakState) HasWeakref() bool { return w.weak != nil }

func (w *weakState) ClearWeakref() {
	if w.weak == nil {
		return
	}
	w.weak.referent = nil
	w.weak = nil
}

// Weakref is the single-field indirection object of spec §4.5: a nullable
// pointer to its referent, cleared by the collector when the referent is
// reclaimed. Weakref is itself Green (it holds no *counted* GC edge to its
// referent — the whole point is that it does not keep the referent alive).
type Weakref struct {
	hdr objkind.Header
	weakState

	referent objkind.Object
}

func (w *Weakref) Hdr() *objkind.Header { return &w.hdr }

// VisitOutgoing is a no-op: the referent pointer is a weak edge, never a
// GC-traced or reference-counted one.
func (w *Weakref) VisitOutgoing(func(objkind.Object)) {}

func (w *Weakref) Finalize() {}

// Deref returns the referent, or Null if it has been cleared (spec §8,
// "Weakref: deref(make_weak(o)) == o until o is collected").
func (w *Weakref) Deref() Value { return NewObject(w.referent) }

// weakTable is the VM-global canonical map of referent to Weakref (spec
// §4.5). Keyed by the referent's own address identity via the Object
// interface, which Go already compares by pointer for concrete pointer
// types.
type weakTable struct {
	byReferent map[objkind.Object]*Weakref
}

func newWeakTable() *weakTable {
	return &weakTable{byReferent: make(map[objkind.Object]*Weakref)}
}

// Make returns the canonical Weakref for obj, allocating one on first
// request (spec §4.5, "make(obj) returns the canonical Weakref for obj").
func (vm *VM) Make(obj objkind.Object) *Weakref {
	if obj == nil {
		Abort("Weakref.Make: nil referent")
	}
	if existing, ok := vm.weakrefs.byReferent[obj]; ok {
		return existing
	}
	w := &Weakref{hdr: objkind.Header{Kind: objkind.Weakref, Color: objkind.Green}, referent: obj}
	vm.registerObject(w, weakrefSize)
	vm.weakrefs.byReferent[obj] = w
	setWeakref(obj, w)
	return w
}

// setWeakref stores w on obj's embedded weakState, if obj's concrete type
// exposes one. Every concrete type in this package does; this indirection
// just avoids a type switch at every Make call site in favor of one here.
func setWeakref(obj objkind.Object, w *Weakref) {
	if s, ok := obj.(interface{ setWeak(*Weakref) }); ok {
		s.setWeak(w)
	}
}

func (w *weakState) setWeak(ref *Weakref) { w.weak = ref }

// forget removes obj's entry from the weak table. Called by the collector
// (via the VM's OnFree hook) immediately before obj is actually freed.
func (wt *weakTable) forget(obj objkind.Object) {
	delete(wt.byReferent, obj)
}

const weakrefSize = 32 // accounting placeholder; see vm.go's registerObject
