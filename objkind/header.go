package objkind

// Flags is the bit field carried in every object header (spec §3, "Object
// header"). Bits not covered by a named constant are reserved.
type Flags uint16

const (
	// FlagInRC is set once an object lives in the RC heap. Objects
	// without this flag live in the nursery and carry no meaningful
	// refcount (spec invariant 3).
	FlagInRC Flags = 1 << iota

	// FlagUnlogged is true iff the object is NOT currently present in
	// the modified buffer (spec invariant 4). Cleared by the write
	// barrier on first touch since the last collection, set again once
	// the RC phase drains the modified buffer.
	FlagUnlogged

	// FlagCycleLogged marks an object as currently enqueued on the
	// cycle-roots worklist, preventing duplicate entries.
	FlagCycleLogged

	// FlagFinalizable marks an object as having a finalizer that must
	// run before the object is freed.
	FlagFinalizable

	// FlagFinalized marks an object whose finalizer has already run.
	// Once set it is never cleared, even if the object is resurrected
	// and collected again (spec §4.9, Finalization).
	FlagFinalized

	// FlagJustMoved marks an object that was promoted from the nursery
	// during the current RC phase. Consumers use this to reconcile
	// accounting exactly once; the collector clears it at the start of
	// the next RC phase.
	FlagJustMoved
)

// Header is the fixed-size bookkeeping block every heap object embeds
// ahead of its own fields (spec §3, "Object header").
type Header struct {
	Kind  Kind
	Color Color
	Flags Flags

	// Refcount is meaningful only once Flags&FlagInRC is set (spec
	// invariant 3). A nursery object's Refcount field is unused.
	Refcount int32

	// Size is the exact byte size of the object's allocation, used for
	// allocator accounting.
	Size int32
}

// InRC reports whether the object lives in the RC heap.
func (h *Header) InRC() bool { return h.Flags&FlagInRC != 0 }

// Unlogged reports whether the object is absent from the modified buffer.
func (h *Header) Unlogged() bool { return h.Flags&FlagUnlogged != 0 }

// SetUnlogged sets or clears FlagUnlogged.
func (h *Header) SetUnlogged(v bool) {
	if v {
		h.Flags |= FlagUnlogged
	} else {
		h.Flags &^= FlagUnlogged
	}
}

// CycleLogged reports whether the object is on the cycle-roots worklist.
func (h *Header) CycleLogged() bool { return h.Flags&FlagCycleLogged != 0 }

// SetCycleLogged sets or clears FlagCycleLogged.
func (h *Header) SetCycleLogged(v bool) {
	if v {
		h.Flags |= FlagCycleLogged
	} else {
		h.Flags &^= FlagCycleLogged
	}
}

// Finalizable reports whether the object carries a finalizer.
func (h *Header) Finalizable() bool { return h.Flags&FlagFinalizable != 0 }

// Finalized reports whether the object's finalizer has already run.
func (h *Header) Finalized() bool { return h.Flags&FlagFinalized != 0 }

// SetFinalized sets FlagFinalized. It is never cleared.
func (h *Header) SetFinalized() { h.Flags |= FlagFinalized }

// JustMoved reports whether the object was promoted from the nursery during
// the current RC phase.
func (h *Header) JustMoved() bool { return h.Flags&FlagJustMoved != 0 }

// SetJustMoved sets or clears FlagJustMoved.
func (h *Header) SetJustMoved(v bool) {
	if v {
		h.Flags |= FlagJustMoved
	} else {
		h.Flags &^= FlagJustMoved
	}
}

// Object is implemented by every heap-managed reference type (Table,
// Namespace, Array, Memblock, Function, Funcdef, Class, Instance, Thread,
// Upval, String, Weakref). It lets the collector (package gc) walk the
// object graph and free objects without importing the concrete object
// types from package rt, which in turn avoids an import cycle between rt
// (which calls into the write barrier) and gc (which walks rt's objects).
type Object interface {
	// Hdr returns the embedded header.
	Hdr() *Header

	// VisitOutgoing calls visit once for every outgoing GC edge the
	// object currently holds (i.e. every reference-type field). visit
	// may be called with nil-safe Object values; implementations must
	// skip nil targets themselves.
	VisitOutgoing(visit func(Object))

	// Finalize runs the object's user-visible finalizer, if any. It is
	// a no-op for objects without FlagFinalizable.
	Finalize()

	// HasWeakref reports whether a Weakref has ever been created for
	// this object, so the collector knows to clear it on reclamation.
	HasWeakref() bool

	// ClearWeakref nulls out any Weakref pointing at this object. Called
	// by the collector immediately before the object is freed.
	ClearWeakref()
}

// ModifiedVisitor is implemented by container-style objects that track
// per-slot modified bits (Table, Namespace, Array, and Class/Instance field
// hashes) instead of being walked in full on every RC phase. The container
// write barrier relies entirely on these bits: it logs the container into
// the modified buffer but does not itself snapshot outgoing edges (spec
// §4.8, "container write barrier"), so the RC phase's increment pass must
// call VisitModifiedOutgoing here instead of VisitOutgoing to reconcile
// only the edges that actually changed.
type ModifiedVisitor interface {
	// VisitModifiedOutgoing calls visit once for every outgoing edge whose
	// slot has been marked modified since the last call, then clears that
	// slot's modified bit(s). Structural (non-slot) fields that never
	// change after construction are visited exactly once, the first time
	// this is called for the object.
	VisitModifiedOutgoing(visit func(Object))
}
