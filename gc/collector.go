package gc

import (
	"fmt"

	"github.com/JarrettBillingsley/Croc-sub002/deque"
	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

// RootsFunc enumerates every object that is alive by definition rather
// than by refcount or reachability: VM-level globals and registry
// namespaces, the VM's reserved interned names, and every non-dead thread
// (spec §4.10, "roots registration").
type RootsFunc func(visit func(objkind.Object))

// Collector implements the hybrid young/RC collector described in spec
// §4.9. It is not safe for concurrent use; the owning VM is single-threaded
// (spec §5).
type Collector struct {
	tuning Tuning

	// Roots enumerates the VM's root set. Must be set before the first
	// collection.
	Roots RootsFunc

	// OnFree is called exactly once, right before an object is
	// considered reclaimed, so the owner can release its backing bytes
	// through the allocator. Must be set before the first collection.
	OnFree func(objkind.Object)

	nursery    *deque.Deque[objkind.Object]
	nurseryLen int64 // sum of byte sizes of objects currently in the nursery

	modified   *deque.Deque[objkind.Object]
	decrement  *deque.Deque[objkind.Object]
	cycleRoots *deque.Deque[objkind.Object]
	toFree     *deque.Deque[objkind.Object]
	toFinalize *deque.Deque[objkind.Object]

	rcPhasesSinceCycleCollect int
	inCycle                   bool // reentrancy guard, spec §5
}

// New returns a Collector configured with tuning (zero fields fall back to
// DefaultTuning's values).
func New(tuning Tuning) *Collector {
	tuning.applyDefaultsForZeroFields()
	return &Collector{
		tuning:     tuning,
		nursery:    deque.New[objkind.Object](0),
		modified:   deque.New[objkind.Object](0),
		decrement:  deque.New[objkind.Object](0),
		cycleRoots: deque.New[objkind.Object](0),
		toFree:     deque.New[objkind.Object](0),
		toFinalize: deque.New[objkind.Object](0),
	}
}

// RegisterAlloc is called immediately after an object's backing storage has
// been allocated. size is the object's exact byte size (from its header).
// Non-finalizable objects below NurserySizeCutoff are born in the nursery;
// everything else is born directly in the RC heap with a refcount of 1
// representing the caller's just-created reference, and is immediately
// enqueued on the modified buffer so its own outgoing edges get accounted
// during the next RC phase.
func (c *Collector) RegisterAlloc(obj objkind.Object, size int) {
	h := obj.Hdr()
	h.Size = int32(size)

	bornInRC := size >= c.tuning.NurserySizeCutoff || h.Finalizable()
	if !bornInRC {
		h.SetUnlogged(true)
		c.nursery.PushBack(obj)
		c.nurseryLen += int64(size)
		return
	}

	h.Flags |= objkind.FlagInRC
	h.Refcount = 1
	h.SetUnlogged(false)
	c.modified.PushBack(obj)
}

// BarrierPointerSlot is the write barrier for objects with a small fixed
// set of GC-pointer fields (Function, Class.name, Instance.parent, ...). It
// must be called before the field is actually overwritten (spec §4.8).
func (c *Collector) BarrierPointerSlot(obj objkind.Object) {
	h := obj.Hdr()
	if !h.Unlogged() {
		return
	}
	c.modified.PushBack(obj)
	obj.VisitOutgoing(func(target objkind.Object) {
		if target != nil && target.Hdr().InRC() {
			c.decrement.PushBack(target)
		}
	})
	h.SetUnlogged(false)
}

// BarrierContainer is the write barrier for hash/array-backed containers
// (Table, Namespace, Array, Class fields/methods/hidden, Instance
// fields/hidden). It must be called before the slot write that prompted
// it. Unlike BarrierPointerSlot, it does not walk the container's outgoing
// edges: on first dirty touch since the last collection it only enqueues
// the container itself on the modified buffer. The per-slot modified bits
// the container tracks (oahash's KeyModified/ValueModified, Array's
// modified-slot bits) are what the RC phase's increment pass consults
// instead (spec §4.8, "container write barrier... individual slot changes
// set the slot's ... modified bits so that, during the next collection,
// only changed edges are reconciled"). Because this never sees the edge a
// slot write is about to replace, callers are responsible for enqueuing
// that superseded edge on the decrement buffer themselves, via
// DecrementEdge, the first time a given slot changes since the last
// collection.
func (c *Collector) BarrierContainer(obj objkind.Object) {
	h := obj.Hdr()
	if !h.Unlogged() {
		return
	}
	c.modified.PushBack(obj)
	h.SetUnlogged(false)
}

// DecrementEdge enqueues target directly on the decrement buffer. Container
// write barriers use this to account for an edge a slot write is about to
// overwrite or remove, the one piece of bookkeeping BarrierContainer itself
// does not do (spec §4.8).
func (c *Collector) DecrementEdge(target objkind.Object) {
	if target != nil && target.Hdr().InRC() {
		c.decrement.PushBack(target)
	}
}

// MaybeCollect runs a collection only if the configured thresholds have
// been crossed; it is always safe to call and is idempotent when nothing
// has crossed a threshold.
func (c *Collector) MaybeCollect() {
	if c.inCycle {
		return
	}
	metadataEntries := c.modified.Len() + c.decrement.Len()
	if c.nurseryLen >= c.tuning.NurseryLimit || metadataEntries >= c.tuning.MetadataLimit {
		c.Collect()
	}
}

// Collect runs an RC phase followed by a full young collection.
func (c *Collector) Collect() {
	c.guarded(func() {
		// The RC phase runs first, reconciling whatever the previous
		// collection's young pass (or intervening mutations) queued; the
		// young pass that follows promotes this cycle's survivors, whose
		// own modified/decrement entries are left for the *next* RC phase
		// to reconcile (spec §8, scenario S6).
		c.runRCPhase()
		c.collectYoung()
		c.rcPhasesSinceCycleCollect++
		if c.rcPhasesSinceCycleCollect >= c.tuning.NextCycleCollect ||
			c.cycleRoots.Len() >= c.tuning.CycleMetadataLimit {
			c.runCycleCollection()
			c.rcPhasesSinceCycleCollect = 0
		}
	})
}

// CollectFull runs Collect and unconditionally follows it with a cycle
// collection pass (spec §4.9, "Entry points").
func (c *Collector) CollectFull() {
	c.guarded(func() {
		c.runRCPhase()
		c.collectYoung()
		c.runCycleCollection()
		c.rcPhasesSinceCycleCollect = 0
	})
}

// CollectNoRoots drains the heap irrespective of the root set, used during
// VM close (spec §4.9, "Entry points"). Roots is temporarily treated as
// empty for the duration of this call.
func (c *Collector) CollectNoRoots() {
	savedRoots := c.Roots
	c.Roots = func(func(objkind.Object)) {}
	defer func() { c.Roots = savedRoots }()

	c.guarded(func() {
		c.runRCPhase()
		c.collectYoung()
		c.runCycleCollection()
		c.rcPhasesSinceCycleCollect = 0
	})
}

// guarded enforces the in_gc_cycle invariant: a GC cycle may not itself
// trigger another one (spec §5, Reentrancy). fn is expected to be called
// only from allocation paths that are themselves reentrant into the
// allocator, never recursively into the collector.
func (c *Collector) guarded(fn func()) {
	if c.inCycle {
		panic(fmt.Errorf("gc: collection requested while already inside a collection cycle"))
	}
	c.inCycle = true
	defer func() { c.inCycle = false }()
	fn()
}

// Tuning returns the collector's current tuning knobs.
func (c *Collector) Tuning() Tuning { return c.tuning }

// WithTuning returns c reconfigured with t (spec §6, "set GC tuning
// knobs"); zero fields fall back to DefaultTuning's values, same as New.
func (c *Collector) WithTuning(t Tuning) *Collector {
	t.applyDefaultsForZeroFields()
	c.tuning = t
	return c
}

// Stats reports buffer occupancy, for tests and diagnostics.
type Stats struct {
	NurseryObjects  int
	NurseryBytes    int64
	ModifiedBuffer  int
	DecrementBuffer int
	CycleRoots      int
	PendingFinalize int
}

// Stats returns a snapshot of the collector's internal buffer sizes.
func (c *Collector) Stats() Stats {
	return Stats{
		NurseryObjects:  c.nursery.Len(),
		NurseryBytes:    c.nurseryLen,
		ModifiedBuffer:  c.modified.Len(),
		DecrementBuffer: c.decrement.Len(),
		CycleRoots:      c.cycleRoots.Len(),
		PendingFinalize: c.toFinalize.Len(),
	}
}
