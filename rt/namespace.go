package rt

import (
	"github.com/JarrettBillingsley/Croc-sub002/oahash"
	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

func stringHasher(s *String) uint64 { return s.Hash }
func stringEqual(a, b *String) bool { return a == b } // interning makes identity suffice

// Namespace is the hash-from-String-to-Value container of spec §3/§4.7,
// plus the structural fields (parent, root, name) every module/class
// environment needs. visitedOnce latches those structural fields so the
// write barrier only logs them the first time they're set, matching the
// spec's "latched via visitedOnce" note.
type Namespace struct {
	hdr objkind.Header
	weakState

	vm   *VM
	data *oahash.Table[*String, Value]

	Name   *String
	Parent *Namespace
	Root   *Namespace

	visitedOnce bool

	// structuralReconciled is set once the RC phase has accounted Name,
	// Parent and Root's edges a single time; they never change again
	// after setParent's one-time call, so VisitModifiedOutgoing need not
	// revisit them on every subsequent reconciliation.
	structuralReconciled bool
}

func newNamespace(vm *VM, name *String, parent *Namespace) *Namespace {
	ns := &Namespace{
		vm:   vm,
		data: oahash.New[*String, Value](stringHasher, stringEqual, 0),
		Name: name,
	}
	ns.hdr.Kind = objkind.Namespace
	ns.setParent(parent)
	return ns
}

func (ns *Namespace) Hdr() *objkind.Header { return &ns.hdr }

func (ns *Namespace) VisitOutgoing(visit func(objkind.Object)) {
	if ns.Name != nil {
		visit(ns.Name)
	}
	if ns.Parent != nil {
		visit(ns.Parent)
	}
	if ns.Root != nil && ns.Root != ns {
		visit(ns.Root)
	}
	ns.data.VisitAll(func(k *String, v Value) bool {
		visit(k)
		if v.IsRefType() {
			visit(v.AsObject())
		}
		return true
	})
}

// VisitModifiedOutgoing is Namespace's objkind.ModifiedVisitor
// implementation: Name/Parent/Root are visited exactly once, ever (they
// never change after setParent's one-time call); the data hash is walked
// only over its modified slots, which are then cleared (spec §4.8/§4.9).
func (ns *Namespace) VisitModifiedOutgoing(visit func(objkind.Object)) {
	if !ns.structuralReconciled {
		if ns.Name != nil {
			visit(ns.Name)
		}
		if ns.Parent != nil {
			visit(ns.Parent)
		}
		if ns.Root != nil && ns.Root != ns {
			visit(ns.Root)
		}
		ns.structuralReconciled = true
	}
	ns.data.VisitModified(func(k *String, v Value, keyMod, valMod bool) bool {
		if keyMod {
			visit(k)
		}
		if valMod && v.IsRefType() {
			visit(v.AsObject())
		}
		return true
	})
	ns.data.ClearModified()
}

func (ns *Namespace) Finalize() {}

// Get looks up name in ns's own table only (no parent-chain search: that
// lookup policy belongs to the interpreter, which layers scoping rules on
// top of this primitive).
func (ns *Namespace) Get(name *String) (Value, bool) { return ns.data.Lookup(name) }

// Set stores value at name, deleting the entry if value is Null, exactly
// like Table.Set (spec §4.7, "Namespace: analogous, keyed by String"). See
// Table.Set for why the superseded edge is decremented here directly
// rather than by the container write barrier.
func (ns *Namespace) Set(name *String, value Value) {
	ns.vm.gc.BarrierContainer(ns)

	old, hadOld := ns.data.Lookup(name)
	if value.kind == objkind.Null {
		if hadOld {
			if !ns.data.ValueModified(name) {
				decrementSupersededEdge(ns.vm, old)
			}
			if !ns.data.KeyModified(name) {
				decrementSupersededObject(ns.vm, name)
			}
		}
		ns.data.Remove(name)
		return
	}

	if hadOld && !ns.data.ValueModified(name) {
		decrementSupersededEdge(ns.vm, old)
	}
	ns.data.Insert(name, value)
}

// setParent sets Parent and, on first call only, Root (spec §3, "a
// visitedOnce latch for structural fields"). Root is this namespace's own
// root for a namespace with no parent (conventionally the globals or
// registry namespace).
func (ns *Namespace) setParent(parent *Namespace) {
	if ns.visitedOnce {
		return
	}
	ns.vm.gc.BarrierPointerSlot(ns)
	ns.Parent = parent
	if parent != nil {
		ns.Root = parent.Root
	} else {
		ns.Root = ns
	}
	ns.visitedOnce = true
}
