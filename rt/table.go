package rt

import (
	"github.com/JarrettBillingsley/Croc-sub002/oahash"
	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

// Table is the hash-from-Value-to-Value container of spec §3/§4.7. Setting
// a key to Null deletes it ("(k,null) absence ≡ deletion").
type Table struct {
	hdr objkind.Header
	weakState

	vm   *VM
	data *oahash.Table[Value, Value]
}

func newTable(vm *VM, capHint int) *Table {
	t := &Table{
		vm:   vm,
		data: oahash.New[Value, Value](valueHasher, valueEqual, capHint),
	}
	t.hdr.Kind = objkind.Table
	return t
}

func (t *Table) Hdr() *objkind.Header { return &t.hdr }

// VisitOutgoing visits every reference-type key and value currently
// stored (used for a pointer-slot-style full walk; container objects are
// normally reconciled via VisitModifiedOutgoing instead).
func (t *Table) VisitOutgoing(visit func(objkind.Object)) {
	t.data.VisitAll(func(k, v Value) bool {
		if k.IsRefType() {
			visit(k.AsObject())
		}
		if v.IsRefType() {
			visit(v.AsObject())
		}
		return true
	})
}

// VisitModifiedOutgoing is Table's objkind.ModifiedVisitor implementation:
// it walks only the slots oahash has marked modified since the last call,
// then clears those bits (spec §4.8/§4.9).
func (t *Table) VisitModifiedOutgoing(visit func(objkind.Object)) {
	t.data.VisitModified(func(k, v Value, keyMod, valMod bool) bool {
		if keyMod && k.IsRefType() {
			visit(k.AsObject())
		}
		if valMod && v.IsRefType() {
			visit(v.AsObject())
		}
		return true
	})
	t.data.ClearModified()
}

func (t *Table) Finalize() {}

// decrementSupersededEdge enqueues old on the decrement buffer if it is a
// live reference and this is the first time the slot holding it has
// changed since the last collection (guarded by the caller checking the
// oahash modified bit before overwriting). Every container's setter calls
// this for exactly the edge(s) a mutation is about to replace or remove,
// since BarrierContainer itself no longer snapshots outgoing edges.
func decrementSupersededEdge(vm *VM, old Value) {
	if old.IsRefType() {
		vm.gc.DecrementEdge(old.AsObject())
	}
}

// decrementSupersededObject is decrementSupersededEdge for containers whose
// key type is already an objkind.Object (Namespace/Class/Instance's
// *String keys), which are always live references, never value types.
func decrementSupersededObject(vm *VM, old objkind.Object) {
	vm.gc.DecrementEdge(old)
}

// Len returns the number of live key/value pairs.
func (t *Table) Len() int { return t.data.Len() }

// Get returns the value stored at key, if any (spec §4.7, "get(key) →
// &Value?").
func (t *Table) Get(key Value) (Value, bool) {
	return t.data.Lookup(key)
}

// Set stores value at key, or deletes the entry if value is Null (spec
// §4.7, "set(k, v); setting v = Null deletes"). The container write
// barrier fires to log t into the modified buffer; since it does not
// itself walk t's edges, Set separately decrements whatever edge this
// particular slot write is about to replace or remove, the first time
// that slot changes since the last collection (oahash's key/value-modified
// bits tell us whether this is that first touch).
func (t *Table) Set(key, value Value) {
	t.vm.gc.BarrierContainer(t)

	old, hadOld := t.data.Lookup(key)
	if value.kind == objkind.Null {
		if hadOld {
			if !t.data.ValueModified(key) {
				decrementSupersededEdge(t.vm, old)
			}
			if !t.data.KeyModified(key) {
				decrementSupersededEdge(t.vm, key)
			}
		}
		t.data.Remove(key)
		return
	}

	if hadOld && !t.data.ValueModified(key) {
		decrementSupersededEdge(t.vm, old)
	}
	t.data.Insert(key, value)
}
