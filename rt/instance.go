package rt

import (
	"github.com/JarrettBillingsley/Croc-sub002/oahash"
	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

// Instance is an object constructed from a frozen Class (spec §3/§4.7).
// Its Fields (and Hidden, if the class declared any) are a private copy of
// the parent class's hashes, taken at construction time, so per-instance
// mutation never disturbs the class or any sibling instance (spec
// invariant 7: "I.fields is disjoint, by pointer identity, from
// I.parent.fields").
type Instance struct {
	hdr objkind.Header
	weakState

	vm     *VM
	Parent *Class
	Fields *oahash.Table[*String, Value]
	Hidden *oahash.Table[*String, Value]

	// structuralReconciled latches Parent accounting to a single RC
	// phase, the same way Namespace/Class do (it never changes after
	// construction).
	structuralReconciled bool
}

func newInstance(vm *VM, parent *Class) *Instance {
	if !parent.Frozen() {
		Abort("cannot instantiate unfrozen class %q", parent.Name)
	}
	inst := &Instance{
		vm:     vm,
		Parent: parent,
		Fields: copyStringValueTable(parent.Fields),
	}
	if parent.Hidden.Len() > 0 {
		inst.Hidden = copyStringValueTable(parent.Hidden)
	}
	inst.hdr.Kind = objkind.Instance
	if parent.Finalizer.kind != objkind.Null {
		inst.hdr.Flags |= objkind.FlagFinalizable
	}
	return inst
}

// copyStringValueTable builds a fresh oahash.Table with the same entries
// as src, the mechanism behind spec invariant 7's per-instance field-table
// copy.
func copyStringValueTable(src *oahash.Table[*String, Value]) *oahash.Table[*String, Value] {
	dst := oahash.New[*String, Value](stringHasher, stringEqual, src.Len())
	src.VisitAll(func(k *String, v Value) bool {
		dst.Insert(k, v)
		return true
	})
	return dst
}

func (inst *Instance) Hdr() *objkind.Header { return &inst.hdr }

func (inst *Instance) VisitOutgoing(visit func(objkind.Object)) {
	if inst.Parent != nil {
		visit(inst.Parent)
	}
	visitStringValueTable(inst.Fields, visit)
	if inst.Hidden != nil {
		visitStringValueTable(inst.Hidden, visit)
	}
}

// Finalize invokes the owning class's finalizer, if the embedding host
// registered a finalizer runner (spec §4.9: "A host-visible finalizer-
// runner (conceptually, the interpreter) invokes user finalizers"). The
// core itself has no calling convention for script functions; it only
// provides the hook.
func (inst *Instance) Finalize() {
	if inst.vm.FinalizerRunner == nil {
		return
	}
	if inst.Parent.Finalizer.kind == objkind.Null {
		return
	}
	inst.vm.FinalizerRunner(inst.Parent.Finalizer, NewObject(inst))
}

// VisitModifiedOutgoing is Instance's objkind.ModifiedVisitor
// implementation: Parent is visited once, ever; Fields/Hidden are each
// walked over only their modified slots (spec §4.8/§4.9).
func (inst *Instance) VisitModifiedOutgoing(visit func(objkind.Object)) {
	if !inst.structuralReconciled {
		if inst.Parent != nil {
			visit(inst.Parent)
		}
		inst.structuralReconciled = true
	}
	visitModifiedStringValueTable(inst.Fields, visit)
	if inst.Hidden != nil {
		visitModifiedStringValueTable(inst.Hidden, visit)
	}
}

// Get looks up name in Fields, falling back to Hidden.
func (inst *Instance) Get(name *String) (Value, bool) {
	if v, ok := inst.Fields.Lookup(name); ok {
		return v, true
	}
	if inst.Hidden != nil {
		return inst.Hidden.Lookup(name)
	}
	return Null, false
}

// Set stores value at name in Fields (spec §4.7 gives Instance no setter
// of its own beyond the generic container write barrier discipline
// already described for Table/Namespace). See Table.Set for why the
// superseded edge is decremented here directly.
func (inst *Instance) Set(name *String, value Value) {
	inst.vm.gc.BarrierContainer(inst)
	if old, had := inst.Fields.Lookup(name); had && !inst.Fields.ValueModified(name) {
		decrementSupersededEdge(inst.vm, old)
	}
	inst.Fields.Insert(name, value)
}
