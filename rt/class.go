package rt

import (
	"github.com/JarrettBillingsley/Croc-sub002/oahash"
	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

// Class is the frozen-on-demand type object of spec §3/§4.7: a class's
// method and field hashes are mutable only until frozen, after which only
// frozen classes may be instantiated and instances copy both hashes
// verbatim.
type Class struct {
	hdr objkind.Header
	weakState

	vm     *VM
	Name   *String
	Parent *Class

	Methods *oahash.Table[*String, Value]
	Fields  *oahash.Table[*String, Value]
	Hidden  *oahash.Table[*String, Value]

	frozen bool

	// Constructor and Finalizer cache the "constructor"/"finalizer"
	// method slots directly, so instantiation and reclamation don't pay
	// a hash lookup on every call (spec §4.7, "A class also caches direct
	// pointers to its constructor and finalizer field slots").
	Constructor Value
	Finalizer   Value

	// structuralReconciled latches Name/Parent accounting to a single RC
	// phase, the same way Namespace does (they never change after
	// construction).
	structuralReconciled bool
}

func newClass(vm *VM, name *String, parent *Class) *Class {
	c := &Class{
		vm:      vm,
		Name:    name,
		Parent:  parent,
		Methods: oahash.New[*String, Value](stringHasher, stringEqual, 0),
		Fields:  oahash.New[*String, Value](stringHasher, stringEqual, 0),
		Hidden:  oahash.New[*String, Value](stringHasher, stringEqual, 0),
	}
	c.hdr.Kind = objkind.Class
	return c
}

func (c *Class) Hdr() *objkind.Header { return &c.hdr }

func (c *Class) VisitOutgoing(visit func(objkind.Object)) {
	if c.Name != nil {
		visit(c.Name)
	}
	if c.Parent != nil {
		visit(c.Parent)
	}
	visitStringValueTable(c.Methods, visit)
	visitStringValueTable(c.Fields, visit)
	visitStringValueTable(c.Hidden, visit)
}

func visitStringValueTable(t *oahash.Table[*String, Value], visit func(objkind.Object)) {
	t.VisitAll(func(k *String, v Value) bool {
		visit(k)
		if v.IsRefType() {
			visit(v.AsObject())
		}
		return true
	})
}

// visitModifiedStringValueTable walks only t's modified slots, clearing
// their bits, for the Class/Instance field-hash objkind.ModifiedVisitor
// implementations.
func visitModifiedStringValueTable(t *oahash.Table[*String, Value], visit func(objkind.Object)) {
	t.VisitModified(func(k *String, v Value, keyMod, valMod bool) bool {
		if keyMod {
			visit(k)
		}
		if valMod && v.IsRefType() {
			visit(v.AsObject())
		}
		return true
	})
	t.ClearModified()
}

// VisitModifiedOutgoing is Class's objkind.ModifiedVisitor implementation:
// Name/Parent are visited once, ever; Methods/Fields/Hidden are each
// walked over only their modified slots (spec §4.8/§4.9).
func (c *Class) VisitModifiedOutgoing(visit func(objkind.Object)) {
	if !c.structuralReconciled {
		if c.Name != nil {
			visit(c.Name)
		}
		if c.Parent != nil {
			visit(c.Parent)
		}
		c.structuralReconciled = true
	}
	visitModifiedStringValueTable(c.Methods, visit)
	visitModifiedStringValueTable(c.Fields, visit)
	visitModifiedStringValueTable(c.Hidden, visit)
}

func (c *Class) Finalize() {}

// Frozen reports whether c may be instantiated.
func (c *Class) Frozen() bool { return c.frozen }

// SetMethod inserts or overwrites a method, re-caching Constructor /
// Finalizer if name matches one of those two reserved names. Panics
// (fatal) if c is already frozen — method/field layout is sealed at
// freeze (spec §4.7).
func (c *Class) SetMethod(name *String, fn Value) {
	if c.frozen {
		Abort("Class.SetMethod: class %q is frozen", c.Name)
	}
	c.vm.gc.BarrierContainer(c)
	if old, had := c.Methods.Lookup(name); had && !c.Methods.ValueModified(name) {
		decrementSupersededEdge(c.vm, old)
	}
	c.Methods.Insert(name, fn)
	switch {
	case c.vm.isConstructorName(name):
		c.Constructor = fn
	case c.vm.isFinalizerName(name):
		c.Finalizer = fn
	}
}

// SetField inserts or overwrites a default field value. Panics if frozen.
func (c *Class) SetField(name *String, v Value) {
	if c.frozen {
		Abort("Class.SetField: class %q is frozen", c.Name)
	}
	c.vm.gc.BarrierContainer(c)
	if old, had := c.Fields.Lookup(name); had && !c.Fields.ValueModified(name) {
		decrementSupersededEdge(c.vm, old)
	}
	c.Fields.Insert(name, v)
}

// SetHiddenField is SetField's counterpart for the hidden-fields hash.
func (c *Class) SetHiddenField(name *String, v Value) {
	if c.frozen {
		Abort("Class.SetHiddenField: class %q is frozen", c.Name)
	}
	c.vm.gc.BarrierContainer(c)
	if old, had := c.Hidden.Lookup(name); had && !c.Hidden.ValueModified(name) {
		decrementSupersededEdge(c.vm, old)
	}
	c.Hidden.Insert(name, v)
}

// Freeze seals c's method/field/hidden layout, making it eligible for
// instantiation (spec §4.7, "freeze makes the class eligible for
// instantiation").
func (c *Class) Freeze() { c.frozen = true }
