package rt

import "github.com/JarrettBillingsley/Croc-sub002/objkind"

// NativeFunc is the callback shape for host-provided functions. The
// interpreter (out of scope for this core, spec §1) is responsible for
// actually invoking it; the core only stores it.
type NativeFunc func(vm *VM, args []Value) []Value

// Function is either a native function (a Go callback plus inline Value
// upvalues) or a script function (a Funcdef plus inline Upval pointers);
// either way it always carries an environment namespace and an optional
// name (spec §3/§4.7).
type Function struct {
	hdr objkind.Header
	weakState

	Name *String
	Env  *Namespace

	Native       NativeFunc
	NativeUpvals []Value

	Def    *Funcdef
	Upvals []*Upval
}

// newNativeFunction constructs a native Function. Complete on return: no
// two-phase construction is needed since native functions have no cyclic
// Funcdef/Function relationship to break.
func newNativeFunction(name *String, env *Namespace, fn NativeFunc, upvals []Value) *Function {
	f := &Function{Name: name, Env: env, Native: fn, NativeUpvals: upvals}
	f.hdr.Kind = objkind.Function
	return f
}

// newPartialScriptFunction begins constructing a script Function without
// attaching its Funcdef or environment yet (spec §6, "create-partial then
// attach funcdef and environment", to support a deserializer building the
// cyclic Funcdef<->Function reference for a zero-upvalue cached closure).
func newPartialScriptFunction() *Function {
	f := &Function{}
	f.hdr.Kind = objkind.Function
	return f
}

// Finish attaches def and env to a partially-constructed script Function,
// completing the two-phase protocol newPartialScriptFunction began.
func (f *Function) Finish(vm *VM, def *Funcdef, env *Namespace, upvals []*Upval) {
	vm.gc.BarrierPointerSlot(f)
	f.Def = def
	f.Env = env
	f.Upvals = upvals
}

// newScriptFunction is the ordinary one-phase constructor: build a closure
// over def and env in one call, caching it on def if it closes over no
// upvalues (spec §4.7, "If a script function has zero upvalues, its
// canonical instantiation is cached in the Funcdef").
func newScriptFunction(vm *VM, name *String, env *Namespace, def *Funcdef, upvals []*Upval) *Function {
	if len(upvals) == 0 && def.CachedClosure != nil {
		return def.CachedClosure
	}
	f := &Function{Name: name, Env: env, Def: def, Upvals: upvals}
	f.hdr.Kind = objkind.Function
	if len(upvals) == 0 {
		vm.gc.BarrierPointerSlot(def)
		def.CachedClosure = f
	}
	return f
}

func (f *Function) Hdr() *objkind.Header { return &f.hdr }

func (f *Function) VisitOutgoing(visit func(objkind.Object)) {
	if f.Name != nil {
		visit(f.Name)
	}
	if f.Env != nil {
		visit(f.Env)
	}
	for _, v := range f.NativeUpvals {
		if v.IsRefType() {
			visit(v.AsObject())
		}
	}
	if f.Def != nil {
		visit(f.Def)
	}
	for _, u := range f.Upvals {
		if u != nil {
			visit(u)
		}
	}
}

func (f *Function) Finalize() {}

// IsNative reports whether f wraps a Go callback rather than a Funcdef.
func (f *Function) IsNative() bool { return f.Native != nil }
