package rt

import (
	"github.com/JarrettBillingsley/Croc-sub002/alloc"
	"github.com/JarrettBillingsley/Croc-sub002/gc"
	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

// metaMethodNames is the fixed set of operator-overload method names the
// VM interns up front at Open, so every later metamethod lookup is a
// pointer comparison against an already-canonical String rather than a
// fresh intern-table round trip (spec §4.10, "interns the meta-method
// name table").
var metaMethodNames = []string{
	"opAdd", "opAdd_r", "opSub", "opSub_r", "opMul", "opMul_r",
	"opDiv", "opDiv_r", "opMod", "opMod_r", "opNeg",
	"opCmp", "opEquals", "opIn", "opLength", "opLengthAssign",
	"opIndex", "opIndexAssign", "opSlice", "opSliceAssign",
	"opCat", "opCat_r", "opCatAssign", "opCall", "opToString",
}

// VM owns every subsystem described in spec §4.10: the allocator, the
// collector, the interned-string and weakref tables, the root globals and
// registry namespaces, and the thread list.
type VM struct {
	alloc *alloc.Allocator
	gc    *gc.Collector

	strings  *internTable
	weakrefs *weakTable

	Globals  *Namespace
	Registry *Namespace

	metaStrings   map[string]*String
	ctorName      *String
	finalizerName *String

	threadHead *Thread

	// FinalizerRunner, if set, is invoked by Instance.Finalize to actually
	// call a user-defined finalizer method (spec §4.9: "a host-visible
	// finalizer-runner (conceptually, the interpreter) invokes user
	// finalizers"). The core has no script calling convention of its own.
	FinalizerRunner func(fn Value, self Value)

	// backing maps every live heap object to the byte buffer obtained
	// from the allocator for it, so accounting (spec §4.1) stays exact
	// even though the object's real storage is an ordinary Go struct, not
	// the buffer itself: Go has no portable way to overlay a struct onto
	// a host-supplied []byte the way a systems-language core would.
	backing map[objkind.Object][]byte
}

// Open allocates the VM and initializes every subsystem, then performs a
// full collection to quiesce (spec §4.10, "open"). mem is the host memory
// callback (nil uses the Go-heap-backed default).
func Open(mem alloc.MemFunc, ctx any) *VM {
	vm := &VM{
		alloc:   alloc.New(mem, ctx),
		backing: make(map[objkind.Object][]byte),
	}
	vm.weakrefs = newWeakTable()
	vm.strings = newInternTable()

	vm.gc = gc.New(gc.DefaultTuning())
	vm.gc.OnFree = vm.onFree
	vm.gc.Roots = vm.enumerateRoots

	vm.ctorName = vm.InternString("constructor")
	vm.finalizerName = vm.InternString("finalizer")
	vm.metaStrings = make(map[string]*String, len(metaMethodNames))
	for _, name := range metaMethodNames {
		vm.metaStrings[name] = vm.InternString(name)
	}

	vm.Registry = vm.NewNamespace(vm.InternString("registry"), nil)
	vm.Globals = vm.NewNamespace(vm.InternString("globals"), nil)

	vm.gc.CollectFull()
	return vm
}

// SetTuning reconfigures the collector's knobs (spec §6, "set GC tuning
// knobs"). Safe to call at any point between collections.
func (vm *VM) SetTuning(t gc.Tuning) { vm.gc = vm.gc.WithTuning(t) }

// Close clears the root tables, force-resets every non-dead thread, runs a
// full cycle, then up to FinalizerTrashLoopLimit additional full cycles to
// drain resurrecting finalizers, then a no-roots cycle to reclaim whatever
// is left irrespective of reachability, and finally reports any residual
// allocation as a leak (spec §4.10, "close").
func (vm *VM) Close() alloc.LeakReport {
	vm.Globals = nil
	vm.Registry = nil

	for t := vm.threadHead; t != nil; t = t.next {
		if t.State == ThreadDead {
			continue
		}
		for _, u := range t.OpenUpvals {
			u.Close()
		}
		t.OpenUpvals = nil
		t.Reset()
	}

	vm.gc.CollectFull()

	limit := vm.gc.Tuning().FinalizerTrashLoopLimit
	for i := 0; i < limit; i++ {
		if vm.gc.Stats().PendingFinalize == 0 && vm.gc.Stats().CycleRoots == 0 {
			break
		}
		vm.gc.CollectFull()
		if i == limit-1 {
			Abort("finalizer trash loop: finalizers still resurrecting objects after %d cycles", limit)
		}
	}

	vm.gc.CollectNoRoots()

	return vm.alloc.Report()
}

// onFree is the collector's OnFree hook: release obj's backing bytes,
// forget it from the weak/intern tables if applicable.
func (vm *VM) onFree(obj objkind.Object) {
	if buf, ok := vm.backing[obj]; ok {
		vm.alloc.Free(buf)
		delete(vm.backing, obj)
	}
	vm.weakrefs.forget(obj)
	if s, ok := obj.(*String); ok {
		vm.strings.remove(s)
	}
}

// registerObject accounts size bytes for obj through the allocator and
// hands obj to the collector (spec §4.1, §4.9).
func (vm *VM) registerObject(obj objkind.Object, size int) {
	buf := vm.alloc.Alloc(size, obj.Hdr().Kind.String())
	vm.backing[obj] = buf
	vm.gc.RegisterAlloc(obj, size)
}

// enumerateRoots is gc.RootsFunc: VM-level globals and registry
// namespaces, the reserved names interned at Open (constructor, finalizer
// and the meta-method names), and every non-dead thread (spec §4.10,
// "roots registration").
func (vm *VM) enumerateRoots(visit func(objkind.Object)) {
	if vm.Globals != nil {
		visit(vm.Globals)
	}
	if vm.Registry != nil {
		visit(vm.Registry)
	}
	if vm.ctorName != nil {
		visit(vm.ctorName)
	}
	if vm.finalizerName != nil {
		visit(vm.finalizerName)
	}
	for _, s := range vm.metaStrings {
		visit(s)
	}
	for t := vm.threadHead; t != nil; t = t.next {
		if t.State != ThreadDead {
			visit(t)
		}
	}
}

func (vm *VM) isConstructorName(s *String) bool { return s == vm.ctorName }
func (vm *VM) isFinalizerName(s *String) bool   { return s == vm.finalizerName }

// MetaString returns the canonical interned String for a meta-method name
// (e.g. "opAdd"), or nil if name isn't one of the reserved meta-method
// names (spec §4.10).
func (vm *VM) MetaString(name string) *String { return vm.metaStrings[name] }

// ---- allocation entry points (spec §6, "allocate/free typed object") ----

const (
	stringHeaderSize    = 40
	tableHeaderSize     = 56
	namespaceHeaderSize = 72
	classHeaderSize     = 96
	instanceHeaderSize  = 48
	threadHeaderSize    = 128
	funcHeaderSize      = 64
	funcdefHeaderSize   = 96
	memblockHeaderSize  = 32
	arrayHeaderSize     = 40
)

// InternBytes validates b as UTF-8 (replacing ill-formed sequences, spec
// §9's "string::contains"/codepoint note implies well-formed-UTF-8 is the
// contract for every interned string) and returns the canonical String
// for its content, allocating one only on a first sighting (spec §4.4).
func (vm *VM) InternBytes(b []byte) *String {
	b = sanitizeUTF8(b)
	hash, existing, ok := vm.strings.lookup(b)
	if ok {
		return existing
	}
	own := make([]byte, len(b))
	copy(own, b)
	s := &String{Bytes: own, Hash: hash, CPLen: countCodepoints(own)}
	s.hdr.Kind = objkind.String
	s.hdr.Color = objkind.Green
	vm.registerObject(s, stringHeaderSize+len(own))
	vm.strings.insert(s)
	return s
}

// InternString is InternBytes for a Go string.
func (vm *VM) InternString(s string) *String { return vm.InternBytes([]byte(s)) }

// NewTable returns a new, empty Table (spec §6, "create table").
func (vm *VM) NewTable() *Table {
	t := newTable(vm, 0)
	vm.registerObject(t, tableHeaderSize)
	return t
}

// NewNamespace returns a new, empty Namespace with the given name and
// parent (spec §6, "create namespace").
func (vm *VM) NewNamespace(name *String, parent *Namespace) *Namespace {
	ns := newNamespace(vm, name, parent)
	vm.registerObject(ns, namespaceHeaderSize)
	return ns
}

// NewArray returns a new Array of the given length, every slot Null
// (spec §6, "create array").
func (vm *VM) NewArray(length int) *Array {
	a := newArray(vm, length)
	vm.registerObject(a, arrayHeaderSize+length*16)
	return a
}

// NewMemblock returns a new, owning Memblock of size bytes (spec §6,
// "create memblock").
func (vm *VM) NewMemblock(size int) *Memblock {
	m := newMemblock(size)
	vm.registerObject(m, memblockHeaderSize+size)
	return m
}

// NewMemblockView returns a Memblock viewing owner's storage over
// [lo, hi), keeping owner alive via a real GC edge.
func (vm *VM) NewMemblockView(owner *Memblock, lo, hi int) *Memblock {
	v := newMemblockView(owner, lo, hi)
	vm.registerObject(v, memblockHeaderSize)
	return v
}

// NewClass returns a new, unfrozen Class (spec §6, "create/freeze
// class").
func (vm *VM) NewClass(name *String, parent *Class) *Class {
	c := newClass(vm, name, parent)
	vm.registerObject(c, classHeaderSize)
	return c
}

// NewInstance constructs an Instance of parent, which must already be
// frozen (spec §6, "create instance"; spec §4.7, "Instance").
func (vm *VM) NewInstance(parent *Class) *Instance {
	inst := newInstance(vm, parent)
	vm.registerObject(inst, instanceHeaderSize)
	return inst
}

// NewNativeFunction returns a Function wrapping a host callback (spec §6,
// "create function").
func (vm *VM) NewNativeFunction(name *String, env *Namespace, fn NativeFunc, upvals []Value) *Function {
	f := newNativeFunction(name, env, fn, upvals)
	vm.registerObject(f, funcHeaderSize)
	return f
}

// NewScriptFunction returns a Function closing over def and env, reusing
// def's cached zero-upvalue closure if applicable (spec §4.7).
func (vm *VM) NewScriptFunction(name *String, env *Namespace, def *Funcdef, upvals []*Upval) *Function {
	before := def.CachedClosure
	f := newScriptFunction(vm, name, env, def, upvals)
	if f != before {
		vm.registerObject(f, funcHeaderSize)
	}
	return f
}

// NewPartialScriptFunction begins the two-phase script-function
// construction protocol (spec §6, "Persisted state"); call Finish to
// complete it once Def/Env are known.
func (vm *VM) NewPartialScriptFunction() *Function {
	f := newPartialScriptFunction()
	vm.registerObject(f, funcHeaderSize)
	return f
}

// NewFuncdef returns a new, otherwise-empty Funcdef (spec §6, "create
// funcdef"). Callers fill in its fields directly (a deserializer or
// compiler is the only realistic caller).
func (vm *VM) NewFuncdef(name *String) *Funcdef {
	fd := newFuncdef(name)
	vm.registerObject(fd, funcdefHeaderSize)
	return fd
}

// NewThread returns a new Thread in state Initial, linked into the VM's
// thread list (spec §6, "create thread").
func (vm *VM) NewThread() *Thread {
	t := newThread(vm)
	vm.registerObject(t, threadHeaderSize)
	t.next = vm.threadHead
	if vm.threadHead != nil {
		vm.threadHead.prev = t
	}
	vm.threadHead = t
	return t
}

// MaybeCollect runs a collection only if the collector's configured
// thresholds have been crossed (spec §6, "run-GC variants").
func (vm *VM) MaybeCollect() { vm.gc.MaybeCollect() }

// Collect runs an RC phase followed by a full young collection.
func (vm *VM) Collect() { vm.gc.Collect() }

// CollectFull runs Collect and unconditionally follows it with a cycle
// collection pass.
func (vm *VM) CollectFull() { vm.gc.CollectFull() }

// BytesAllocated returns the allocator's running byte total.
func (vm *VM) BytesAllocated() int64 { return vm.alloc.BytesAllocated() }

// Stats returns the collector's current buffer-occupancy snapshot.
func (vm *VM) Stats() gc.Stats { return vm.gc.Stats() }
