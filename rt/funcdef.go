package rt

import "github.com/JarrettBillingsley/Croc-sub002/objkind"

// SourceLoc records where a Funcdef came from, for debug tables and error
// messages (spec §6, "Funcdefs have a serializable shape").
type SourceLoc struct {
	File string
	Line int
}

// SwitchTable is one compiled `switch` statement's jump table, keyed by
// constant Value and resolving to a bytecode offset.
type SwitchTable struct {
	Cases   []Value
	Offsets []int
	Default int
}

// DebugLine maps a bytecode offset to a source line, for stack traces.
type DebugLine struct {
	PC   int
	Line int
}

// LocalVarDesc names a local variable's live range, for debuggers.
type LocalVarDesc struct {
	Name       *String
	StartPC    int
	EndPC      int
	RegisterNo int
}

// Funcdef is the immutable compiled representation of a script function
// (spec §3/§4.7): source location, parameter mask table, nested funcdefs,
// constants, bytecode, switch tables, and debug tables. Every field except
// CachedClosure is either a value type or itself Green (nested Funcdefs,
// interned String constants), but CachedClosure is a real, mutable edge to
// a non-Green Function, so Funcdef itself is not colored Green (spec
// invariant 5 forbids a Green object from holding an edge to a non-Green
// one) — it participates in ordinary cycle collection like any other RC
// object, even though in practice it is never part of a cycle.
type Funcdef struct {
	hdr objkind.Header
	weakState

	Name           *String
	Location       SourceLoc
	NumParams      int
	ParamMasks     []uint64 // one mask per parameter, for variadic/type-checked calls
	IsVararg       bool
	NumUpvals      int
	Nested         []*Funcdef
	Constants      []Value
	Bytecode       []byte
	SwitchTables   []SwitchTable
	DebugLines     []DebugLine
	LocalVars      []LocalVarDesc

	// CachedClosure holds the canonical Function instantiation of this
	// Funcdef when NumUpvals == 0 (spec §4.7, "If a script function has
	// zero upvalues, its canonical instantiation is cached in the Funcdef
	// so repeated closure-creation returns the same Function"). This is
	// the one field on an otherwise-Green Funcdef that can hold a live GC
	// edge, so Funcdef's VisitOutgoing reports it.
	CachedClosure *Function
}

func newFuncdef(name *String) *Funcdef {
	fd := &Funcdef{Name: name}
	fd.hdr.Kind = objkind.Funcdef
	return fd
}

func (fd *Funcdef) Hdr() *objkind.Header { return &fd.hdr }

func (fd *Funcdef) VisitOutgoing(visit func(objkind.Object)) {
	if fd.Name != nil {
		visit(fd.Name)
	}
	for _, n := range fd.Nested {
		if n != nil {
			visit(n)
		}
	}
	for _, c := range fd.Constants {
		if c.IsRefType() {
			visit(c.AsObject())
		}
	}
	for _, lv := range fd.LocalVars {
		if lv.Name != nil {
			visit(lv.Name)
		}
	}
	if fd.CachedClosure != nil {
		visit(fd.CachedClosure)
	}
}

func (fd *Funcdef) Finalize() {}
