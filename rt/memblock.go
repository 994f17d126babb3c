package rt

import "github.com/JarrettBillingsley/Croc-sub002/objkind"

// Memblock is a raw byte buffer; it may own its storage or view another
// memblock's (spec §3). Memblock is Green: it holds no Value/Object edges
// at all, only bytes, so it can never participate in a reference cycle.
type Memblock struct {
	hdr objkind.Header
	weakState

	Data  []byte
	owner *Memblock // non-nil if this is a view rather than an owner
}

func newMemblock(size int) *Memblock {
	m := &Memblock{Data: make([]byte, size)}
	m.hdr.Kind = objkind.Memblock
	m.hdr.Color = objkind.Green
	return m
}

// newMemblockView returns a Memblock that shares owner's backing array
// over [lo, hi). owner is kept alive by a reference-counted edge even
// though a view itself carries no outgoing Value edges in the usual
// sense: VisitOutgoing reports it explicitly.
func newMemblockView(owner *Memblock, lo, hi int) *Memblock {
	v := &Memblock{Data: owner.Data[lo:hi], owner: owner}
	v.hdr.Kind = objkind.Memblock
	// A view is not provably acyclic independent of its owner in the same
	// trivial sense an owning memblock is, but since Memblock never holds
	// a *Value* edge (only this one Memblock-to-Memblock pointer, and
	// Memblocks never point at each other cyclically by construction —
	// an owner is never itself a view), it stays Green.
	v.hdr.Color = objkind.Green
	return v
}

func (m *Memblock) Hdr() *objkind.Header { return &m.hdr }

func (m *Memblock) VisitOutgoing(visit func(objkind.Object)) {
	if m.owner != nil {
		visit(m.owner)
	}
}

func (m *Memblock) Finalize() {}

// Len returns the view length in bytes.
func (m *Memblock) Len() int { return len(m.Data) }

// IsView reports whether m shares another memblock's storage.
func (m *Memblock) IsView() bool { return m.owner != nil }
