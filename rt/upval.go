package rt

import "github.com/JarrettBillingsley/Croc-sub002/objkind"

// Upval is the indirection cell of spec §3/§4.7: while a local is on a
// thread's stack, the cell's Value pointer refers into that stack
// (represented here as a pointer to the live stack slot); once the scope
// exits, the value is copied into closedValue and the pointer is
// redirected inward, detaching from the owning thread.
type Upval struct {
	hdr objkind.Header
	weakState

	slot        *Value // non-nil and pointing into a Thread's stack while open
	closedValue Value
	closed      bool
}

func newUpval(slot *Value) *Upval {
	u := &Upval{slot: slot}
	u.hdr.Kind = objkind.Upval
	u.recolor()
	return u
}

func (u *Upval) Hdr() *objkind.Header { return &u.hdr }

func (u *Upval) VisitOutgoing(visit func(objkind.Object)) {
	v := u.Value()
	if v.IsRefType() {
		visit(v.AsObject())
	}
}

func (u *Upval) Finalize() {}

// Value returns the cell's current payload, whether open or closed.
func (u *Upval) Value() Value {
	if u.closed {
		return u.closedValue
	}
	return *u.slot
}

// Close copies the current stack value into closedValue and redirects the
// cell's pointer inward, detaching it from the owning thread's stack
// (spec §4.7, "Upval: ... on close, the cell's value is moved into
// closedValue and the pointer redirected to that slot").
func (u *Upval) Close() {
	if u.closed {
		return
	}
	u.closedValue = *u.slot
	u.slot = &u.closedValue
	u.closed = true
	u.recolor()
}

// recolor applies spec §4.9's color discipline: a closed Upval over a
// value-type payload is Green (provably acyclic); any other Upval
// (open, or closed over a reference type) is not.
func (u *Upval) recolor() {
	if u.closed && !u.closedValue.IsRefType() {
		u.hdr.Color = objkind.Green
	} else {
		u.hdr.Color = objkind.Black
	}
}
