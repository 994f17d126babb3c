package rt

import "github.com/JarrettBillingsley/Croc-sub002/objkind"

// ThreadState is a coroutine's scheduling state (spec §3/§5).
type ThreadState uint8

const (
	ThreadInitial ThreadState = iota
	ThreadWaiting
	ThreadRunning
	ThreadSuspended
	ThreadDead
)

func (s ThreadState) String() string {
	switch s {
	case ThreadInitial:
		return "initial"
	case ThreadWaiting:
		return "waiting"
	case ThreadRunning:
		return "running"
	case ThreadSuspended:
		return "suspended"
	case ThreadDead:
		return "dead"
	default:
		return "<unknown thread state>"
	}
}

// ActivationRecord is one call frame on a Thread's activation-record
// stack. The interpreter (out of scope here) defines the rest of the
// calling convention; the core only owns the storage and its GC edges.
type ActivationRecord struct {
	Func    *Function
	PC      int
	BaseReg int
}

// TryRecord is one entry on a Thread's try-record stack, marking an
// exception-handling scope the interpreter unwinds to on a halt or thrown
// error.
type TryRecord struct {
	CatchPC   int
	FinallyPC int
	BaseReg   int
}

// Thread is a cooperatively-scheduled coroutine (spec §3/§5): its own
// value stack, activation-record stack, try-record stack, pending-result
// buffer, and open-upvalue list. Threads are linked into a VM-global
// doubly-linked list so the root set (and VM close) can enumerate every
// live thread.
type Thread struct {
	hdr objkind.Header
	weakState

	vm *VM

	Stack          []Value
	Activations    []ActivationRecord
	TryRecords     []TryRecord
	PendingResults []Value
	OpenUpvals     []*Upval

	State      ThreadState
	ShouldHalt bool

	prev, next *Thread // VM-global thread list
}

func newThread(vm *VM) *Thread {
	t := &Thread{vm: vm, State: ThreadInitial}
	t.hdr.Kind = objkind.Thread
	return t
}

func (t *Thread) Hdr() *objkind.Header { return &t.hdr }

func (t *Thread) VisitOutgoing(visit func(objkind.Object)) {
	for _, v := range t.Stack {
		if v.IsRefType() {
			visit(v.AsObject())
		}
	}
	for _, ar := range t.Activations {
		if ar.Func != nil {
			visit(ar.Func)
		}
	}
	for _, v := range t.PendingResults {
		if v.IsRefType() {
			visit(v.AsObject())
		}
	}
	for _, u := range t.OpenUpvals {
		if u != nil {
			visit(u)
		}
	}
}

func (t *Thread) Finalize() {}

// PushLocal allocates a new stack slot, pointing any Upval created over it
// (via OpenUpval) at the slot for as long as it remains open.
func (t *Thread) PushLocal(v Value) int {
	t.vm.gc.BarrierContainer(t)
	t.Stack = append(t.Stack, v)
	return len(t.Stack) - 1
}

// OpenUpval returns (creating if necessary) the open Upval over the stack
// slot at index, so multiple closures can share a captured local (spec
// §3, "Upval").
func (t *Thread) OpenUpval(index int) *Upval {
	for _, u := range t.OpenUpvals {
		if !u.closed && u.slot == &t.Stack[index] {
			return u
		}
	}
	u := newUpval(&t.Stack[index])
	t.vm.gc.BarrierContainer(t)
	t.OpenUpvals = append(t.OpenUpvals, u)
	return u
}

// CloseUpvalsFrom closes every open upvalue at or above stack index from,
// as happens when a scope exits (spec §4.7, Upval).
func (t *Thread) CloseUpvalsFrom(from int) {
	kept := t.OpenUpvals[:0]
	for _, u := range t.OpenUpvals {
		slotIndex := -1
		for i := range t.Stack {
			if &t.Stack[i] == u.slot {
				slotIndex = i
				break
			}
		}
		if slotIndex >= from {
			u.Close()
		} else {
			kept = append(kept, u)
		}
	}
	t.OpenUpvals = kept
}

// Reset wipes t's control state and returns it to ThreadInitial (spec
// §4.7, "Thread: on reset, all open upvalues must already be closed").
func (t *Thread) Reset() {
	if len(t.OpenUpvals) != 0 {
		Abort("Thread.Reset: %d open upvalues remain", len(t.OpenUpvals))
	}
	t.vm.gc.BarrierContainer(t)
	t.Stack = t.Stack[:0]
	t.Activations = t.Activations[:0]
	t.TryRecords = t.TryRecords[:0]
	t.PendingResults = t.PendingResults[:0]
	t.State = ThreadInitial
	t.ShouldHalt = false
}

// Halt raises ShouldHalt; the interpreter's next safepoint check unwinds
// try-records, closes open upvalues, and transitions the thread to Dead
// (spec §5, "Cancellation").
func (t *Thread) Halt() { t.ShouldHalt = true }
