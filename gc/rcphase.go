package gc

import "github.com/JarrettBillingsley/Croc-sub002/objkind"

// runRCPhase processes the modified buffer (incrementing outgoing RC edges)
// and then the decrement buffer (decrementing stale edges), freeing or
// queuing for finalization any object whose refcount reaches zero, and
// buffering as cycle candidates any object whose refcount survives a
// decrement above zero (spec §4.9, "RC phase").
//
// Root-held RC objects are pinned against the decrement buffer bringing
// their count to zero: roots are not themselves modeled as counted edges
// (only heap-to-heap container slots are), so a root's hold on an object
// has to be reasserted here rather than folded into the refcount the usual
// way. computeRootReachable walks the current root set once per phase and
// decrementOne consults it before ever freeing anything.
func (c *Collector) runRCPhase() {
	rootReach := c.computeRootReachable()
	c.processModifiedBuffer()
	c.processDecrementBuffer(rootReach)
	c.drainFinalizeQueue()
	c.drainFreeQueue()
}

// computeRootReachable walks the current root set transitively and returns
// the set of every object (nursery or RC-heap) reachable from it.
func (c *Collector) computeRootReachable() map[objkind.Object]bool {
	reach := make(map[objkind.Object]bool)
	if c.Roots == nil {
		return reach
	}
	var stack []objkind.Object
	mark := func(obj objkind.Object) {
		if obj == nil || reach[obj] {
			return
		}
		reach[obj] = true
		stack = append(stack, obj)
	}
	c.Roots(mark)
	for len(stack) > 0 {
		obj := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		obj.VisitOutgoing(mark)
	}
	return reach
}

// processModifiedBuffer reconciles every buffered object's outgoing edges.
// Pointer-slot objects (Function, Funcdef, Thread, Upval, ...) have no
// per-slot bits to fall back on, so every current edge is walked in full.
// Container objects (objkind.ModifiedVisitor) instead walk only the edges
// whose slot was marked modified since the last reconciliation, clearing
// those bits as they go (spec §4.8/§4.9).
func (c *Collector) processModifiedBuffer() {
	c.modified.Visit(func(obj objkind.Object) bool {
		increment := func(target objkind.Object) {
			if target != nil && target.Hdr().InRC() {
				target.Hdr().Refcount++
			}
		}
		if mv, ok := obj.(objkind.ModifiedVisitor); ok {
			mv.VisitModifiedOutgoing(increment)
		} else {
			obj.VisitOutgoing(increment)
		}
		h := obj.Hdr()
		h.SetUnlogged(true)
		h.SetJustMoved(false)
		return false // every entry is fully reconciled; remove it
	})
}

func (c *Collector) processDecrementBuffer(rootReach map[objkind.Object]bool) {
	c.decrement.Visit(func(obj objkind.Object) bool {
		c.decrementOne(obj, rootReach)
		return false
	})
}

// decrementOne lowers obj's refcount by one. If it reaches zero, obj is
// dead unless it is still pinned by the root set, in which case its count
// is restored to 1 and it is left untouched. A genuinely dead object has
// its own outgoing RC edges pushed onto the decrement buffer in turn, and
// moves to the free or finalize queue. If the refcount remains positive,
// obj becomes a cycle candidate (colored Purple and added to the
// cycle-roots worklist) unless it is Green or already logged there. An
// object whose count drops below zero was already queued when it reached
// zero, so it is not queued a second time.
func (c *Collector) decrementOne(obj objkind.Object, rootReach map[objkind.Object]bool) {
	h := obj.Hdr()
	h.Refcount--
	if h.Refcount > 0 {
		c.markCycleCandidate(obj)
		return
	}
	if rootReach[obj] {
		h.Refcount = 1
		return
	}
	if h.Refcount < 0 {
		return
	}

	obj.VisitOutgoing(func(child objkind.Object) {
		if child != nil && child.Hdr().InRC() {
			c.decrement.PushBack(child)
		}
	})

	if h.Finalizable() && !h.Finalized() {
		c.toFinalize.PushBack(obj)
	} else {
		c.toFree.PushBack(obj)
	}
}

func (c *Collector) markCycleCandidate(obj objkind.Object) {
	h := obj.Hdr()
	if h.Color == objkind.Green || h.CycleLogged() {
		return
	}
	h.Color = objkind.Purple
	h.SetCycleLogged(true)
	c.cycleRoots.PushBack(obj)
}

func (c *Collector) drainFinalizeQueue() {
	c.toFinalize.Visit(func(obj objkind.Object) bool {
		obj.Finalize()
		obj.Hdr().SetFinalized()
		if obj.Hdr().Refcount <= 0 {
			c.toFree.PushBack(obj)
		}
		return false
	})
}

func (c *Collector) drainFreeQueue() {
	c.toFree.Visit(func(obj objkind.Object) bool {
		if obj.HasWeakref() {
			obj.ClearWeakref()
		}
		if c.OnFree != nil {
			c.OnFree(obj)
		}
		return false
	})
}
