package gc

import "github.com/JarrettBillingsley/Croc-sub002/objkind"

// runCycleCollection performs one pass of Bacon-Rajan trial deletion over
// the current cycle-roots worklist (spec §4.9, "Cycle collection").
func (c *Collector) runCycleCollection() {
	var roots []objkind.Object
	c.cycleRoots.Visit(func(obj objkind.Object) bool {
		obj.Hdr().SetCycleLogged(false)
		if obj.Hdr().Color == objkind.Purple {
			roots = append(roots, obj)
		}
		return false // the worklist is rebuilt fresh on the next pass
	})

	for _, obj := range roots {
		if obj.Hdr().Color == objkind.Purple {
			c.markGrey(obj)
		}
	}
	for _, obj := range roots {
		c.scan(obj)
	}
	for _, obj := range roots {
		c.collectWhite(obj)
	}
	c.drainFinalizeQueue()
	c.drainFreeQueue()
}

// markGrey paints obj and its RC-heap descendants Grey, temporarily
// decrementing each child's refcount as it is traversed to simulate
// removing the internal edges of a would-be cycle.
func (c *Collector) markGrey(obj objkind.Object) {
	h := obj.Hdr()
	if h.Color == objkind.Grey {
		return
	}
	h.Color = objkind.Grey
	obj.VisitOutgoing(func(child objkind.Object) {
		if child == nil || !child.Hdr().InRC() || child.Hdr().Color == objkind.Green {
			return
		}
		child.Hdr().Refcount--
		c.markGrey(child)
	})
}

// scan repaints a Grey subgraph Black (restoring the temporary decrements)
// if any positive refcount remains, or White if not.
func (c *Collector) scan(obj objkind.Object) {
	h := obj.Hdr()
	if h.Color != objkind.Grey {
		return
	}
	if h.Refcount > 0 {
		c.scanBlack(obj)
		return
	}
	h.Color = objkind.White
	obj.VisitOutgoing(func(child objkind.Object) {
		if child != nil && child.Hdr().InRC() && child.Hdr().Color != objkind.Green {
			c.scan(child)
		}
	})
}

func (c *Collector) scanBlack(obj objkind.Object) {
	h := obj.Hdr()
	h.Color = objkind.Black
	obj.VisitOutgoing(func(child objkind.Object) {
		if child == nil || !child.Hdr().InRC() || child.Hdr().Color == objkind.Green {
			return
		}
		child.Hdr().Refcount++
		if child.Hdr().Color != objkind.Black {
			c.scanBlack(child)
		}
	})
}

// collectWhite frees every still-White object reachable from obj. White
// objects found here are never re-decremented: their only incoming edges
// were from other members of the same garbage cycle, which are also White
// (or already collected).
func (c *Collector) collectWhite(obj objkind.Object) {
	h := obj.Hdr()
	if h.Color != objkind.White {
		return
	}
	h.Color = objkind.Black // mark processed so a shared child isn't visited twice
	obj.VisitOutgoing(func(child objkind.Object) {
		if child != nil && child.Hdr().InRC() {
			c.collectWhite(child)
		}
	})
	if h.Finalizable() && !h.Finalized() {
		c.toFinalize.PushBack(obj)
	} else {
		c.toFree.PushBack(obj)
	}
}
