package gc

import "github.com/JarrettBillingsley/Croc-sub002/objkind"

// collectYoung traces reachability from the root set and promotes every
// nursery object the trace reaches; the rest of the nursery is freed. The
// container write barrier only logs the container and does not promote the
// target of a store, so an RC-heap object can point directly into the
// nursery. The trace therefore walks through RC-heap objects as well as
// nursery objects.
func (c *Collector) collectYoung() {
	if c.nursery.Len() == 0 {
		return
	}

	visited := make(map[objkind.Object]bool, c.nursery.Len())
	var stack []objkind.Object

	mark := func(obj objkind.Object) {
		if obj == nil || visited[obj] {
			return
		}
		visited[obj] = true
		stack = append(stack, obj)
	}

	if c.Roots != nil {
		c.Roots(mark)
	}

	for len(stack) > 0 {
		obj := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		obj.VisitOutgoing(mark)
	}

	var survivors []objkind.Object
	c.nursery.Visit(func(obj objkind.Object) bool {
		if visited[obj] {
			survivors = append(survivors, obj)
		} else {
			c.reclaimDirectly(obj)
		}
		return true
	})

	c.nursery.Clear()
	c.nurseryLen = 0
	for _, obj := range survivors {
		c.promote(obj)
	}
}

// promote moves a nursery survivor into the RC heap (spec §4.9, "Young
// (nursery) collection"). It is enqueued on both the modified buffer and
// the decrement buffer so its incoming references get reference-counted
// during the very next RC phase (spec §8, scenario S6).
func (c *Collector) promote(obj objkind.Object) {
	h := obj.Hdr()
	h.Flags |= objkind.FlagInRC
	h.SetJustMoved(true)
	h.Refcount = 1
	h.SetUnlogged(false)
	c.modified.PushBack(obj)
	c.decrement.PushBack(obj)
}

// reclaimDirectly frees a nursery object found unreachable. Nursery objects
// are never finalizable (finalizable objects are always born in the RC
// heap), so no finalization step is needed here.
func (c *Collector) reclaimDirectly(obj objkind.Object) {
	if obj.HasWeakref() {
		obj.ClearWeakref()
	}
	if c.OnFree != nil {
		c.OnFree(obj)
	}
}
