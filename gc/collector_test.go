package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

// fakeObj is a minimal objkind.Object used to exercise the collector
// without pulling in the full rt object zoo.
type fakeObj struct {
	hdr        objkind.Header
	name       string
	edges      []*fakeObj
	weakCell   *bool // non-nil once a weakref has been made; value tracks "cleared"
	finalized  *[]string
	onFinalize func(self *fakeObj)
	freed      *bool
}

func newFakeObj(name string, size int) *fakeObj {
	return &fakeObj{name: name, hdr: objkind.Header{Kind: objkind.Instance, Size: int32(size)}}
}

func (f *fakeObj) Hdr() *objkind.Header { return &f.hdr }

func (f *fakeObj) VisitOutgoing(visit func(objkind.Object)) {
	for _, e := range f.edges {
		if e != nil {
			visit(e)
		}
	}
}

func (f *fakeObj) Finalize() {
	if f.finalized != nil {
		*f.finalized = append(*f.finalized, f.name)
	}
	if f.onFinalize != nil {
		f.onFinalize(f)
	}
}

func (f *fakeObj) HasWeakref() bool { return f.weakCell != nil }

func (f *fakeObj) ClearWeakref() {
	if f.weakCell != nil {
		*f.weakCell = true
	}
}

func newCollectorForTest() (*Collector, *[]objkind.Object) {
	c := New(Tuning{})
	var freed []objkind.Object
	c.OnFree = func(o objkind.Object) { freed = append(freed, o) }
	return c, &freed
}

func TestPromotionAccounting_S6(t *testing.T) {
	c, _ := newCollectorForTest()
	var roots []*fakeObj
	c.Roots = func(visit func(objkind.Object)) {
		for _, r := range roots {
			visit(r)
		}
	}

	o := newFakeObj("o", 64)
	roots = append(roots, o)
	c.RegisterAlloc(o, 64)
	assert.False(t, o.hdr.InRC())

	c.Collect()
	assert.True(t, o.hdr.InRC())
	assert.True(t, o.hdr.JustMoved())
	assert.EqualValues(t, 1, o.hdr.Refcount)

	c.Collect()
	assert.True(t, o.hdr.InRC())
	assert.False(t, o.hdr.JustMoved())
	assert.EqualValues(t, 1, o.hdr.Refcount)
}

func TestNurserySizeCutoffIsInclusiveForRC(t *testing.T) {
	c, _ := newCollectorForTest()
	c.tuning.NurserySizeCutoff = 256

	small := newFakeObj("small", 255)
	c.RegisterAlloc(small, 255)
	assert.False(t, small.hdr.InRC())

	boundary := newFakeObj("boundary", 256)
	c.RegisterAlloc(boundary, 256)
	assert.True(t, boundary.hdr.InRC())
}

func TestAcyclicReclamation_S1(t *testing.T) {
	c, freed := newCollectorForTest()
	var rootRef *fakeObj
	c.Roots = func(visit func(objkind.Object)) {
		if rootRef != nil {
			visit(rootRef)
		}
	}

	table := newFakeObj("table", 300)
	c.RegisterAlloc(table, 300) // born directly in RC heap (>= cutoff)
	rootRef = table
	c.Collect()
	require.True(t, table.hdr.InRC())
	assert.EqualValues(t, 1, table.hdr.Refcount)

	// Drop the sole reference.
	rootRef = nil
	c.BarrierPointerSlot(table) // logs table (it has no outgoing edges), mirroring a real mutation path
	c.decrement.PushBack(table)
	c.Collect()

	assert.Contains(t, *freed, objkind.Object(table))
}

func TestCyclicReclamation_S2(t *testing.T) {
	c, freed := newCollectorForTest()
	c.Roots = func(visit func(objkind.Object)) {}

	a := newFakeObj("A", 300)
	b := newFakeObj("B", 300)
	a.edges = []*fakeObj{b}
	b.edges = []*fakeObj{a}

	c.RegisterAlloc(a, 300)
	c.RegisterAlloc(b, 300)
	// RegisterAlloc already queued both on the modified buffer; the first
	// Collect reconciles the mutual edges, bringing each refcount from 1
	// (the external reference) to 2 (external + the other's edge).
	c.Collect()

	require.EqualValues(t, 2, a.hdr.Refcount)
	require.EqualValues(t, 2, b.hdr.Refcount)

	// Drop both external references.
	c.decrement.PushBack(a)
	c.decrement.PushBack(b)
	c.CollectFull()

	assert.Contains(t, *freed, objkind.Object(a))
	assert.Contains(t, *freed, objkind.Object(b))
}

func TestFinalizerResurrection_S3(t *testing.T) {
	c, freed := newCollectorForTest()
	var global *fakeObj
	c.Roots = func(visit func(objkind.Object)) {
		if global != nil {
			visit(global)
		}
	}

	var finalizedNames []string
	inst := newFakeObj("inst", 300)
	inst.hdr.Flags |= objkind.FlagFinalizable
	inst.finalized = &finalizedNames
	inst.onFinalize = func(self *fakeObj) {
		global = self // resurrect: store self into a reachable global
		self.hdr.Refcount = 1
	}
	c.RegisterAlloc(inst, 300)

	// Drop the local reference.
	c.decrement.PushBack(inst)
	c.Collect()

	assert.Equal(t, []string{"inst"}, finalizedNames)
	assert.True(t, inst.hdr.Finalized())
	assert.NotContains(t, *freed, objkind.Object(inst))

	// Clear the global and collect again: Finalized must prevent a
	// second finalizer run, and the object must now be freed.
	global = nil
	inst.onFinalize = nil
	c.decrement.PushBack(inst)
	c.Collect()

	assert.Equal(t, []string{"inst"}, finalizedNames, "finalizer must not run twice")
	assert.Contains(t, *freed, objkind.Object(inst))
}

func TestWeakrefClearedOnReclamation_S4(t *testing.T) {
	c, _ := newCollectorForTest()
	c.Roots = func(visit func(objkind.Object)) {}

	o := newFakeObj("o", 300)
	cleared := false
	o.weakCell = &cleared
	c.RegisterAlloc(o, 300)

	c.decrement.PushBack(o)
	c.Collect()

	assert.True(t, cleared)
}

func TestWriteBarrierCoalescing_S5(t *testing.T) {
	c, _ := newCollectorForTest()
	o := newFakeObj("o", 300)
	o.hdr.Flags |= objkind.FlagInRC
	o.hdr.SetUnlogged(true)

	c.BarrierContainer(o)
	assert.False(t, o.hdr.Unlogged())
	assert.Equal(t, 1, c.modified.Len())

	c.BarrierContainer(o) // second call before a collection is a no-op
	assert.Equal(t, 1, c.modified.Len())

	c.Collect()
	assert.True(t, o.hdr.Unlogged())
	assert.Equal(t, 0, c.modified.Len())
}

func TestGreenObjectsNeverBecomeCycleCandidates(t *testing.T) {
	c, _ := newCollectorForTest()
	o := newFakeObj("greenish", 300)
	o.hdr.Flags |= objkind.FlagInRC
	o.hdr.Color = objkind.Green
	o.hdr.Refcount = 2

	c.decrement.PushBack(o)
	c.processDecrementBuffer(map[objkind.Object]bool{})

	assert.EqualValues(t, 1, o.hdr.Refcount)
	assert.Equal(t, 0, c.cycleRoots.Len())
}
