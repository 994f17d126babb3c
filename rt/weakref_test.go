package rt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeReturnsCanonicalWeakrefPerReferent(t *testing.T) {
	vm := newTestVM(t)
	tbl := vm.NewTable()
	w1 := vm.Make(tbl)
	w2 := vm.Make(tbl)
	assert.Same(t, w1, w2)

	other := vm.NewTable()
	assert.NotSame(t, w1, vm.Make(other))
}

func TestWeakrefDerefsToReferentUntilReclaimed(t *testing.T) {
	vm := newTestVM(t)
	tbl := vm.NewTable()
	w := vm.Make(tbl)

	v := w.Deref()
	require.True(t, v.IsRefType())
	assert.Same(t, tbl, v.AsObject())
}

func TestWeakrefClearedOnReclamation(t *testing.T) {
	vm := newTestVM(t)
	tbl := vm.NewTable()
	w := vm.Make(tbl)
	// Nothing roots tbl beyond this local variable; drop it and force a
	// no-roots drain so reclamation definitely happens regardless of
	// ordinary reachability (mirrors CollectNoRoots' use at Close).
	tbl = nil
	_ = tbl
	vm.gc.CollectNoRoots()

	assert.Equal(t, Null, w.Deref())
}
