package rt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThreadStartsInitialAndLinked(t *testing.T) {
	vm := newTestVM(t)
	th := vm.NewThread()
	assert.Equal(t, ThreadInitial, th.State)
	assert.Same(t, th, vm.threadHead)
}

func TestOpenUpvalReturnsSameCellForSameSlot(t *testing.T) {
	vm := newTestVM(t)
	th := vm.NewThread()
	idx := th.PushLocal(NewInt(1))

	u1 := th.OpenUpval(idx)
	u2 := th.OpenUpval(idx)
	assert.Same(t, u1, u2)
	assert.Equal(t, int64(1), u1.Value().AsInt())
}

func TestCloseUpvalsFromDetachesAtOrAboveIndex(t *testing.T) {
	vm := newTestVM(t)
	th := vm.NewThread()
	lo := th.PushLocal(NewInt(10))
	hi := th.PushLocal(NewInt(20))

	uLo := th.OpenUpval(lo)
	uHi := th.OpenUpval(hi)

	th.CloseUpvalsFrom(hi)

	assert.False(t, uLo.closed)
	assert.True(t, uHi.closed)
	assert.Equal(t, int64(20), uHi.Value().AsInt())
	require.Len(t, th.OpenUpvals, 1)
	assert.Same(t, uLo, th.OpenUpvals[0])
}

func TestResetAbortsWithOpenUpvals(t *testing.T) {
	vm := newTestVM(t)
	th := vm.NewThread()
	idx := th.PushLocal(NewInt(1))
	th.OpenUpval(idx)

	assert.Panics(t, func() { th.Reset() })
}

func TestResetClearsStateOnceUpvalsAreClosed(t *testing.T) {
	vm := newTestVM(t)
	th := vm.NewThread()
	idx := th.PushLocal(NewInt(1))
	th.OpenUpval(idx)
	th.CloseUpvalsFrom(0)

	th.ShouldHalt = true
	th.Reset()

	assert.Equal(t, ThreadInitial, th.State)
	assert.False(t, th.ShouldHalt)
	assert.Equal(t, 0, len(th.Stack))
	assert.Equal(t, 0, len(th.OpenUpvals))
}

func TestHaltRaisesShouldHalt(t *testing.T) {
	vm := newTestVM(t)
	th := vm.NewThread()
	assert.False(t, th.ShouldHalt)
	th.Halt()
	assert.True(t, th.ShouldHalt)
}
