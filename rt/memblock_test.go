package rt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

func TestNewMemblockOwnsItsStorage(t *testing.T) {
	vm := newTestVM(t)
	m := vm.NewMemblock(16)
	assert.Equal(t, 16, m.Len())
	assert.False(t, m.IsView())
	assert.Equal(t, objkind.Green, m.Hdr().Color)
}

func TestMemblockViewSharesOwnerStorage(t *testing.T) {
	vm := newTestVM(t)
	owner := vm.NewMemblock(8)
	owner.Data[0] = 0xAB

	view := vm.NewMemblockView(owner, 0, 4)
	assert.True(t, view.IsView())
	assert.Equal(t, 4, view.Len())
	assert.Equal(t, byte(0xAB), view.Data[0])

	view.Data[1] = 0xCD
	assert.Equal(t, byte(0xCD), owner.Data[1], "a view shares the owner's backing array")
}

func TestMemblockViewVisitsOwner(t *testing.T) {
	vm := newTestVM(t)
	owner := vm.NewMemblock(4)
	view := vm.NewMemblockView(owner, 0, 2)

	var sawOwner bool
	view.VisitOutgoing(func(o objkind.Object) {
		if o == objkind.Object(owner) {
			sawOwner = true
		}
	})
	assert.True(t, sawOwner)
}

func TestOwningMemblockVisitsNothing(t *testing.T) {
	vm := newTestVM(t)
	m := vm.NewMemblock(4)
	m.VisitOutgoing(func(objkind.Object) { t.Fatal("owning memblock must not report any edges") })
}
