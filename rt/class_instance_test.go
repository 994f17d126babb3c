package rt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstantiatingUnfrozenClassAborts(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewClass(vm.InternString("C"), nil)
	assert.Panics(t, func() { vm.NewInstance(c) })
}

func TestSetMethodOrFieldAfterFreezeAborts(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewClass(vm.InternString("C"), nil)
	c.Freeze()
	assert.Panics(t, func() { c.SetMethod(vm.InternString("m"), Null) })
	assert.Panics(t, func() { c.SetField(vm.InternString("f"), Null) })
	assert.Panics(t, func() { c.SetHiddenField(vm.InternString("h"), Null) })
}

func TestSetMethodCachesConstructorAndFinalizer(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewClass(vm.InternString("C"), nil)

	ctor := NewObject(vm.NewNativeFunction(nil, nil, func(*VM, []Value) []Value { return nil }, nil))
	fin := NewObject(vm.NewNativeFunction(nil, nil, func(*VM, []Value) []Value { return nil }, nil))

	c.SetMethod(vm.InternString("constructor"), ctor)
	c.SetMethod(vm.InternString("finalizer"), fin)

	assert.True(t, c.Constructor.Equal(ctor))
	assert.True(t, c.Finalizer.Equal(fin))
}

func TestInstanceFieldsAreDisjointFromClassFields(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewClass(vm.InternString("C"), nil)
	name := vm.InternString("x")
	c.SetField(name, NewInt(1))
	c.Freeze()

	inst1 := vm.NewInstance(c)
	inst2 := vm.NewInstance(c)

	inst1.Set(name, NewInt(99))

	v, ok := inst1.Get(name)
	require.True(t, ok)
	assert.Equal(t, int64(99), v.AsInt())

	v, ok = inst2.Get(name)
	require.True(t, ok)
	assert.Equal(t, int64(1), v.AsInt(), "sibling instance must not see inst1's mutation")

	v, ok = c.Fields.Lookup(name)
	require.True(t, ok)
	assert.Equal(t, int64(1), v.AsInt(), "class's own default must be untouched")
}

func TestInstanceFallsBackToHiddenFields(t *testing.T) {
	vm := newTestVM(t)
	c := vm.NewClass(vm.InternString("C"), nil)
	hidden := vm.InternString("secret")
	c.SetHiddenField(hidden, NewInt(7))
	c.Freeze()

	inst := vm.NewInstance(c)
	v, ok := inst.Get(hidden)
	require.True(t, ok)
	assert.Equal(t, int64(7), v.AsInt())
}

func TestInstanceIsFinalizableOnlyWhenClassHasFinalizer(t *testing.T) {
	vm := newTestVM(t)
	plain := vm.NewClass(vm.InternString("Plain"), nil)
	plain.Freeze()
	inst := vm.NewInstance(plain)
	assert.False(t, inst.Hdr().Finalizable())

	withFin := vm.NewClass(vm.InternString("WithFin"), nil)
	withFin.SetMethod(vm.InternString("finalizer"), NewObject(
		vm.NewNativeFunction(nil, nil, func(*VM, []Value) []Value { return nil }, nil)))
	withFin.Freeze()
	inst2 := vm.NewInstance(withFin)
	assert.True(t, inst2.Hdr().Finalizable())
}
