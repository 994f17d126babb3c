package rt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

func TestNewScriptFunctionCachesZeroUpvalClosure(t *testing.T) {
	vm := newTestVM(t)
	def := vm.NewFuncdef(vm.InternString("f"))
	env := vm.Globals

	f1 := vm.NewScriptFunction(vm.InternString("f"), env, def, nil)
	f2 := vm.NewScriptFunction(vm.InternString("f"), env, def, nil)

	assert.Same(t, f1, f2)
	assert.Same(t, f1, def.CachedClosure)
}

func TestNewScriptFunctionWithUpvalsIsNeverCached(t *testing.T) {
	vm := newTestVM(t)
	def := vm.NewFuncdef(vm.InternString("g"))
	env := vm.Globals
	th := vm.NewThread()
	idx := th.PushLocal(NewInt(5))
	u := th.OpenUpval(idx)

	f1 := vm.NewScriptFunction(vm.InternString("g"), env, def, []*Upval{u})
	f2 := vm.NewScriptFunction(vm.InternString("g"), env, def, []*Upval{u})

	assert.NotSame(t, f1, f2)
	assert.Nil(t, def.CachedClosure)
}

func TestPartialScriptFunctionTwoPhaseConstruction(t *testing.T) {
	vm := newTestVM(t)
	def := vm.NewFuncdef(vm.InternString("h"))
	env := vm.Globals

	f := vm.NewPartialScriptFunction()
	assert.Nil(t, f.Def)
	assert.Nil(t, f.Env)

	f.Finish(vm, def, env, nil)
	assert.Same(t, def, f.Def)
	assert.Same(t, env, f.Env)
}

func TestFunctionIsNativeDistinguishesNativeFromScript(t *testing.T) {
	vm := newTestVM(t)
	native := vm.NewNativeFunction(nil, nil, func(*VM, []Value) []Value { return nil }, nil)
	assert.True(t, native.IsNative())

	def := vm.NewFuncdef(vm.InternString("s"))
	script := vm.NewScriptFunction(vm.InternString("s"), vm.Globals, def, nil)
	assert.False(t, script.IsNative())
}

func TestFuncdefVisitOutgoingIncludesCachedClosure(t *testing.T) {
	vm := newTestVM(t)
	def := vm.NewFuncdef(vm.InternString("k"))
	f := vm.NewScriptFunction(vm.InternString("k"), vm.Globals, def, nil)

	var sawClosure bool
	def.VisitOutgoing(func(o objkind.Object) {
		if o == objkind.Object(f) {
			sawClosure = true
		}
	})
	require.Same(t, f, def.CachedClosure)
	assert.True(t, sawClosure)
}
