package rt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternStringCanonicalizesByContent(t *testing.T) {
	vm := newTestVM(t)
	a := vm.InternString("hello")
	b := vm.InternString("hello")
	assert.Same(t, a, b)
	assert.NotSame(t, a, vm.InternString("hello!"))
}

func TestInternStringCachesCodepointCount(t *testing.T) {
	vm := newTestVM(t)
	s := vm.InternString("héllo") // é is 2 bytes, 1 codepoint
	assert.Equal(t, 5, s.CPLen)
	assert.Len(t, s.Bytes, 6)
}

func TestStringSliceIsCodepointIndexed(t *testing.T) {
	vm := newTestVM(t)
	s := vm.InternString("héllo")
	assert.Equal(t, "éll", s.Slice(1, 4))
	assert.Equal(t, "héllo", s.Slice(0, 5))
	assert.Equal(t, "", s.Slice(2, 2))
}

func TestStringSliceOutOfRangeAborts(t *testing.T) {
	vm := newTestVM(t)
	s := vm.InternString("abc")
	assert.Panics(t, func() { s.Slice(0, 4) })
	assert.Panics(t, func() { s.Slice(-1, 2) })
	assert.Panics(t, func() { s.Slice(2, 1) })
}

func TestStringAtReturnsRuneByCodepointIndex(t *testing.T) {
	vm := newTestVM(t)
	s := vm.InternString("héllo")
	r, ok := s.At(1)
	require.True(t, ok)
	assert.Equal(t, 'é', r)

	_, ok = s.At(5)
	assert.False(t, ok)
	_, ok = s.At(-1)
	assert.False(t, ok)
}

func TestStringContainsAndContainsRune(t *testing.T) {
	vm := newTestVM(t)
	s := vm.InternString("héllo world")
	assert.True(t, s.Contains("llo"))
	assert.False(t, s.Contains("xyz"))
	assert.True(t, s.ContainsRune('é'))
	assert.False(t, s.ContainsRune('z'))
}

func TestInternBytesSanitizesIllFormedUTF8(t *testing.T) {
	vm := newTestVM(t)
	bad := []byte{'o', 'k', 0xff, 0xfe}
	s := vm.InternBytes(bad)
	assert.True(t, len(s.Bytes) >= 2)
	assert.Equal(t, "ok", string(s.Bytes[:2]))
}
