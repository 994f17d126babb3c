package oahash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strHash(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

func strEqual(a, b string) bool { return a == b }

func newStrIntTable() *Table[string, int] {
	return New[string, int](strHash, strEqual, 0)
}

func TestInsertLookupRoundTrip(t *testing.T) {
	tbl := newStrIntTable()
	tbl.Insert("a", 1)
	tbl.Insert("b", 2)

	v, ok := tbl.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = tbl.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = tbl.Lookup("missing")
	assert.False(t, ok)
}

func TestInsertUpdatesExisting(t *testing.T) {
	tbl := newStrIntTable()
	tbl.Insert("a", 1)
	tbl.Insert("a", 2)
	assert.Equal(t, 1, tbl.Len())
	v, _ := tbl.Lookup("a")
	assert.Equal(t, 2, v)
}

func TestGrowsAtLoadFactorOne(t *testing.T) {
	tbl := New[string, int](strHash, strEqual, 4)
	require.Equal(t, 4, tbl.Cap())
	for i := 0; i < 4; i++ {
		tbl.Insert(string(rune('a'+i)), i)
	}
	assert.Equal(t, 4, tbl.Cap(), "table should not have grown yet at exactly capacity entries inserted one by one without exceeding it")

	tbl.Insert("e", 4)
	assert.Greater(t, tbl.Cap(), 4, "inserting past load factor 1.0 must grow")
	for i := 0; i < 5; i++ {
		v, ok := tbl.Lookup(string(rune('a' + i)))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestRemoveThenLookupMiss(t *testing.T) {
	tbl := newStrIntTable()
	tbl.Insert("a", 1)
	tbl.Insert("b", 2)
	require.True(t, tbl.Remove("a"))
	_, ok := tbl.Lookup("a")
	assert.False(t, ok)
	v, ok := tbl.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, tbl.Len())
}

func TestRemoveDoesNotBreakChainedLookup(t *testing.T) {
	// Force collisions by using a degenerate hasher that always collides.
	collideHash := func(s string) uint64 { return 0 }
	tbl := New[string, int](collideHash, strEqual, 8)
	for i, k := range []string{"a", "b", "c", "d"} {
		tbl.Insert(k, i)
	}
	require.True(t, tbl.Remove("a"))
	for i, k := range []string{"b", "c", "d"} {
		v, ok := tbl.Lookup(k)
		require.True(t, ok, "lookup of %q must survive removal of a chain-predecessor", k)
		assert.Equal(t, i+1, v)
	}
	_, ok := tbl.Lookup("a")
	assert.False(t, ok)
}

func TestModifiedBitsTrackedAndCleared(t *testing.T) {
	tbl := newStrIntTable()
	tbl.Insert("a", 1)

	var seen []string
	tbl.VisitModified(func(key string, _ int, keyMod, valMod bool) bool {
		seen = append(seen, key)
		assert.True(t, keyMod)
		assert.True(t, valMod)
		return true
	})
	assert.Equal(t, []string{"a"}, seen)

	tbl.ClearModified()
	seen = nil
	tbl.VisitModified(func(key string, _ int, _, _ bool) bool {
		seen = append(seen, key)
		return true
	})
	assert.Empty(t, seen)
}

func TestVisitAllCoversEveryLiveEntry(t *testing.T) {
	tbl := newStrIntTable()
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		tbl.Insert(k, v)
	}
	got := map[string]int{}
	tbl.VisitAll(func(k string, v int) bool {
		got[k] = v
		return true
	})
	assert.Equal(t, want, got)
}
