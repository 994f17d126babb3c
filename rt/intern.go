package rt

import "github.com/JarrettBillingsley/Croc-sub002/oahash"

const fnvOffset64 = 14695981039346656037
const fnvPrime64 = 1099511628211

// fnv1a64 is the hash cached on every interned String (spec §4.4: "(byte-
// slice, cached-hash)"). FNV-1a is a reasonable, allocation-free choice
// for short, often-ASCII identifier-like strings, which is the dominant
// shape of interned content in a scripting-language runtime.
func fnv1a64(s string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

func byteKeyEqual(a, b string) bool { return a == b }

// internTable is the VM-global table of spec §4.4: a hash from byte
// content to the canonical *String for those bytes.
type internTable struct {
	data *oahash.Table[string, *String]
}

func newInternTable() *internTable {
	return &internTable{data: oahash.New[string, *String](fnv1a64, byteKeyEqual, 64)}
}

// lookup returns the hash of b (computed either way, so a subsequent
// create doesn't recompute it, per spec §4.4) and the canonical String, if
// one already exists for those bytes.
func (it *internTable) lookup(b []byte) (hash uint64, s *String, ok bool) {
	key := string(b)
	hash = fnv1a64(key)
	s, ok = it.data.LookupHashed(hash, key)
	return
}

func (it *internTable) insert(s *String) {
	it.data.InsertHashed(s.Hash, string(s.Bytes), s)
}

func (it *internTable) remove(s *String) {
	it.data.RemoveHashed(s.Hash, string(s.Bytes))
}
