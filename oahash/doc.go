// Package oahash implements the chained open-addressing hash table used as
// the backing store for every hash-based container in the runtime (Table,
// Namespace, Class and Instance, the interned-string table) — spec §4.3.
//
// Collisions are resolved with Brent's variant: a newly-inserted key lands
// in its primary slot (hash & mask) when that slot is free; if the slot is
// occupied by an entry that itself does not rightfully belong there, the
// occupant is relocated to a free slot and the new key takes its place; if
// the occupant does belong there, the new key goes to a free slot appended
// to the end of the occupant's chain. This keeps the
// common case (no collision) at one probe, at the cost of an occasional
// relocation on insert.
//
// Each node also carries three flag bits — Used, KeyModified, and
// ValueModified — so a container's write barrier can iterate only the
// slots that changed since the last collection instead of walking every
// entry (spec §4.8).
//
// oahash intentionally does not use Go's built-in map: the write-barrier
// protocol needs per-slot modified bits and the ability to iterate from
// within a write barrier without invalidating the iteration, neither of
// which a built-in map exposes.
package oahash
