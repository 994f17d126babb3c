// Package gc implements the runtime's hybrid collector: a young-generation
// tracing pass over the nursery, a deferred reference-counting phase driven
// by a modified buffer and a decrement buffer, and a Bacon-Rajan
// trial-deletion cycle collector over RC-heap candidates (spec §4.8, §4.9).
//
// gc knows nothing about the concrete object types (Table, Class,
// Instance, ...) that live in package rt; it operates entirely through the
// objkind.Object interface and a small set of hooks the owner (rt.VM)
// supplies at construction: Roots enumerates objects that are alive by
// definition (globals, registry, live threads), and OnFree is called
// exactly once, right before an object is considered gone, so the owner
// can release its backing storage through the allocator.
package gc
