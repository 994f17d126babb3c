// Package rt implements the runtime's typed-value model and reference-type
// object zoo on top of package gc: the interned string table, the weakref
// table, Value, and the Table/Namespace/Array/Memblock/Function/Funcdef/
// Class/Instance/Thread/Upval object kinds, plus the VM that owns all of
// it (spec §3, §4.4-§4.7, §4.10).
//
// Every reference type embeds objkind.Header and implements objkind.Object,
// so package gc can walk and collect them without importing rt.
package rt
