// Package objkind defines the vocabulary shared by every heap-managed
// object in the runtime: its kind tag, its GC color, and the flag word
// carried in every object header.
//
// It has no dependencies on the object types themselves, or on the
// collector, so that both the object zoo (package rt) and the collector
// (package gc) can agree on header layout without importing each other.
package objkind
