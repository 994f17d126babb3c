package gc

// Tuning holds the collector's knobs (spec §4.9, "Tuning knobs"). Any
// zero field falls back to DefaultTuning's value when the Tuning is passed
// to New or WithTuning, so the zero value means "all defaults", matching
// the documented-defaults, zero-value-means-default convention the rest of
// the runtime's options structs use.
type Tuning struct {
	// NurseryLimit is the total byte size of nursery objects that
	// triggers a young collection. Default 512 KiB.
	NurseryLimit int64

	// MetadataLimit is the combined entry count of the modified and
	// decrement buffers that triggers an RC phase. The spec expresses
	// this as a byte budget; this implementation counts buffered object
	// references directly, which is the quantity the buffers actually
	// bound. Default 128 KiB worth of entries at 8 bytes/entry (16384).
	MetadataLimit int

	// NurserySizeCutoff is the object size, in bytes, at or above which
	// an allocation bypasses the nursery entirely and is born directly
	// in the RC heap (inclusive boundary: exactly NurserySizeCutoff
	// bytes goes to the RC heap). Default 256.
	NurserySizeCutoff int

	// NextCycleCollect is the number of RC phases between mandatory
	// cycle-collection passes. Default 50.
	NextCycleCollect int

	// CycleMetadataLimit is the cycle-roots worklist length that forces
	// an out-of-schedule cycle collection even before NextCycleCollect
	// RC phases have elapsed. Counted the same way as MetadataLimit.
	// Default 16384.
	CycleMetadataLimit int

	// FinalizerTrashLoopLimit bounds the number of additional full
	// cycles a resurrecting finalizer is allowed to trigger during VM
	// close before the collector declares a fatal "finalizer trash
	// loop" (spec §4.9, Finalization). Default 1000.
	FinalizerTrashLoopLimit int
}

// DefaultTuning returns the spec-documented defaults.
func DefaultTuning() Tuning {
	return Tuning{
		NurseryLimit:            512 * 1024,
		MetadataLimit:           16384,
		NurserySizeCutoff:       256,
		NextCycleCollect:        50,
		CycleMetadataLimit:      16384,
		FinalizerTrashLoopLimit: 1000,
	}
}

func (t *Tuning) applyDefaultsForZeroFields() {
	d := DefaultTuning()
	if t.NurseryLimit == 0 {
		t.NurseryLimit = d.NurseryLimit
	}
	if t.MetadataLimit == 0 {
		t.MetadataLimit = d.MetadataLimit
	}
	if t.NurserySizeCutoff == 0 {
		t.NurserySizeCutoff = d.NurserySizeCutoff
	}
	if t.NextCycleCollect == 0 {
		t.NextCycleCollect = d.NextCycleCollect
	}
	if t.CycleMetadataLimit == 0 {
		t.CycleMetadataLimit = d.CycleMetadataLimit
	}
	if t.FinalizerTrashLoopLimit == 0 {
		t.FinalizerTrashLoopLimit = d.FinalizerTrashLoopLimit
	}
}
