package objkind

// Color implements the Bacon-Rajan trial-deletion coloring used by the
// cycle collector (spec §4.9). Black is the zero value so freshly allocated
// objects start out looking alive without an explicit initialization step.
type Color uint8

const (
	// Black marks an object as known-alive, or not currently a cycle
	// candidate. This is the steady-state color for most RC objects.
	Black Color = iota

	// Grey marks an object under scrutiny during the mark phase of trial
	// deletion: its subgraph has had its internal reference counts
	// tentatively decremented and is awaiting the scan phase.
	Grey

	// White marks an object tentatively dead: the scan phase found no
	// positive external refcount reaching it. Objects still White after
	// the collect phase are freed.
	White

	// Purple marks a buffered cycle-root candidate: an RC object whose
	// refcount was decremented but remained positive.
	Purple

	// Green marks an object provably acyclic by construction (String,
	// Weakref, Memblock, closed-over value-type Upval). Green objects are never added to the cycle-roots worklist
	// and are skipped entirely by trial deletion.
	Green
)

// String names the color for debug output.
func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case Grey:
		return "grey"
	case White:
		return "white"
	case Purple:
		return "purple"
	case Green:
		return "green"
	default:
		return "<unknown color>"
	}
}
