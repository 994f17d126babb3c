package rt

import "fmt"

// FatalError reports a core-internal invariant violation: finalizer trash
// loop on close, a write barrier called on the wrong kind of object, or any
// other condition spec §7 classifies as fatal rather than user-visible.
// The core never raises user-visible exceptions (that is the interpreter's
// domain); a FatalError is surfaced to the host as a panic, matching the
// "host assertion path" spec §7 describes.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string { return "croc: fatal: " + e.Reason }

// Abort panics with a *FatalError built from format/args. Call sites use
// this instead of returning an error because the core offers no recovery
// path for these conditions (spec §7, "Propagation").
func Abort(format string, args ...any) {
	panic(&FatalError{Reason: fmt.Sprintf(format, args...)})
}
