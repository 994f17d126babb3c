package rt

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

// String is the interned, immutable byte-string object described in spec
// §3 and §4.4. Its data is a private copy of the bytes supplied at
// creation; callers never get a mutable view into it.
type String struct {
	hdr objkind.Header
	weakState

	Bytes []byte
	Hash  uint64
	CPLen int // cached codepoint (rune) count
}

func (s *String) Hdr() *objkind.Header { return &s.hdr }

// VisitOutgoing is a no-op: a String holds no GC edges, which is exactly
// why it is colored Green and skipped by cycle collection (spec §4.9,
// "Color discipline").
func (s *String) VisitOutgoing(func(objkind.Object)) {}

// Finalize is a no-op: strings are never finalizable.
func (s *String) Finalize() {}

// String implements fmt.Stringer for debug output.
func (s *String) String() string { return string(s.Bytes) }

// Contains reports whether sub occurs within s, byte-for-byte. Grounded on
// spec §9's note that `string::contains`'s substring variant was stubbed
// to `return false` in the source and needed a real implementation.
func (s *String) Contains(sub string) bool {
	return strings.Contains(string(s.Bytes), sub)
}

// ContainsRune reports whether r occurs within s. The single-rune
// counterpart to Contains (spec §9).
func (s *String) ContainsRune(r rune) bool {
	return strings.ContainsRune(string(s.Bytes), r)
}

// Slice returns the codepoint-indexed substring [loCP, hiCP), matching the
// `uniSlice` behavior spec §9 says is missing from the source but implied
// by `string::slice`'s call site. Panics (as a fatal core condition) on an
// out-of-range or inverted range, mirroring the core's no-user-visible-
// exceptions contract (spec §7): bounds checking against the interpreter's
// own integer-type values is the interpreter's job, not the core's.
func (s *String) Slice(loCP, hiCP int) string {
	if loCP < 0 || hiCP < loCP || hiCP > s.CPLen {
		Abort("String.Slice: range [%d,%d) out of bounds for length %d", loCP, hiCP, s.CPLen)
	}
	str := string(s.Bytes)
	loByte := cpToByteOffset(str, loCP)
	hiByte := cpToByteOffset(str, hiCP)
	return str[loByte:hiByte]
}

// At returns the rune at codepoint index cp, matching `uniCharAt` (spec
// §9). ok is false if cp is out of range.
func (s *String) At(cp int) (rune, bool) {
	if cp < 0 || cp >= s.CPLen {
		return utf8.RuneError, false
	}
	str := string(s.Bytes)
	i := 0
	for _, r := range str {
		if i == cp {
			return r, true
		}
		i++
	}
	return utf8.RuneError, false
}

// cpToByteOffset walks str rune-by-rune to translate a codepoint index
// into a byte offset. cp == the rune count of str is a valid "one past the
// end" offset.
func cpToByteOffset(str string, cp int) int {
	i := 0
	for byteOff := range str {
		if i == cp {
			return byteOff
		}
		i++
	}
	return len(str)
}

// countCodepoints returns the number of UTF-8 runes in b.
func countCodepoints(b []byte) int {
	return utf8.RuneCount(b)
}

// sanitizeUTF8 validates b as UTF-8, replacing any ill-formed sequence with
// the Unicode replacement character, via the same decode-and-validate
// pipeline used elsewhere in the pack for host-supplied byte strings of
// unknown encoding.
func sanitizeUTF8(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), b)
	if err != nil {
		// The UTF-8 decoder transformer replaces rather than errors on
		// ill-formed input in practice; this is a last-resort fallback.
		return []byte(strings.ToValidUTF8(string(b), string(utf8.RuneError)))
	}
	return out
}
