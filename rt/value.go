package rt

import (
	"math"
	"reflect"

	"github.com/JarrettBillingsley/Croc-sub002/objkind"
)

// Value is the tagged union described in spec §4.6. The first five kinds
// (Null, Bool, Int, Float, Nativeobj) are value types, stored inline; the
// rest are reference types, stored as the objkind.Object they point to.
//
// A fixed-layout union isn't idiomatic Go (and isn't load-bearing here: the
// spec's size note is about a systems target, not this one), so Value uses
// one inline numeric field plus two interface fields (one for reference
// types, one for Nativeobj payloads) rather than a real union; the Kind tag
// says which is live.
type Value struct {
	kind objkind.Kind
	num  uint64         // Int (as bits), Float (math.Float64bits), Bool (0/1)
	ref  objkind.Object // populated for reference-type kinds
	nat  any            // populated only for Nativeobj
}

// Null is the zero Value.
var Null = Value{kind: objkind.Null}

// NewBool returns a Bool value.
func NewBool(b bool) Value {
	if b {
		return Value{kind: objkind.Bool, num: 1}
	}
	return Value{kind: objkind.Bool, num: 0}
}

// NewInt returns an Int value.
func NewInt(i int64) Value { return Value{kind: objkind.Int, num: uint64(i)} }

// NewFloat returns a Float value.
func NewFloat(f float64) Value { return Value{kind: objkind.Float, num: math.Float64bits(f)} }

// NewNativeobj returns a Nativeobj value wrapping an opaque host payload.
func NewNativeobj(p any) Value { return Value{kind: objkind.Nativeobj, nat: p} }

// NewObject returns a reference-type Value wrapping obj. obj's own header
// supplies the Kind tag, so callers never have to pass it redundantly.
func NewObject(obj objkind.Object) Value {
	if obj == nil {
		return Null
	}
	return Value{kind: obj.Hdr().Kind, ref: obj}
}

// Kind returns the value's type tag.
func (v Value) Kind() objkind.Kind { return v.kind }

// IsValueType reports whether v is a value type (spec §3).
func (v Value) IsValueType() bool { return v.kind.IsValueType() }

// IsRefType reports whether v is a reference type (spec §3).
func (v Value) IsRefType() bool { return v.kind.IsRefType() }

// IsGCObject is an alias for IsRefType: every reference type is a
// GC-managed heap object (spec §4.6).
func (v Value) IsGCObject() bool { return v.IsRefType() }

// AsBool returns the Bool payload. Panics if v is not a Bool.
func (v Value) AsBool() bool {
	v.mustBe(objkind.Bool)
	return v.num != 0
}

// AsInt returns the Int payload. Panics if v is not an Int.
func (v Value) AsInt() int64 {
	v.mustBe(objkind.Int)
	return int64(v.num)
}

// AsFloat returns the Float payload. Panics if v is not a Float.
func (v Value) AsFloat() float64 {
	v.mustBe(objkind.Float)
	return math.Float64frombits(v.num)
}

// AsNativeobj returns the Nativeobj payload. Panics if v is not a
// Nativeobj.
func (v Value) AsNativeobj() any {
	v.mustBe(objkind.Nativeobj)
	return v.nat
}

// AsObject returns the underlying objkind.Object. Panics if v is not a
// reference type.
func (v Value) AsObject() objkind.Object {
	if !v.IsRefType() {
		Abort("Value.AsObject called on a %s value", v.kind)
	}
	return v.ref
}

func (v Value) mustBe(k objkind.Kind) {
	if v.kind != k {
		Abort("Value kind mismatch: wanted %s, got %s", k, v.kind)
	}
}

// IsFalse reports whether v is falsy: Null, Bool(false), or numeric zero
// (spec §3, "Value").
func (v Value) IsFalse() bool {
	switch v.kind {
	case objkind.Null:
		return true
	case objkind.Bool:
		return v.num == 0
	case objkind.Int:
		return v.num == 0
	case objkind.Float:
		return math.Float64frombits(v.num) == 0
	default:
		return false
	}
}

// Hash returns v's hash (spec §4.6): the cached hash for a String, the
// pointer identity for any other reference type, and a value-derived hash
// for value types. This is what lets Value serve as both a Table key and
// value.
func (v Value) Hash() uint64 {
	switch v.kind {
	case objkind.Null:
		return 0
	case objkind.Bool, objkind.Int:
		return v.num
	case objkind.Float:
		return v.num
	case objkind.Nativeobj:
		return uint64(reflect.ValueOf(v.nat).Pointer())
	case objkind.String:
		return v.ref.(*String).Hash
	default:
		if v.ref == nil {
			return 0
		}
		return uint64(reflect.ValueOf(v.ref).Pointer())
	}
}

// Equal implements spec §4.6's structural-on-value-types,
// identity-on-reference-types equality (identity coincides with
// byte-equality for String because strings are interned).
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case objkind.Null:
		return true
	case objkind.Bool, objkind.Int, objkind.Float:
		return v.num == o.num
	case objkind.Nativeobj:
		return v.nat == o.nat
	default:
		return v.ref == o.ref
	}
}

// valueHasher and valueEqual adapt Value to oahash.Hasher/oahash.Equal, so
// package oahash's generic Table can be instantiated over Value keys
// without oahash ever needing to know about rt.
func valueHasher(v Value) uint64 { return v.Hash() }
func valueEqual(a, b Value) bool { return a.Equal(b) }
