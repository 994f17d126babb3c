package objkind

// Kind tags every Value and every heap object. The first five are value
// types (compared structurally); the rest are reference types (compared by
// pointer identity, except String which is interned so identity coincides
// with byte-equality).
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Float
	Nativeobj

	String
	Weakref
	Table
	Namespace
	Array
	Memblock
	Function
	Funcdef
	Class
	Instance
	Thread
	Upval
)

// String names the kind for debug output and panic messages.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Nativeobj:
		return "nativeobj"
	case String:
		return "string"
	case Weakref:
		return "weakref"
	case Table:
		return "table"
	case Namespace:
		return "namespace"
	case Array:
		return "array"
	case Memblock:
		return "memblock"
	case Function:
		return "function"
	case Funcdef:
		return "funcdef"
	case Class:
		return "class"
	case Instance:
		return "instance"
	case Thread:
		return "thread"
	case Upval:
		return "upval"
	default:
		return "<unknown kind>"
	}
}

// IsValueType reports whether k is compared and copied structurally rather
// than through the heap (Null, Bool, Int, Float, Nativeobj).
func (k Kind) IsValueType() bool {
	return k <= Nativeobj
}

// IsRefType reports whether k is a heap-managed, GC-traced reference type.
func (k Kind) IsRefType() bool {
	return k > Nativeobj
}
