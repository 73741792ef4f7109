// Package value implements loxgo's tagged Value representation and heap
// object model (spec §3): booleans, nil, numbers, and object references,
// plus the heap object variants (String, Function, Native, Upvalue,
// Closure, Class, Instance, BoundMethod) that sit behind an object
// reference.
//
// The Value/Obj dispatch idiom (small concrete types implementing a
// shared interface) is grounded on mna-nenuphar's lang/types package;
// the GC header fields (Marked, Next) and the string interning contract
// are grounded on original_source's object.h/object.c.
package value

// Value is any loxgo runtime value: Nil, Bool, Number, or a pointer to
// one of the Obj variants below. Values are small and copied by value —
// only the Obj pointer is ever shared, matching spec §3.
type Value interface {
	isValue()
}

// Nil is the singleton value of nil type.
type Nil struct{}

func (Nil) isValue() {}

// NilValue is the one instance of Nil; comparisons should use this
// rather than constructing a new Nil{} so that `==` and type switches
// stay obviously correct (Nil carries no state, but this keeps call
// sites uniform with Bool/Number literals).
var NilValue Value = Nil{}

// Bool is a boolean value.
type Bool bool

func (Bool) isValue() {}

// True and False are the two Bool values, for convenient reuse.
var (
	True  Value = Bool(true)
	False Value = Bool(false)
)

// BoolOf returns True or False for a native Go bool.
func BoolOf(b bool) Value {
	if b {
		return True
	}
	return False
}

// Number is loxgo's one numeric type (spec §3: "one fixed scalar type
// selected at build time"). This build selects a double-precision
// float; internal/config's INTEGER_ONLY flag only affects how numbers
// are formatted for printing (see DESIGN.md's Open Question note), not
// their representation, since Lox arithmetic is defined uniformly over
// one numeric domain either way.
type Number float64

func (Number) isValue() {}

// Truthy reports whether v is truthy. Falsy values are nil, false, and
// numeric zero (spec glossary: "Falsy").
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(x)
	case Number:
		return x != 0
	default:
		return true
	}
}

// Equal implements loxgo's equality: structural for bool/nil/number,
// reference equality for heap objects (which, for strings, coincides
// with structural equality once interning is in effect).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	default:
		return a == b
	}
}

// TypeName returns a human-readable type name for runtime error
// messages ("Operands must be numbers.", etc.).
func TypeName(v Value) string {
	switch x := v.(type) {
	case Nil:
		return "nil"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case Obj:
		return x.Kind().String()
	default:
		return "unknown"
	}
}
