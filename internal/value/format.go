package value

import "strconv"

// IntegerOnly switches Format's number rendering from "%g"-style
// floating point to a truncated integer (LOXGO_INTEGER_ONLY, wired by
// internal/config and cmd/loxgo). It only affects how a Number prints,
// never its representation or arithmetic (spec §9: either printing
// convention is a valid implementation-defined build choice).
var IntegerOnly bool

// Format renders v the way PRINT, the REPL, and the disassembler's
// constant column all want: numbers without a trailing ".0" for
// integral values, matching original_source's printValue.
func Format(v Value) string {
	switch x := v.(type) {
	case Nil:
		return "nil"
	case Bool:
		if x {
			return "true"
		}
		return "false"
	case Number:
		if IntegerOnly {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case *ObjString:
		return x.Chars
	case *ObjFunction:
		if x.Name == nil {
			return "<script>"
		}
		return "<fn " + x.Name.Chars + ">"
	case *ObjNative:
		return "<native fn " + x.Name + ">"
	case *ObjClosure:
		return Format(x.Function)
	case *ObjClass:
		return x.Name.Chars
	case *ObjInstance:
		return x.Class.Name.Chars + " instance"
	case *ObjBoundMethod:
		return Format(x.Method.Function)
	default:
		return "<value>"
	}
}
