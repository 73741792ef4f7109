// Package natives implements loxgo's fixed set of host-provided
// callables (spec §4.2: "Provided by default: clock()"). Spec's
// Non-goals exclude general FFI; beyond clock, this build supplements
// two more natives (see SPEC_FULL.md §3): str() and len().
package natives

import (
	"fmt"
	"time"

	"github.com/kristofer/loxgo/internal/value"
)

// Definition pairs a native's name with its implementation, ready for
// a VM to intern the name and register it as a global.
type Definition struct {
	Name string
	Fn   value.NativeFn
}

// All returns every native this build provides.
func All(heap *value.Heap) []Definition {
	return []Definition{
		{Name: "clock", Fn: clockNative},
		{Name: "str", Fn: strNative(heap)},
		{Name: "len", Fn: lenNative},
	}
}

func clockNative(args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("clock() takes no arguments")
	}
	return value.Number(float64(time.Now().UnixNano()) / 1e9), nil
}

// strNative converts any value to a loxgo string, interning the result
// like any other string value. nil, booleans, strings and numbers
// ("%g") come out as PRINT shows them by default; any other value
// becomes its type name ("function", "class", ...), and the
// IntegerOnly print setting is not applied.
func strNative(heap *value.Heap) value.NativeFn {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("str() takes exactly one argument")
		}
		return heap.InternString(formatForStr(args[0])), nil
	}
}

// lenNative reports the length of a string argument; loxgo has no
// other sized collection type in scope.
func lenNative(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len() takes exactly one argument")
	}
	s, ok := args[0].(*value.ObjString)
	if !ok {
		return nil, fmt.Errorf("len() expects a string")
	}
	return value.Number(len(s.Chars)), nil
}

func formatForStr(v value.Value) string {
	switch x := v.(type) {
	case value.Nil:
		return "nil"
	case value.Bool:
		if x {
			return "true"
		}
		return "false"
	case value.Number:
		return fmt.Sprintf("%g", float64(x))
	case *value.ObjString:
		return x.Chars
	default:
		return value.TypeName(v)
	}
}
