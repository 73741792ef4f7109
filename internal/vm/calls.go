package vm

import (
	"fmt"

	"github.com/kristofer/loxgo/internal/value"
)

// callValue implements spec §4.2's CALL contract: the callee at
// stack[top-1-argCount] must be a Closure, Native, Class, or
// BoundMethod; everything else is "not callable".
func (vm *VM) callValue(callee value.Value, argCount int) error {
	switch c := callee.(type) {
	case *value.ObjClosure:
		return vm.call(c, argCount)
	case *value.ObjNative:
		args := vm.stack[vm.top-argCount : vm.top]
		result, err := c.Fn(args)
		if err != nil {
			return err
		}
		vm.top -= argCount + 1
		vm.push(result)
		return nil
	case *value.ObjClass:
		instance := vm.heap.NewInstance(c)
		vm.stack[vm.top-argCount-1] = instance
		if initializer, ok := c.Methods.Get(vm.initString); ok {
			return vm.call(initializer, argCount)
		}
		if argCount != 0 {
			return errf("Expected 0 arguments but got %d.", argCount)
		}
		return nil
	case *value.ObjBoundMethod:
		vm.stack[vm.top-argCount-1] = c.Receiver
		return vm.call(c.Method, argCount)
	default:
		return errf("Can only call functions and classes.")
	}
}

func (vm *VM) call(closure *value.ObjClosure, argCount int) error {
	if argCount != closure.Function.Arity {
		return errf("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if vm.frameCount == framesMax {
		return errf("Stack overflow.")
	}
	frame := &vm.frames[vm.frameCount]
	vm.frameCount++
	frame.closure = closure
	frame.ip = 0
	frame.slotsBase = vm.top - argCount - 1
	return nil
}

func errf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
