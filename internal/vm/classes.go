package vm

import "github.com/kristofer/loxgo/internal/value"

// getProperty implements spec §4.2's GET_PROPERTY: look in the
// instance's own fields first, then fall back to binding a method off
// its class. Either receiver-not-instance or name-not-found is a
// runtime error.
func (vm *VM) getProperty(frame *CallFrame, name *value.ObjString) error {
	instance, ok := vm.peek(0).(*value.ObjInstance)
	if !ok {
		return vm.runtimeError(frame, "Only instances have properties.")
	}
	if field, ok := instance.Fields.Get(name); ok {
		vm.pop() // instance
		vm.push(field)
		return nil
	}
	method, ok := instance.Class.Methods.Get(name)
	if !ok {
		return vm.runtimeError(frame, "Undefined property '%s'.", name.Chars)
	}
	bound := vm.heap.NewBoundMethod(instance, method)
	vm.pop()
	vm.push(bound)
	return nil
}

func (vm *VM) setProperty(frame *CallFrame, name *value.ObjString) error {
	instance, ok := vm.peek(1).(*value.ObjInstance)
	if !ok {
		return vm.runtimeError(frame, "Only instances have fields.")
	}
	instance.Fields.Set(name, vm.peek(0))
	v := vm.pop()
	vm.pop() // instance
	vm.push(v)
	return nil
}

// defineMethod implements spec §4.2's METHOD: top is a Closure, below
// it is the Class being built; insert and pop the closure, leaving the
// class on the stack for the next method or the closing pop.
func (vm *VM) defineMethod(name *value.ObjString) {
	method := vm.pop().(*value.ObjClosure)
	class := vm.peek(0).(*value.ObjClass)
	class.Methods.Set(name, method)
}
