package vm

import (
	"github.com/kristofer/loxgo/internal/table"
	"github.com/kristofer/loxgo/internal/value"
)

// MarkRoots calls mark for every Value the VM itself holds live: the
// occupied stack slots, each call frame's closure, every open
// upvalue, every global, and the interned "init" string used for
// constructor dispatch (spec §4.3 phase 1).
func (vm *VM) MarkRoots(mark func(value.Value)) {
	for i := 0; i < vm.top; i++ {
		mark(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		mark(vm.frames[i].closure)
	}
	for u := vm.openUpvalues; u != nil; u = u.NextOpen {
		mark(u)
	}
	vm.globals.Each(func(k table.Key, v value.Value) {
		if s, ok := k.(*value.ObjString); ok {
			mark(s)
		}
		mark(v)
	})
	if vm.initString != nil {
		mark(vm.initString)
	}
}
