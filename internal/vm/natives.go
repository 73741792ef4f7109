package vm

import "github.com/kristofer/loxgo/internal/natives"

// defineNatives implements spec §4.2's define_native: allocate a
// Native, intern its name, and insert into globals, for every
// natives.Definition this build provides.
func defineNatives(vm *VM) {
	for _, def := range natives.All(vm.heap) {
		name := vm.heap.InternString(def.Name)
		vm.globals.Set(name, vm.heap.NewNative(def.Name, def.Fn))
	}
}
