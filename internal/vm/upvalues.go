package vm

import (
	"unsafe"

	"github.com/kristofer/loxgo/internal/value"
)

// slotIndex recovers an open upvalue's position in vm.stack from its
// raw pointer. The stack is a single fixed-size array allocated once
// in New and never reallocated, so pointers into it stay comparable
// for the lifetime of the VM — the same assumption original_source's
// pointer-arithmetic open-upvalue list makes.
func (vm *VM) slotIndex(loc *value.Value) int {
	base := unsafe.Pointer(&vm.stack[0])
	return int((uintptr(unsafe.Pointer(loc)) - uintptr(base)) / unsafe.Sizeof(vm.stack[0]))
}

// captureUpvalue implements spec §4.2's capture_upvalue: the open list
// is kept sorted by descending stack address, so this linear scan can
// stop as soon as it passes the target slot, reusing an existing
// upvalue for that slot if one is already open.
func (vm *VM) captureUpvalue(slot int) *value.ObjUpvalue {
	var prev *value.ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && vm.slotIndex(cur.Location) > slot {
		prev = cur
		cur = cur.NextOpen
	}
	if cur != nil && vm.slotIndex(cur.Location) == slot {
		return cur
	}

	created := vm.heap.NewUpvalue(&vm.stack[slot])
	created.NextOpen = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.NextOpen = created
	}
	return created
}

// closeUpvalues implements spec §4.2's close_upvalues: every open
// upvalue whose location is at or above the given stack slot is
// promoted to own its value, then unlinked from the open list.
func (vm *VM) closeUpvalues(above int) {
	for vm.openUpvalues != nil && vm.slotIndex(vm.openUpvalues.Location) >= above {
		u := vm.openUpvalues
		u.Closed = *u.Location
		u.Location = &u.Closed
		vm.openUpvalues = u.NextOpen
		u.NextOpen = nil
	}
}
