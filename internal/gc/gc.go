// Package gc implements loxgo's precise tracing mark-sweep collector
// (spec §4.3): mark roots, trace the gray worklist, weakly clean the
// string interner, then sweep the intrusive object list.
//
// It depends on internal/value (the object model being collected),
// internal/table (for the weak intern-table cleanup and walking
// per-object tables), and internal/compiler (one root source, for
// functions still under construction). The VM, the other root source,
// is reached through the RootSource interface rather than imported.
// None of those packages import this one back.
package gc

import (
	"fmt"
	"os"

	"github.com/kristofer/loxgo/internal/compiler"
	"github.com/kristofer/loxgo/internal/table"
	"github.com/kristofer/loxgo/internal/value"
)

// RootSource is anything the collector asks to mark its own roots.
// internal/vm.VM implements this; the compiler's root walker is a
// free function rather than an interface, since only one Parser
// compiles at a time (see internal/compiler/roots.go).
type RootSource interface {
	MarkRoots(mark func(value.Value))
}

// Collector wires a Heap to the roots it needs to trace from. Install
// assigns heap.Collect so every allocator in internal/value triggers a
// collection automatically once the budget calls for it.
type Collector struct {
	heap *value.Heap
	vm   RootSource
	gray []value.Obj
}

// Install attaches a Collector to heap, wiring heap.Collect so
// allocation-triggered collections run automatically (spec §4.3:
// "triggered opportunistically on allocation").
func Install(heap *value.Heap, vm RootSource) *Collector {
	c := &Collector{heap: heap, vm: vm}
	heap.Collect = c.Collect
	return c
}

// Collect runs one full mark-sweep cycle.
func (c *Collector) Collect() {
	before := c.heap.BytesAllocated
	if c.heap.LogGC {
		fmt.Fprintln(os.Stderr, "-- gc begin")
	}

	c.gray = c.gray[:0]
	c.vm.MarkRoots(c.mark)
	compiler.MarkRoots(c.mark)
	c.trace()

	c.heap.Strings.RemoveUnmarked(func(k table.Key) bool {
		return k.(*value.ObjString).Marked
	})

	c.sweep()
	c.heap.GrowAfterCollect()

	if c.heap.LogGC {
		fmt.Fprintf(os.Stderr, "-- gc end, collected %d bytes (%d -> %d), next at %d\n",
			before-c.heap.BytesAllocated, before, c.heap.BytesAllocated, c.heap.NextGC)
	}
}

// mark marks v if it's a heap object and not already marked, pushing
// it onto the gray worklist for trace to blacken. Non-object values
// (nil, bool, number) are no-ops, matching spec's "mark roots" which
// only ever needs to chase pointers.
func (c *Collector) mark(v value.Value) {
	obj, ok := v.(value.Obj)
	if !ok {
		return
	}
	h := obj.GCHeader()
	if h.Marked {
		return
	}
	h.Marked = true
	c.gray = append(c.gray, obj)
}

// trace repeatedly pops the gray worklist and blackens each object:
// marking the values and keys it refers to, per spec §4.3 phase 2's
// per-variant reference list.
func (c *Collector) trace() {
	for len(c.gray) > 0 {
		obj := c.gray[len(c.gray)-1]
		c.gray = c.gray[:len(c.gray)-1]
		c.blacken(obj)
	}
}

func (c *Collector) blacken(obj value.Obj) {
	switch o := obj.(type) {
	case *value.ObjClosure:
		c.mark(o.Function)
		for _, u := range o.Upvalues {
			if u != nil {
				c.mark(u)
			}
		}
	case *value.ObjFunction:
		if o.Name != nil {
			c.mark(o.Name)
		}
		for _, constant := range o.Chunk.Constants {
			c.mark(constant)
		}
	case *value.ObjClass:
		c.mark(o.Name)
		o.Methods.Each(func(k table.Key, v *value.ObjClosure) {
			c.mark(k.(*value.ObjString))
			c.mark(v)
		})
	case *value.ObjInstance:
		c.mark(o.Class)
		o.Fields.Each(func(k table.Key, v value.Value) {
			c.mark(k.(*value.ObjString))
			c.mark(v)
		})
	case *value.ObjBoundMethod:
		c.mark(o.Receiver)
		c.mark(o.Method)
	case *value.ObjUpvalue:
		c.mark(o.Closed)
	case *value.ObjString, *value.ObjNative:
		// no outgoing references
	}
}

// sweep walks the intrusive live-object list, dropping any object
// that wasn't marked and clearing the mark bit on every survivor
// (spec §4.3 phase 4). Dropped objects aren't explicitly freed — once
// unlinked they become unreachable Go values for the runtime GC to
// reclaim — but the list itself afterward contains exactly the live
// set, matching the invariant spec §4.3 states.
func (c *Collector) sweep() {
	var prev value.Obj
	obj := c.heap.Objects()
	for obj != nil {
		h := obj.GCHeader()
		next := h.Next
		if h.Marked {
			h.Marked = false
			prev = obj
		} else {
			if prev != nil {
				prev.GCHeader().Next = next
			} else {
				c.heap.SetObjects(next)
			}
		}
		obj = next
	}
}
