package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternStringDedupesEqualContent(t *testing.T) {
	h := NewHeap()
	a := h.InternString("same")
	b := h.InternString("same")
	require.Same(t, a, b)
	require.Equal(t, 1, h.Strings.Count())
}

func TestInternStringDistinguishesDifferentContent(t *testing.T) {
	h := NewHeap()
	a := h.InternString("one")
	b := h.InternString("two")
	require.NotSame(t, a, b)
	require.Equal(t, 2, h.Strings.Count())
}

func TestNewObjectsAreThreadedIntoObjectList(t *testing.T) {
	h := NewHeap()
	require.Nil(t, h.Objects())

	s := h.InternString("x")
	require.Same(t, Obj(s), h.Objects())

	fn := h.NewFunction()
	require.Same(t, Obj(fn), h.Objects())
	require.Same(t, Obj(s), fn.GCHeader().Next)
}

func TestNewClosureAllocatesUpvalueSlots(t *testing.T) {
	h := NewHeap()
	fn := h.NewFunction()
	fn.UpvalueCount = 3
	c := h.NewClosure(fn)
	require.Len(t, c.Upvalues, 3)
	require.Same(t, fn, c.Function)
}

func TestNewInstanceHasOwnFieldsTable(t *testing.T) {
	h := NewHeap()
	class := h.NewClass(h.InternString("Point"))
	a := h.NewInstance(class)
	b := h.NewInstance(class)
	a.Fields.Set(h.InternString("x"), Number(1))
	_, ok := b.Fields.Get(h.InternString("x"))
	require.False(t, ok, "instances must not share a fields table")
}

func TestAllocationAccountsBytes(t *testing.T) {
	h := NewHeap()
	before := h.BytesAllocated
	h.InternString("some bytes")
	require.Greater(t, h.BytesAllocated, before)
}

func TestStressGCTriggersCollectOnEveryAllocation(t *testing.T) {
	h := NewHeap()
	h.StressGC = true
	calls := 0
	h.Collect = func() { calls++ }

	h.InternString("a")
	h.NewFunction()
	require.Equal(t, 2, calls)
}

func TestCollectFiresOnceBudgetExceeded(t *testing.T) {
	h := NewHeap()
	h.NextGC = 0
	calls := 0
	h.Collect = func() { calls++ }

	h.InternString("trigger")
	require.Equal(t, 1, calls)
}

func TestGrowAfterCollectDoublesFloorsAtInitial(t *testing.T) {
	h := NewHeap()
	h.BytesAllocated = 10
	h.GrowAfterCollect()
	require.Equal(t, int64(initialNextGC), h.NextGC)

	h.BytesAllocated = initialNextGC
	h.GrowAfterCollect()
	require.Equal(t, int64(initialNextGC*2), h.NextGC)
}

func TestSetObjectsReplacesListHead(t *testing.T) {
	h := NewHeap()
	h.InternString("a")
	h.SetObjects(nil)
	require.Nil(t, h.Objects())
}
