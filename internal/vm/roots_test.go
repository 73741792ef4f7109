package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kristofer/loxgo/internal/value"
)

func TestMarkRootsVisitsStackFramesUpvaluesAndGlobals(t *testing.T) {
	heap := value.NewHeap()
	machine := New(heap)

	str := heap.InternString("hello")
	machine.push(str)
	machine.stack[0] = str

	key := heap.InternString("count")
	machine.globals.Set(key, value.Number(7))

	machine.stack[10] = value.Number(10)
	up := machine.captureUpvalue(10)

	fn := heap.NewFunction()
	closure := heap.NewClosure(fn)
	machine.frames[0].closure = closure
	machine.frameCount = 1

	seen := map[value.Value]bool{}
	machine.MarkRoots(func(v value.Value) { seen[v] = true })

	require.True(t, seen[str], "stack values must be marked")
	require.True(t, seen[key], "global keys must be marked, not just values")
	require.True(t, seen[value.Number(7)], "global values must be marked")
	require.True(t, seen[closure], "the active frame's closure must be marked")
	require.True(t, seen[up], "open upvalues must be marked")
	require.True(t, seen[machine.initString], "the interned init string is always a root")
}

func TestMarkRootsOnFreshVMOnlyMarksInitStringAndNatives(t *testing.T) {
	heap := value.NewHeap()
	machine := New(heap)

	count := 0
	machine.MarkRoots(func(value.Value) { count++ })
	require.Equal(t, 7, count, "before anything runs, only the interned init string and the three natives' global names and values are reachable")
}
