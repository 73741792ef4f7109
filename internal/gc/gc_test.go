package gc_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kristofer/loxgo/internal/compiler"
	"github.com/kristofer/loxgo/internal/gc"
	"github.com/kristofer/loxgo/internal/value"
	"github.com/kristofer/loxgo/internal/vm"
)

// interpret wires a heap, a collector, and a VM together exactly the
// way cmd/loxgo's newMachine does, then compiles and runs source.
func interpret(t *testing.T, heap *value.Heap, source string) string {
	t.Helper()
	machine := vm.New(heap)
	gc.Install(heap, machine)

	fn, err := compiler.Compile(source, heap)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	machine.SetOutput(&out, &errOut)
	require.NoError(t, machine.Interpret(fn))
	return out.String()
}

func TestStressGCKeepsClosureCorrect(t *testing.T) {
	heap := value.NewHeap()
	heap.StressGC = true

	out := interpret(t, heap, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		var total = 0;
		for (var i = 0; i < 50; i = i + 1) {
			total = total + counter();
		}
		print total;
	`)
	require.Equal(t, "1275\n", out)
}

func TestStressGCKeepsClassesAndInstancesCorrect(t *testing.T) {
	heap := value.NewHeap()
	heap.StressGC = true

	out := interpret(t, heap, `
		class Accumulator {
			init() { this.total = 0; }
			add(n) {
				this.total = this.total + n;
				return this.total;
			}
		}
		var a = Accumulator();
		for (var i = 1; i <= 10; i = i + 1) {
			a.add(i);
		}
		print a.total;
	`)
	require.Equal(t, "55\n", out)
}

func TestStressGCKeepsStringsAliveAcrossCollections(t *testing.T) {
	heap := value.NewHeap()
	heap.StressGC = true

	out := interpret(t, heap, `
		var greeting = "hello";
		var target = "world";
		var i = 0;
		while (i < 20) {
			var combined = greeting + " " + target;
			i = i + 1;
		}
		print greeting + " " + target;
	`)
	require.Equal(t, "hello world\n", out)
}

func TestCollectionReclaimsUnreachableStrings(t *testing.T) {
	heap := value.NewHeap()

	fn, err := compiler.Compile(`
		fun makeGarbage() {
			var s = "temporary-and-unreachable-" + "after-this-call-returns";
			return s;
		}
		makeGarbage();
	`, heap)
	require.NoError(t, err)

	machine := vm.New(heap)
	collector := gc.Install(heap, machine)
	var out, errOut bytes.Buffer
	machine.SetOutput(&out, &errOut)
	require.NoError(t, machine.Interpret(fn))

	before := heap.Strings.Count()
	collector.Collect()
	after := heap.Strings.Count()
	require.Less(t, after, before, "the temporary string should not survive a collection once unreachable")
}

func TestGlobalsKeepTheirNamesReachable(t *testing.T) {
	heap := value.NewHeap()

	fn, err := compiler.Compile(`var keepme = "value";`, heap)
	require.NoError(t, err)

	machine := vm.New(heap)
	collector := gc.Install(heap, machine)
	var out, errOut bytes.Buffer
	machine.SetOutput(&out, &errOut)
	require.NoError(t, machine.Interpret(fn))

	collector.Collect()

	out2 := interpret2(t, heap, machine, `print keepme;`)
	require.Equal(t, "value\n", out2)
}

// interpret2 compiles and runs source against an already-constructed
// machine/heap pair, for tests that need a collection to happen
// between two separate top-level programs sharing one VM.
func interpret2(t *testing.T, heap *value.Heap, machine *vm.VM, source string) string {
	t.Helper()
	fn, err := compiler.Compile(source, heap)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	machine.SetOutput(&out, &errOut)
	require.NoError(t, machine.Interpret(fn))
	return out.String()
}
