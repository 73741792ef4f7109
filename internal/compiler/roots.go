package compiler

import "github.com/kristofer/loxgo/internal/value"

// activeParser tracks whichever Parser is currently mid-compile, so
// the GC can reach functions under construction that aren't yet
// reachable from any chunk's constant pool (spec §4.3: "every function
// on the compiler frame stack, via a compiler-exported root walker").
// Compilation is synchronous and single-threaded (spec §5), so one
// package-level pointer is enough — this mirrors original_source's
// global `current` Compiler pointer.
var activeParser *Parser

// MarkRoots calls mark for every function currently under
// construction, across every nested FunctionCompiler frame of the
// compile in progress. A no-op when nothing is compiling.
func MarkRoots(mark func(value.Value)) {
	if activeParser == nil {
		return
	}
	for fc := activeParser.fc; fc != nil; fc = fc.enclosing {
		mark(fc.function)
	}
}
