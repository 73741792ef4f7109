// stack-trace formatting grounded on kristofer-smog's pkg/vm/errors.go:
// a runtime failure carries the faulting message plus a rendered call
// stack, rather than just a bare error string.
package vm

import (
	"fmt"

	"github.com/fatih/color"
)

var errorColor = color.New(color.FgRed, color.Bold)
var traceColor = color.New(color.FgHiBlack)

// runtimeError builds a RuntimeError from the current call stack
// (innermost frame first), using each frame's chunk line table to
// report the source line of its in-flight instruction (spec §4.2).
// It also resets the VM's stack, matching the "stack is reset" half of
// spec's runtime-error contract.
func (vm *VM) runtimeError(faulting *CallFrame, format string, args ...any) error {
	message := fmt.Sprintf(format, args...)

	trace := make([]string, 0, vm.frameCount)
	for i := vm.frameCount - 1; i >= 0; i-- {
		f := &vm.frames[i]
		line := 0
		if f.ip-1 >= 0 && f.ip-1 < len(f.closure.Function.Chunk.Lines) {
			line = f.closure.Function.Chunk.Lines[f.ip-1]
		}
		name := "script"
		if f.closure.Function.Name != nil {
			name = f.closure.Function.Name.Chars + "()"
		}
		trace = append(trace, fmt.Sprintf("[line %d] in %s", line, name))
	}

	errorColor.Fprintf(vm.errOut, "%s\n", message)
	for _, line := range trace {
		traceColor.Fprintf(vm.errOut, "%s\n", line)
	}

	vm.resetStack()
	return &RuntimeError{Message: message, Trace: trace}
}
